package extensions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	etp "github.com/pumped-fn/etp-sizing"
)

var errTooDeep = errors.New("depth out of range")

// chain builds depth -> volume -> pump, plus depth -> width. volume fails
// once depth exceeds 10.
func chain() (depth *etp.Cell[float64], volume, pump, width *etp.Cell[float64]) {
	depth = etp.Provide(func(*etp.ResolveCtx) (float64, error) { return 4, nil }, etp.WithName("depth"))
	volume = etp.Derive1(depth.Reactive(), func(ctx *etp.ResolveCtx, d *etp.Controller[float64]) (float64, error) {
		v := d.MustGet()
		if v > 10 {
			return 0, errTooDeep
		}
		return v * 100, nil
	}, etp.WithName("volume"))
	pump = etp.Derive1(volume.Reactive(), func(ctx *etp.ResolveCtx, v *etp.Controller[float64]) (float64, error) {
		return v.MustGet() / 24, nil
	}, etp.WithName("pump"))
	width = etp.Derive1(depth.Reactive(), func(ctx *etp.ResolveCtx, d *etp.Controller[float64]) (float64, error) {
		return d.MustGet() * 2, nil
	}, etp.WithName("width"))
	return depth, volume, pump, width
}

func TestGraphDebugLogsDependentsOnError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	scope := etp.NewScope(etp.WithExtension(NewGraphDebugExtension(zap.New(core))))
	defer scope.Dispose()

	depth, _, pump, width := chain()
	_, err := etp.Resolve(scope, pump)
	require.NoError(t, err)
	_, err = etp.Resolve(scope, width)
	require.NoError(t, err)

	_, err = etp.Update(scope, depth, 12)
	require.ErrorIs(t, err, errTooDeep)

	entries := logs.FilterMessage("group evaluation failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "volume", fields["group"])
	assert.Equal(t, "recompute", fields["op"])

	drawn, ok := fields["dependents"].(string)
	require.True(t, ok)
	assert.Contains(t, drawn, "volume ✗")
	assert.Contains(t, drawn, "pump ✓")
}

func TestRenderDependents(t *testing.T) {
	scope := etp.NewScope()
	defer scope.Dispose()

	depth, _, pump, width := chain()
	_, err := etp.Resolve(scope, pump)
	require.NoError(t, err)
	_, err = etp.Resolve(scope, width)
	require.NoError(t, err)

	drawn := RenderDependents(scope.Graph(), depth)
	for _, name := range []string{"depth", "volume", "pump", "width"} {
		assert.Contains(t, drawn, name)
	}

	leaf := RenderDependents(scope.Graph(), width)
	assert.Contains(t, leaf, "width")
	assert.NotContains(t, leaf, "volume")
}

func TestRenderDependentsExpandsSharedGroupOnce(t *testing.T) {
	scope := etp.NewScope()
	defer scope.Dispose()

	base := etp.Provide(func(*etp.ResolveCtx) (int, error) { return 1, nil }, etp.WithName("base"))
	left := etp.Derive1(base.Reactive(), func(ctx *etp.ResolveCtx, b *etp.Controller[int]) (int, error) {
		return b.MustGet() + 1, nil
	}, etp.WithName("left"))
	right := etp.Derive1(base.Reactive(), func(ctx *etp.ResolveCtx, b *etp.Controller[int]) (int, error) {
		return b.MustGet() + 2, nil
	}, etp.WithName("right"))
	join := etp.Derive2(left.Reactive(), right.Reactive(), func(ctx *etp.ResolveCtx, l, r *etp.Controller[int]) (int, error) {
		return l.MustGet() + r.MustGet(), nil
	}, etp.WithName("join"))

	_, err := etp.Resolve(scope, join)
	require.NoError(t, err)

	drawn := RenderDependents(scope.Graph(), base)
	assert.Contains(t, drawn, "join …")
}
