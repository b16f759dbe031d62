package extensions

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	etp "github.com/pumped-fn/etp-sizing"
)

func TestLoggingExtension(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	scope := etp.NewScope(etp.WithExtension(NewLoggingExtension(zap.New(core))))
	defer scope.Dispose()

	depth, _, pump, _ := chain()
	_, err := etp.Resolve(scope, pump)
	require.NoError(t, err)
	assert.Equal(t, 3, logs.FilterMessage("resolve").Len())

	changed, err := etp.Update(scope, depth, 5)
	require.NoError(t, err)
	require.True(t, changed)

	passes := logs.FilterMessage("pass settled").All()
	require.Len(t, passes, 1)
	fields := passes[0].ContextMap()
	assert.Equal(t, "depth", fields["trigger"])
	assert.Equal(t, int64(0), fields["skipped"])
	assert.Equal(t, 2, logs.FilterMessage("recompute").Len())

	_, err = etp.Update(scope, depth, 11)
	require.Error(t, err)
	failed := logs.FilterMessage("operation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "volume", failed[0].ContextMap()["group"])
}

func TestLoggingExtensionNilLogger(t *testing.T) {
	scope := etp.NewScope(etp.WithExtension(NewLoggingExtension(nil)))
	_, _, pump, _ := chain()
	_, err := etp.Resolve(scope, pump)
	require.NoError(t, err)
	assert.NoError(t, scope.Dispose())
}

func TestMetricsExtension(t *testing.T) {
	reg := prometheus.NewRegistry()
	ext := NewMetricsExtension(reg)
	scope := etp.NewScope(etp.WithExtension(ext))
	defer scope.Dispose()

	depth, _, pump, width := chain()
	_, err := etp.Resolve(scope, pump)
	require.NoError(t, err)
	_, err = etp.Resolve(scope, width)
	require.NoError(t, err)

	_, err = etp.Update(scope, depth, 5)
	require.NoError(t, err)
	changed, err := etp.Update(scope, depth, 5)
	require.NoError(t, err)
	require.False(t, changed)

	assert.Equal(t, 1.0, testutil.ToFloat64(ext.evaluations.WithLabelValues("volume", "recompute", "written")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ext.evaluations.WithLabelValues("depth", "update", "written")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ext.evaluations.WithLabelValues("depth", "update", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ext.passes.WithLabelValues("depth")))
	assert.Equal(t, float64(scope.Writes()), testutil.ToFloat64(ext.version))

	_, err = etp.Update(scope, depth, 20)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(ext.errors.WithLabelValues("volume", "recompute")))

	count, err := testutil.GatherAndCount(reg, "etp_pass_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
