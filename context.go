package etp

// ResolveCtx provides context for factory functions
type ResolveCtx struct {
	scope *Scope
	cell  AnyCell
}

// Scope returns the scope the factory runs in
func (ctx *ResolveCtx) Scope() *Scope {
	return ctx.scope
}

// GetTag retrieves a tag value from the scope
func (ctx *ResolveCtx) GetTag(tag any) (any, bool) {
	return ctx.scope.GetTag(tag)
}

// GetTag retrieves a typed tag value from the scope
func GetTag[T any](ctx *ResolveCtx, tag Tag[T]) (T, bool) {
	return tag.GetFromScope(ctx.scope)
}

// GetTagOrDefault retrieves a typed tag or returns a default value
func GetTagOrDefault[T any](ctx *ResolveCtx, tag Tag[T], defaultVal T) T {
	if val, ok := tag.GetFromScope(ctx.scope); ok {
		return val
	}
	return defaultVal
}

// Prior returns the value currently stored for the cell being computed.
// It is false on first resolution. Factories may use it to keep fields
// frozen, never as a formula input.
func Prior[T any](ctx *ResolveCtx) (T, bool) {
	var zero T
	if ctx == nil || ctx.cell == nil {
		return zero, false
	}
	val, ok := ctx.scope.values[ctx.cell]
	if !ok {
		return zero, false
	}
	typed, ok := val.(T)
	return typed, ok
}
