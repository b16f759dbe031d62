package etp

// Controller provides access to a cell's value within a scope.
//
// Controllers handed to factories read through the running pass and must not
// be retained; controllers from Accessor lock the scope on every call.
type Controller[T any] struct {
	cell  *Cell[T]
	scope *Scope
	ctx   *ResolveCtx
}

// Get retrieves the settled value (resolves if not cached)
func (c *Controller[T]) Get() (T, error) {
	if c.ctx != nil {
		return resolveTyped(c.scope, c.cell)
	}
	return Resolve(c.scope, c.cell)
}

// MustGet returns the value or the zero value when resolution fails. Derived
// groups use it because their upstreams are total.
func (c *Controller[T]) MustGet() T {
	val, err := c.Get()
	if err != nil {
		var zero T
		return zero
	}
	return val
}

// Peek retrieves the cached value without resolving
func (c *Controller[T]) Peek() (T, bool) {
	if c.ctx == nil {
		c.scope.mu.Lock()
		defer c.scope.mu.Unlock()
	}
	val, ok := c.scope.values[c.cell]
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// Update writes a new value through the convergence guard and propagates to
// reactive dependents. It reports whether anything was written.
func (c *Controller[T]) Update(newVal T) (bool, error) {
	return Update(c.scope, c.cell, newVal)
}

// IsCached checks if the value is currently cached
func (c *Controller[T]) IsCached() bool {
	_, ok := c.Peek()
	return ok
}
