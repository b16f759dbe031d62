package etp

import "strconv"

// Tag is a type-safe key for metadata
type Tag[T any] struct {
	key string
}

// NewTag creates a new tag with the given key
func NewTag[T any](key string) Tag[T] {
	return Tag[T]{key: key}
}

// Key returns the tag's key (for debugging)
func (t Tag[T]) Key() string {
	return t.key
}

// Get retrieves the tag value from a cell
func (t Tag[T]) Get(cell AnyCell) (T, bool) {
	val, ok := cell.GetTag(t)
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// GetOrDefault retrieves the tag value or returns a default
func (t Tag[T]) GetOrDefault(cell AnyCell, defaultVal T) T {
	if val, ok := t.Get(cell); ok {
		return val
	}
	return defaultVal
}

// Set stores the tag value on a cell
func (t Tag[T]) Set(cell AnyCell, val T) {
	cell.SetTag(t, val)
}

// GetFromScope retrieves the tag value from a scope
func (t Tag[T]) GetFromScope(scope *Scope) (T, bool) {
	val, ok := scope.GetTag(t)
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// SetOnScope stores the tag value on a scope
func (t Tag[T]) SetOnScope(scope *Scope, val T) {
	scope.SetTag(t, val)
}

var groupNameTag = NewTag[string]("group.name")

// GroupName returns the tag carrying a cell's group name
func GroupName() Tag[string] { return groupNameTag }

// NameOf returns the group name of a cell, or a synthetic one when untagged.
func NameOf(cell AnyCell) string {
	if name, ok := groupNameTag.Get(cell); ok {
		return name
	}
	return "cell_" + strconv.FormatUint(cell.ID(), 10)
}
