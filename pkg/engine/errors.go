package engine

import "errors"

// Edit command errors. Test with errors.Is; the returned errors wrap these
// with the offending name.
var (
	ErrUnknownList      = errors.New("unknown parameter list")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownEquipment = errors.New("unknown equipment")
	// ErrCalculatedField rejects edits to fields the engine writes.
	ErrCalculatedField = errors.New("field is calculated")
	ErrInvalidIndustry = errors.New("invalid industry")
	ErrInvalidSupply   = errors.New("invalid supply")
	ErrUnknownGroup    = errors.New("unknown group")
)
