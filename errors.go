package fluor

import "errors"

// ErrInvalidThread is returned when a cell operation runs on a goroutine
// other than the one that owns the cell's Context.
var ErrInvalidThread = errors.New("fluor: invalid-thread: operation invoked from a goroutine that does not own this cell's context")

// ErrForbiddenDuringEvaluation is returned when Set or Clear is invoked
// while an evaluation is in progress on the owning goroutine.
var ErrForbiddenDuringEvaluation = errors.New("fluor: forbidden-during-evaluation: set/clear invoked while a get() is in progress")

// ErrSourceUncached is returned by Get on a writable/clearable cell that
// was cleared and has no expression to recompute itself from.
var ErrSourceUncached = errors.New("fluor: source cell has no cached value and no expression to recompute it")
