package match

import "errors"

var (
	ErrQueueFull           = errors.New("production queue is full")
	ErrInsufficientIron    = errors.New("not enough iron")
	ErrMissingPrerequisite = errors.New("missing prerequisite building")
	ErrNotProducible       = errors.New("kind cannot be produced")
	ErrNoHeadquarters      = errors.New("no headquarters")
	ErrNoPendingBuilding   = errors.New("no building awaiting placement")
	ErrInvalidPlacement    = errors.New("invalid building placement")
	ErrNotSellable         = errors.New("entity cannot be sold")
	ErrUnknownEntity       = errors.New("unknown entity")
)
