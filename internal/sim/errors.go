package sim

import "errors"

// Domain errors for world construction and run configuration.
var (
	// ErrInvalidTimestep indicates a non-positive dt.
	ErrInvalidTimestep = errors.New("sim: timestep must be positive")

	// ErrInvalidDuration indicates a non-positive run duration.
	ErrInvalidDuration = errors.New("sim: duration must be positive")

	// ErrNoPartition indicates a world built without a cell partition.
	ErrNoPartition = errors.New("sim: world requires a cell partition")
)
