package utility

import (
	"sync"

	"github.com/google/uuid"
)

// ExecutionID identifies one simulation run. Every event posted during a run
// carries the same value, which keeps parallel parameter sweeps separable in
// aggregated logs.
type ExecutionID = uuid.UUID

var (
	executionID   ExecutionID
	executionIDMu sync.Mutex
)

func GetExecutionID() ExecutionID {
	executionIDMu.Lock()
	defer executionIDMu.Unlock()

	if executionID == uuid.Nil {
		executionID = uuid.Must(uuid.NewV7())
	}
	return executionID
}

func ResetExecutionID() ExecutionID {
	executionIDMu.Lock()
	defer executionIDMu.Unlock()

	executionID = uuid.Must(uuid.NewV7())
	return executionID
}
