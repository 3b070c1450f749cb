package distributor

import "fmt"

// StoreError represents a failure of the history store.
type StoreError struct {
	Driver    string // SQL driver ("sqlite", "sqlite3")
	Operation string // Operation that failed ("open", "insert_run", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [driver=%s, operation=%s]: %v", e.Driver, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

func newStoreError(driver, operation string, cause error) *StoreError {
	return &StoreError{Driver: driver, Operation: operation, Cause: cause}
}
