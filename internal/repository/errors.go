package repository

import "fmt"

// ActiveWorkError blocks deletion of a driver or route that still owns
// pending or active work. Raised inside the delete transaction so the guard
// and the delete cannot interleave with concurrent writes.
type ActiveWorkError struct {
	Blocking int64
}

func (e ActiveWorkError) Error() string {
	return fmt.Sprintf("blocked by %d active dependents", e.Blocking)
}
