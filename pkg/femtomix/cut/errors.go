package cut

import "fmt"

// InvalidRangeError reports a threshold whose lower bound exceeds its upper
// bound. It is returned at construction, never at Pass.
type InvalidRangeError struct {
	Cut   string
	Field string
	Low   float64
	High  float64
}

// Error implements the error interface.
func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s.%s: invalid range %g:%g (low > high)", e.Cut, e.Field, e.Low, e.High)
}

// LifecycleError is the panic value for a cut used outside its Active state.
type LifecycleError struct {
	Cut   string
	Op    string
	State State
}

// Error implements the error interface.
func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s: %s called in state %s", e.Cut, e.Op, e.State)
}
