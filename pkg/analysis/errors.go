package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrConvergence reports that the Newton iteration cap was exceeded.
	// Fatal for the run; never silently retried.
	ErrConvergence = errors.New("analysis: newton iteration diverged")

	// ErrSingular reports a failed Jacobian factorization or solve.
	ErrSingular = errors.New("analysis: singular system")

	// ErrConfig reports inconsistent simulation parameters.
	ErrConfig = errors.New("analysis: invalid configuration")

	// ErrUnknownSegment reports a recorder segment name that does not match
	// any recordable block.
	ErrUnknownSegment = errors.New("analysis: unknown segment")
)

// ConvergenceError carries the step context of a failed Newton loop. Step -1
// marks the steady warm-up phase.
type ConvergenceError struct {
	Step       int
	Time       float64
	Iterations int
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("analysis: newton diverged at step %d (t=%g) after %d iterations, residual %g",
		e.Step, e.Time, e.Iterations, e.Residual)
}

func (e *ConvergenceError) Is(target error) bool { return target == ErrConvergence }

// SingularError marks a Jacobian solve failure at a given step.
type SingularError struct {
	Step int
	Time float64
	Err  error
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("analysis: singular system at step %d (t=%g): %v", e.Step, e.Time, e.Err)
}

func (e *SingularError) Is(target error) bool { return target == ErrSingular }

func (e *SingularError) Unwrap() error { return e.Err }

// ConfigError reports invalid simulation parameters, detected before the
// first step.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("analysis: invalid configuration: %s", e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
