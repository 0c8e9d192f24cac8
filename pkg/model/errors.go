package model

import (
	"errors"
	"fmt"
)

var (
	// ErrTopology reports a malformed or underdetermined network. Build-time,
	// non-recoverable.
	ErrTopology = errors.New("model: invalid topology")

	// ErrFinalized reports a mutation after Finalize.
	ErrFinalized = errors.New("model: topology is frozen after finalize")

	// ErrUnknownVariable reports an initial-condition target that does not
	// exist in the assembled system.
	ErrUnknownVariable = errors.New("model: unknown variable")
)

// TopologyError names the node or block that failed validation.
type TopologyError struct {
	Subject string
	Reason  string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("model: invalid topology: %s: %s", e.Subject, e.Reason)
}

func (e *TopologyError) Is(target error) bool { return target == ErrTopology }
