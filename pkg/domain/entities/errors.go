package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownStrategy is returned when a phase names a strategy that is not registered
	ErrUnknownStrategy = errors.New("unknown allocation strategy")
	// ErrNoPhaseEnabled is returned when neither allocation phase is enabled
	ErrNoPhaseEnabled = errors.New("at least one phase must be enabled (order_allocation or component_allocation)")
)

// ConfigurationError is fatal and pre-empts any processing
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError reports an input table that does not match its schema
type SchemaMismatchError struct {
	Table  string
	Column string
	Row    int // 0 when the problem is the header
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s schema mismatch at row %d, column %q: %s", e.Table, e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s schema mismatch, column %q: %s", e.Table, e.Column, e.Reason)
}

// CyclicBOMError reports BOM trees that contain a cycle
type CyclicBOMError struct {
	Cycles [][]ItemID
}

func (e *CyclicBOMError) Error() string {
	parts := make([]string, 0, len(e.Cycles))
	for _, cycle := range e.Cycles {
		ids := make([]string, len(cycle))
		for i, id := range cycle {
			ids[i] = string(id)
		}
		parts = append(parts, strings.Join(ids, " -> "))
	}
	return fmt.Sprintf("BOM contains %d cycle(s): %s", len(e.Cycles), strings.Join(parts, "; "))
}
