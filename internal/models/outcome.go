package models

import (
	"encoding/json"
	"fmt"
)

// AgentError is the record kept in place of a result that could not be produced.
type AgentError struct {
	Agent string
	Err   error
}

func NewAgentError(agent string, err error) *AgentError {
	return &AgentError{Agent: agent, Err: err}
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("Error in %s: %v", e.Agent, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// Outcome holds either a value or the error that replaced it.
type Outcome[T any] struct {
	value T
	err   error
}

func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

func Failed[T any](err error) Outcome[T] {
	if err == nil {
		err = fmt.Errorf("unknown failure")
	}
	return Outcome[T]{err: err}
}

func (o Outcome[T]) IsOk() bool {
	return o.err == nil
}

// Value returns the value and whether it is present.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.err == nil
}

func (o Outcome[T]) Err() error {
	return o.err
}

// ErrorRecord is how a failed outcome appears in serialized reports.
type ErrorRecord struct {
	Error string `json:"error"`
}

// MarshalJSON writes the value, or {"error": "..."} for a failure.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return json.Marshal(ErrorRecord{Error: o.err.Error()})
	}
	return json.Marshal(o.value)
}
