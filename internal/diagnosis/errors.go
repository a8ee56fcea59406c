package diagnosis

import (
	"fmt"
	"time"
)

// NoDataError means there are no completed tasks with a feeling to send.
type NoDataError struct{}

func (e *NoDataError) Error() string {
	return "no completed tasks with a recorded feeling to diagnose"
}

// EmptyResultError means a breakdown returned no usable subtasks.
type EmptyResultError struct {
	Reason string
}

func (e *EmptyResultError) Error() string {
	return "breakdown returned no subtasks: " + e.Reason
}

// MalformedResponseError is a response that could not be interpreted.
type MalformedResponseError struct {
	Status  int
	Reason  string
	Preview string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (status %d): %s", e.Status, e.Reason)
}

// NetworkError wraps a transport failure where no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("could not reach diagnosis service: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError is a non-2xx response carrying the service's message.
type ServiceError struct {
	Status  int
	Message string
	Type    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("diagnosis service error (status %d): %s", e.Status, e.Message)
}

// QuotaExceededError means the service's upstream quota is used up.
// RetryAfter is zero when the service gave no hint.
type QuotaExceededError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *QuotaExceededError) Error() string {
	msg := "diagnosis service quota exceeded"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry in %s)", e.RetryAfter)
	}
	return msg
}
