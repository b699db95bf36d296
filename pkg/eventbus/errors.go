package eventbus

import "fmt"

// DecodeError reports a wire payload that could not be parsed into a typed
// event. The offending message is skipped and the subscription continues.
type DecodeError struct {
	EventType string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.EventType == "" {
		return fmt.Sprintf("decode event: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.EventType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DispatchError reports a task that could not be sent to a downstream
// service. The triggering event is considered processed; there is no retry.
type DispatchError struct {
	Instance string
	Task     string
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s.%s: %v", e.Instance, e.Task, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
