package eventbus

import (
	"fmt"
	"strings"

	"github.com/amirasaad/tokensale/pkg/domain/events"
)

// streamNameFor returns the stream an event type is consumed from, derived
// from its source instance and event key.
func streamNameFor(eventType string) string {
	if b, ok := events.Streams[eventType]; ok {
		return fmt.Sprintf("events:%s:%s", strings.ToLower(b.Instance), strings.ToLower(b.Key))
	}
	return fmt.Sprintf("events:%s", strings.ToLower(eventType))
}

// taskStreamFor returns the stream a task is dispatched to.
func taskStreamFor(instance, task string) string {
	return fmt.Sprintf("tasks:%s:%s", strings.ToLower(instance), strings.ToLower(task))
}

// groupNameFor returns the consumer group name for the event type.
func groupNameFor(eventType string) string {
	return fmt.Sprintf("group:%s", strings.ToLower(eventType))
}

// subjectFor maps a stream name to a NATS subject.
func subjectFor(stream string) string {
	return strings.ReplaceAll(stream, ":", ".")
}
