// Package notify broadcasts metadata about outgoing REST calls to in-process
// listeners.
package notify

import (
	"sort"
)

// Channel is the name shared by every publisher and subscriber of REST call
// notifications.
const Channel = "RestNotification"

// Key names a field of an Event.
type Key string

const (
	ClassKey     Key = "class"
	RealmTypeKey Key = "realmType"
	RealmKey     Key = "realm"
	BaseURLKey   Key = "baseURL"
	PathKey      Key = "path"
	MethodKey    Key = "method"
	ObjectKey    Key = "object"
)

// Fields is the mutable form of an event used to build one.
type Fields map[Key]interface{}

// Event is a read-only set of fields describing a REST call.
// Every field is optional.
type Event struct {
	fields Fields
}

// NewEvent copies fields into a new Event.
func NewEvent(fields Fields) Event {
	copied := make(Fields, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Event{fields: copied}
}

func (e Event) Get(key Key) interface{} {
	return e.fields[key]
}

func (e Event) Lookup(key Key) (interface{}, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// String returns the field as a string, or "" when it is absent or not a
// string.
func (e Event) String(key Key) string {
	s, _ := e.fields[key].(string)
	return s
}

// Keys returns the names of the present fields in sorted order.
func (e Event) Keys() []Key {
	keys := make([]Key, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (e Event) Len() int {
	return len(e.fields)
}
