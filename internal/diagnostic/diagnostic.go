package diagnostic

import (
	"fmt"
	"strings"
)

// Kind classifies a Violation.
type Kind int

const (
	InvalidName Kind = iota
	InvalidAttribute
	MissingType
	UnsupportedType
	UnsupportedDirection
	UnknownObject
	MissingNotification
	NotificationSignature
	DuplicateName
	InvalidQualifiers
	ReservedName
)

func (k Kind) String() string {
	switch k {
	case InvalidName:
		return "invalid name"
	case InvalidAttribute:
		return "invalid attribute"
	case MissingType:
		return "missing type"
	case UnsupportedType:
		return "unsupported type"
	case UnsupportedDirection:
		return "unsupported direction"
	case UnknownObject:
		return "unknown object"
	case MissingNotification:
		return "missing notification"
	case NotificationSignature:
		return "notification signature"
	case DuplicateName:
		return "duplicate name"
	case InvalidQualifiers:
		return "invalid qualifiers"
	case ReservedName:
		return "reserved name"
	default:
		return "unknown"
	}
}

// Violation is one reason a bridgeable object cannot be generated.
type Violation struct {
	Kind    Kind
	Object  string
	Member  string // e.g. "property count", empty for object-level problems
	Message string
	Line    int
	Column  int
}

func (v Violation) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s:%d:%d: %s", v.Object, v.Line, v.Column, v.Kind)
	if v.Member != "" {
		fmt.Fprintf(&builder, " in %s", v.Member)
	}
	fmt.Fprintf(&builder, ": %s", v.Message)
	return builder.String()
}

// List collects violations for one object in the order they are found.
type List struct {
	object string
	items  []Violation
}

// NewList creates an empty collection for the named object.
func NewList(object string) *List {
	return &List{object: object, items: make([]Violation, 0)}
}

// Addf records a violation with a formatted message.
func (l *List) Addf(kind Kind, member string, line, column int, format string, args ...interface{}) {
	l.items = append(l.items, Violation{
		Kind:    kind,
		Object:  l.object,
		Member:  member,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	})
}

// Append adds already built violations.
func (l *List) Append(violations ...Violation) {
	l.items = append(l.items, violations...)
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) Items() []Violation {
	return l.items
}

// Err returns nil when the list is empty, a *MalformedDefinition otherwise.
func (l *List) Err() error {
	if len(l.items) == 0 {
		return nil
	}
	return &MalformedDefinition{Object: l.object, Violations: l.items}
}

// MalformedDefinition rejects an object definition. It always carries every
// violation found for the object, and no artifacts are produced for it.
type MalformedDefinition struct {
	Object     string
	Violations []Violation
}

func (e *MalformedDefinition) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "malformed definition of %s: %d violation(s)", e.Object, len(e.Violations))
	for _, violation := range e.Violations {
		builder.WriteString("\n  ")
		builder.WriteString(violation.String())
	}
	return builder.String()
}

// Count returns how many violations of the given kind were reported.
func (e *MalformedDefinition) Count(kind Kind) int {
	count := 0
	for _, violation := range e.Violations {
		if violation.Kind == kind {
			count++
		}
	}
	return count
}
