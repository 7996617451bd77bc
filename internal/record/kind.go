// Package record implements the cryptographic envelope that wraps every
// gitgov governance artifact: a checksummed, Ed25519-signed {header,
// payload} pair.
package record

import "fmt"

// Kind is the closed set of record payload variants. It corresponds to
// header.type in the wire format.
type Kind string

const (
	KindActor      Kind = "actor"
	KindAgent      Kind = "agent"
	KindTask       Kind = "task"
	KindCycle      Kind = "cycle"
	KindExecution  Kind = "execution"
	KindFeedback   Kind = "feedback"
	KindChangelog  Kind = "changelog"
	KindCustom     Kind = "custom"
)

// Valid reports whether k is one of the known record kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindActor, KindAgent, KindTask, KindCycle, KindExecution, KindFeedback, KindChangelog, KindCustom:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind validates and returns s as a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("record: unknown kind %q", s)
	}
	return k, nil
}
