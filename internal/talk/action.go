package talk

import "fmt"

// ActionID is the script-local integer identifier of an action record.
// It is only used to link records during graph construction; after the
// build it survives as node metadata.
type ActionID = int

// ActionKind enumerates the kinds of steps a dialogue can take.
type ActionKind string

const (
	// KindUnset means no explicit kind was given; Normalize resolves it
	// to KindChoice when the record carries choices and KindTalk otherwise.
	KindUnset ActionKind = ""
	// KindTalk is a line of dialogue.
	KindTalk ActionKind = "talk"
	// KindChoice presents the player with a set of choices.
	KindChoice ActionKind = "choice"
	// KindJoin marks actors entering the scene.
	KindJoin ActionKind = "join"
	// KindLeave marks actors exiting the scene.
	KindLeave ActionKind = "leave"
)

// ParseActionKind converts a textual kind from a script file. The empty
// string is valid and means "apply the default rule".
func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case KindUnset, KindTalk, KindChoice, KindJoin, KindLeave:
		return ActionKind(s), nil
	}
	return KindUnset, fmt.Errorf("talk: unknown action kind %q", s)
}

// RawScript is the deserialized form of a declarative script document,
// as produced by the file codecs or assembled in code. It is the input
// to Build.
type RawScript struct {
	// Actors lists the dialogue participants, in declaration order.
	Actors []RawActor
	// Script lists the action records, in authoring order. The first
	// record becomes the start node of the built graph.
	Script []RawAction
}

// RawActor is an actor declaration from a script document.
type RawActor struct {
	Slug  ActorSlug
	Name  string
	Asset string
}

// RawAction is one pre-validation action record.
type RawAction struct {
	// ID must be unique within the script.
	ID ActionID
	// Kind of the action; KindUnset picks the default per the choice rule.
	Kind ActionKind
	// Text displayed for Talk nodes and ignored for Join/Leave.
	Text string
	// Actors holds slugs of the actors performing the action.
	Actors []ActorSlug
	// Choices of a choice record. A record with a non-empty choice list
	// and no explicit kind becomes a choice node.
	Choices []RawChoice
	// Next references the id of the successor record. Nil marks the
	// record terminal. Ignored on choice records, where the choice
	// targets are the only outgoing edges.
	Next *ActionID
	// SoundEffect optionally references a sound asset for this action.
	SoundEffect string
	// Meta carries an opaque host payload attached to the built node.
	// The engine stores and returns it without inspecting it.
	Meta any
}

// RawChoice is one selectable option of a choice record.
type RawChoice struct {
	// Text displayed for the option.
	Text string
	// Next is the id of the record this option continues to.
	Next ActionID
}
