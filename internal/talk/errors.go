package talk

import (
	"errors"
	"fmt"
)

// Traversal errors. These report caller misuse at call time and never
// indicate a corrupted graph; the cursor is left unmoved.
var (
	// ErrNoNextNode is returned by Cursor.Advance when the current node is
	// terminal.
	ErrNoNextNode = errors.New("talk: current node has no next node")

	// ErrChoicesNotHandled is returned by Cursor.Advance when the current
	// node is a choice node. Use Cursor.JumpTo with one of the choice
	// targets instead.
	ErrChoicesNotHandled = errors.New("talk: current node is a choice node")

	// ErrEmptyGraph is returned when asking for a cursor on a graph with
	// no nodes.
	ErrEmptyGraph = errors.New("talk: graph has no nodes")
)

// Authoring errors. All of them abort graph construction entirely.
var (
	// ErrSelfLoop is returned when a node is made its own direct successor
	// and BuildOptions.AllowSelfLoops is not set.
	ErrSelfLoop = errors.New("talk: node cannot be its own successor")

	// ErrUnreachableNodes is returned instead of a warning when
	// BuildOptions.StrictReachability is set.
	ErrUnreachableNodes = errors.New("talk: graph has nodes unreachable from the start node")
)

// DuplicateIDError reports two script records sharing the same id.
type DuplicateIDError struct {
	ID ActionID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("talk: multiple actions have id %d", e.ID)
}

// DuplicateActorError reports two actors registered under the same slug.
type DuplicateActorError struct {
	Slug string
}

func (e *DuplicateActorError) Error() string {
	return fmt.Sprintf("talk: actor slug %q is duplicated", e.Slug)
}

// UnknownActorError reports a reference to an actor slug that is not in
// the registry. Action is -1 when the reference came from the fluent
// builder rather than a script record.
type UnknownActorError struct {
	Action ActionID
	Slug   string
}

func (e *UnknownActorError) Error() string {
	if e.Action < 0 {
		return fmt.Sprintf("talk: unknown actor %q", e.Slug)
	}
	return fmt.Sprintf("talk: action %d references unknown actor %q", e.Action, e.Slug)
}

// DanglingReferenceError reports a next or choice target id that does not
// correspond to any record in the script.
type DanglingReferenceError struct {
	From ActionID
	To   ActionID
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("talk: action %d points to id %d which was not found", e.From, e.To)
}

// IllegalJumpError reports a Cursor.JumpTo to a node that is not a legal
// choice target of the current node.
type IllegalJumpError struct {
	From NodeID
	To   NodeID
}

func (e *IllegalJumpError) Error() string {
	return fmt.Sprintf("talk: illegal jump from node %d to node %d", e.From, e.To)
}
