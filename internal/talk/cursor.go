package talk

// Cursor is the single mutable pointer into an otherwise immutable graph.
// It is created parked at the start node and moved with Advance and
// JumpTo; every failed move leaves it exactly where it was. A graph may
// carry any number of cursors at once (peeking ahead, replays), as long
// as each cursor has at most one mutator; the engine provides no locking
// of its own.
type Cursor struct {
	graph   *Graph
	current NodeID
}

// Cursor returns a new cursor parked at the start node, or ErrEmptyGraph
// when the graph has no nodes to park on.
func (g *Graph) Cursor() (*Cursor, error) {
	if len(g.nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	return &Cursor{graph: g, current: g.start}, nil
}

// Current returns the handle of the node under the cursor.
func (c *Cursor) Current() NodeID {
	return c.current
}

func (c *Cursor) node() *ActionNode {
	return &c.graph.nodes[c.current]
}

// Kind returns the kind of the current node.
func (c *Cursor) Kind() ActionKind {
	return c.node().Kind
}

// Text returns the text of the current node, empty when it has none.
func (c *Cursor) Text() string {
	return c.node().Text
}

// Actors returns the resolved actors of the current node.
func (c *Cursor) Actors() []*Actor {
	return c.node().Actors
}

// ActorNames returns the display names of the current node's actors.
func (c *Cursor) ActorNames() []string {
	actors := c.node().Actors
	names := make([]string, len(actors))
	for i, a := range actors {
		names[i] = a.Name
	}
	return names
}

// SoundEffect returns the sound effect tag of the current node, empty
// when it has none.
func (c *Cursor) SoundEffect() string {
	return c.node().SoundEffect
}

// Choices returns the choice edges of the current node, or nil when the
// current node is not a choice node.
func (c *Cursor) Choices() []Choice {
	n := c.node()
	if n.Kind != KindChoice {
		return nil
	}
	return n.Choices
}

// IsTerminal reports whether the current node has no outgoing edge.
func (c *Cursor) IsTerminal() bool {
	return c.node().Terminal()
}

// Advance moves the cursor to the current node's unconditional successor.
// It fails with ErrChoicesNotHandled on a choice node (use JumpTo) and
// with ErrNoNextNode on a terminal node.
func (c *Cursor) Advance() error {
	n := c.node()
	if n.Kind == KindChoice {
		return ErrChoicesNotHandled
	}
	if n.Next == nil {
		return ErrNoNextNode
	}
	c.current = *n.Next
	return nil
}

// JumpTo moves the cursor to target. The jump is legal only while the
// cursor is on a choice node and target is one of its choice targets;
// anything else fails with *IllegalJumpError. Choices are only legal
// from their owning node: once the cursor has left it, its targets are
// no longer jumpable.
func (c *Cursor) JumpTo(target NodeID) error {
	n := c.node()
	if n.Kind == KindChoice {
		for _, choice := range n.Choices {
			if choice.Next == target {
				c.current = target
				return nil
			}
		}
	}
	return &IllegalJumpError{From: c.current, To: target}
}

// Seek repositions the cursor on an arbitrary node, bypassing edge
// legality. It is a host tool for restoring or inspecting positions, not
// part of the play-time traversal contract.
func (c *Cursor) Seek(target NodeID) error {
	if _, ok := c.graph.Node(target); !ok {
		return &IllegalJumpError{From: c.current, To: target}
	}
	c.current = target
	return nil
}

// Event is the tagged per-kind view of the node under a cursor. After
// each successful move the host polls Event and forwards the variant as
// a discrete notification; the engine performs no delivery itself.
type Event interface {
	// NodeID returns the handle of the node the event describes.
	NodeID() NodeID
}

// TalkEvent describes entering a talk node.
type TalkEvent struct {
	Node   NodeID
	Text   string
	Actors []*Actor
}

// JoinEvent describes actors entering the scene.
type JoinEvent struct {
	Node   NodeID
	Actors []*Actor
}

// LeaveEvent describes actors exiting the scene.
type LeaveEvent struct {
	Node   NodeID
	Actors []*Actor
}

// ChoiceEvent describes arriving at a choice node awaiting a JumpTo.
type ChoiceEvent struct {
	Node    NodeID
	Choices []Choice
}

// NodeID implements Event.
func (e TalkEvent) NodeID() NodeID { return e.Node }

// NodeID implements Event.
func (e JoinEvent) NodeID() NodeID { return e.Node }

// NodeID implements Event.
func (e LeaveEvent) NodeID() NodeID { return e.Node }

// NodeID implements Event.
func (e ChoiceEvent) NodeID() NodeID { return e.Node }

// Event returns the tagged view of the current node. It is a pure read:
// no side effects, no revalidation.
func (c *Cursor) Event() Event {
	n := c.node()
	switch n.Kind {
	case KindJoin:
		return JoinEvent{Node: c.current, Actors: n.Actors}
	case KindLeave:
		return LeaveEvent{Node: c.current, Actors: n.Actors}
	case KindChoice:
		return ChoiceEvent{Node: c.current, Choices: n.Choices}
	default:
		return TalkEvent{Node: c.current, Text: n.Text, Actors: n.Actors}
	}
}
