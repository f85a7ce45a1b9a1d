package talk

import "sync"

// NodeID is a stable handle to a node in a graph's arena. Handles are
// assigned densely from 0 in allocation order and never change once the
// graph is built.
type NodeID int

// Choice is a resolved, labeled edge from a choice node to one possible
// continuation.
type Choice struct {
	// Text displayed for the option.
	Text string
	// Next is the handle of the target node.
	Next NodeID
}

// ActionNode is one step of a built dialogue graph. Edges are stored
// inline: choice nodes carry their Choices, every other kind carries at
// most one unconditional successor in Next. A node with neither is
// terminal.
type ActionNode struct {
	// ID is the script-supplied id, kept as metadata after linking.
	// Nodes made by the fluent builder carry their own handle here.
	ID ActionID
	// Kind of the node.
	Kind ActionKind
	// Text of a talk node, or empty.
	Text string
	// Actors performing this action, resolved against the registry.
	Actors []*Actor
	// Choices of a choice node, in authoring order.
	Choices []Choice
	// Next is the unconditional successor, nil when terminal or when the
	// node is a choice node.
	Next *NodeID
	// SoundEffect optionally references a sound asset.
	SoundEffect string
}

// Terminal reports whether the node has no outgoing edge.
func (n *ActionNode) Terminal() bool {
	return n.Next == nil && len(n.Choices) == 0
}

// Graph is an immutable dialogue graph: an arena of action nodes, a
// designated start node, and the actor registry the nodes reference.
// It may be shared read-only across any number of cursors; only the
// payload side-table accepts writes after the build and guards them
// with its own lock.
type Graph struct {
	nodes  []ActionNode
	start  NodeID
	actors *ActorRegistry

	// byID maps script ids to handles. Kept for re-deriving scripts and
	// for hosts that address nodes by their authoring id.
	byID map[ActionID]NodeID

	warnings []string

	// mu protects payloads, the only mutable table on a built graph.
	mu       sync.RWMutex
	payloads map[NodeID][]any
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Start returns the handle of the designated start node. Only valid when
// Len() > 0.
func (g *Graph) Start() NodeID {
	return g.start
}

// Node returns the node under the given handle. The returned pointer
// aliases the arena and must be treated as read-only.
func (g *Graph) Node(id NodeID) (*ActionNode, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, false
	}
	return &g.nodes[id], true
}

// NodeByActionID resolves a script-supplied action id to its handle.
func (g *Graph) NodeByActionID(id ActionID) (NodeID, bool) {
	idx, ok := g.byID[id]
	return idx, ok
}

// Actors returns the registry owned by this graph.
func (g *Graph) Actors() *ActorRegistry {
	return g.actors
}

// Warnings returns the advisory findings collected during the build,
// currently only unreachable-node reports. An empty slice means the
// graph is fully reachable from the start node.
func (g *Graph) Warnings() []string {
	return g.warnings
}

// AttachPayload appends an opaque host payload to the node's side-table
// entry. The engine never inspects payloads; storage and retrieval by
// handle is the whole contract.
func (g *Graph) AttachPayload(id NodeID, payload any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.payloads == nil {
		g.payloads = make(map[NodeID][]any)
	}
	g.payloads[id] = append(g.payloads[id], payload)
}

// Payloads returns the payloads attached to the node, in attachment
// order, or nil when none were attached.
func (g *Graph) Payloads(id NodeID) []any {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ps := g.payloads[id]
	if ps == nil {
		return nil
	}
	out := make([]any, len(ps))
	copy(out, ps)
	return out
}

// reachableFrom walks the graph from start across both successor and
// choice edges and returns the visited set.
func (g *Graph) reachableFrom(start NodeID) map[NodeID]struct{} {
	visited := make(map[NodeID]struct{}, len(g.nodes))
	stack := []NodeID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		n := &g.nodes[id]
		if n.Next != nil {
			stack = append(stack, *n.Next)
		}
		for _, c := range n.Choices {
			stack = append(stack, c.Next)
		}
	}
	return visited
}

// Script re-derives a declarative script from the graph: one record per
// node in arena order, ids equal to the node handles, edges mirrored
// from the inline fields. Building the result again yields an
// isomorphic graph. Attached payloads are not carried over; they belong
// to the host, not the script schema.
func (g *Graph) Script() *RawScript {
	raw := &RawScript{}
	for _, a := range g.actors.Actors() {
		raw.Actors = append(raw.Actors, RawActor{Slug: a.Slug, Name: a.Name, Asset: a.Asset})
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		rec := RawAction{
			ID:          int(NodeID(i)),
			Kind:        n.Kind,
			Text:        n.Text,
			SoundEffect: n.SoundEffect,
		}
		for _, a := range n.Actors {
			rec.Actors = append(rec.Actors, a.Slug)
		}
		for _, c := range n.Choices {
			rec.Choices = append(rec.Choices, RawChoice{Text: c.Text, Next: int(c.Next)})
		}
		if n.Next != nil {
			next := int(*n.Next)
			rec.Next = &next
		}
		raw.Script = append(raw.Script, rec)
	}
	return raw
}
