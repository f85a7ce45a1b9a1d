package talk

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/vk/talkgraph/internal/ctxlog"
)

// refCounter issues process-wide unique ids for builder node references,
// so references stay valid when independently created builders are merged
// into one graph.
var refCounter atomic.Uint64

func nextRefID() string {
	return fmt.Sprintf("n%d", refCounter.Add(1))
}

// NodeRef is an opaque, stable reference to a node appended to a Builder.
// Obtain one with Builder.Node and use it later with ConnectTo to form
// loops and convergent branches. A reference can only exist after its
// node does, which structurally rules out dangling references on the
// fluent path.
type NodeRef struct {
	id string
}

// ChoiceArm is one selectable option of a Choose call: the text shown to
// the player and the branch the option continues into. Passing the same
// *Builder to several arms converges: the branch is merged once and every
// arm's edge points at the same nodes.
type ChoiceArm struct {
	Text   string
	Branch *Builder
}

// buildNode is a pending node queued on a Builder.
type buildNode struct {
	ref         string
	kind        ActionKind
	text        string
	actors      []ActorSlug
	arms        []ChoiceArm
	manual      string // ref id of an explicit successor, "" when none
	payloads    []any
	soundEffect string
}

// Builder assembles a dialogue graph incrementally, without a serialized
// script. Nodes append to a chain and auto-link to their predecessor;
// Choose opens branches, ConnectTo forms loops and convergences.
//
// Calls validate eagerly and record the first failure; chaining stays
// ergonomic while Err (or Build) surfaces the error. After a failed call
// the builder is inert.
type Builder struct {
	queue  []*buildNode
	actors *ActorRegistry

	// connectParent is set when ConnectTo is called on an empty builder,
	// which makes a choice arm jump straight to an existing node.
	connectParent string

	err error
}

// NewBuilder returns an empty Builder with its own actor registry.
func NewBuilder() *Builder {
	return &Builder{actors: NewActorRegistry()}
}

// Err returns the first error recorded by a fluent call, or nil.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) push(n *buildNode) *Builder {
	if b.err != nil {
		return b
	}
	if b.connectParent != "" {
		return b.fail(fmt.Errorf("talk: cannot append to a builder already connected to an existing node"))
	}
	n.ref = nextRefID()
	b.queue = append(b.queue, n)
	return b
}

// AddActor registers an actor on this builder. Actor-referencing calls
// (ActorSay, Join, Leave) validate against this builder's registry at the
// point of use, so register actors before referencing them.
func (b *Builder) AddActor(slug ActorSlug, name string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := b.actors.Register(slug, name, ""); err != nil {
		return b.fail(err)
	}
	return b
}

// Say appends a talk node without actors.
func (b *Builder) Say(text string) *Builder {
	return b.push(&buildNode{kind: KindTalk, text: text})
}

// ActorSay appends a talk node performed by the given actor.
func (b *Builder) ActorSay(slug ActorSlug, text string) *Builder {
	return b.ActorsSay([]ActorSlug{slug}, text)
}

// ActorsSay appends a talk node performed by all the given actors.
func (b *Builder) ActorsSay(slugs []ActorSlug, text string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.checkActors(slugs); err != nil {
		return b.fail(err)
	}
	return b.push(&buildNode{kind: KindTalk, text: text, actors: slugs})
}

// Join appends a node marking the given actors entering the scene.
func (b *Builder) Join(slugs ...ActorSlug) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.checkActors(slugs); err != nil {
		return b.fail(err)
	}
	return b.push(&buildNode{kind: KindJoin, actors: slugs})
}

// Leave appends a node marking the given actors exiting the scene.
func (b *Builder) Leave(slugs ...ActorSlug) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.checkActors(slugs); err != nil {
		return b.fail(err)
	}
	return b.push(&buildNode{kind: KindLeave, actors: slugs})
}

// EmptyNode appends a bare node with no kind-specific data, for fully
// custom construction via payloads.
func (b *Builder) EmptyNode() *Builder {
	return b.push(&buildNode{kind: KindTalk})
}

// WithSound attaches a sound-effect reference to the last appended node.
func (b *Builder) WithSound(ref string) *Builder {
	if b.err != nil {
		return b
	}
	tail, err := b.tail()
	if err != nil {
		return b.fail(err)
	}
	tail.soundEffect = ref
	return b
}

// WithPayload attaches an opaque host payload to the last appended node.
// The payload is stored in the graph's side-table and retrievable by the
// node's handle; the engine assigns it no semantics.
func (b *Builder) WithPayload(payload any) *Builder {
	if b.err != nil {
		return b
	}
	tail, err := b.tail()
	if err != nil {
		return b.fail(err)
	}
	tail.payloads = append(tail.payloads, payload)
	return b
}

// Choose appends a choice node. Each arm's branch is built into the same
// graph, with the choice edge pointing at the branch's first node. The
// parent chain does not continue past a choice: convergence back into a
// shared continuation is expressed with ConnectTo (or by passing the
// continuation builder as one of the arms).
func (b *Builder) Choose(arms ...ChoiceArm) *Builder {
	return b.push(&buildNode{kind: KindChoice, arms: arms})
}

// Node returns a stable reference to the most recently appended node.
func (b *Builder) Node() NodeRef {
	if b.err != nil {
		return NodeRef{}
	}
	tail, err := b.tail()
	if err != nil {
		b.fail(err)
		return NodeRef{}
	}
	return NodeRef{id: tail.ref}
}

// ConnectTo adds an explicit successor edge from the current tail to a
// previously obtained node reference, enabling loops and convergent
// branches. Connecting a node directly to itself is rejected with
// ErrSelfLoop. On an empty builder the call marks the whole builder as a
// jump to the referenced node, which is how a choice arm reuses an
// existing branch.
func (b *Builder) ConnectTo(ref NodeRef) *Builder {
	if b.err != nil {
		return b
	}
	if ref.id == "" {
		return b.fail(fmt.Errorf("talk: ConnectTo with a zero node reference"))
	}
	if len(b.queue) == 0 {
		if b.connectParent != "" {
			return b.fail(fmt.Errorf("talk: builder is already connected to an existing node"))
		}
		b.connectParent = ref.id
		return b
	}
	tail := b.queue[len(b.queue)-1]
	if tail.ref == ref.id {
		return b.fail(ErrSelfLoop)
	}
	if tail.kind == KindChoice {
		return b.fail(fmt.Errorf("talk: cannot connect from a choice node, add an arm instead"))
	}
	if tail.manual != "" {
		return b.fail(fmt.Errorf("talk: node already has an explicit successor"))
	}
	tail.manual = ref.id
	return b
}

func (b *Builder) tail() (*buildNode, error) {
	if len(b.queue) == 0 {
		return nil, fmt.Errorf("talk: builder has no nodes yet")
	}
	return b.queue[len(b.queue)-1], nil
}

func (b *Builder) checkActors(slugs []ActorSlug) error {
	for _, slug := range slugs {
		if _, err := b.actors.Resolve(slug); err != nil {
			return err
		}
	}
	return nil
}

// Build assembles the graph from this builder and every branch reachable
// from it. The first appended node becomes the start node. Because every
// edge was resolved when it was declared, no second global validation
// pass is needed; only the reachability pass from BuildOptions applies.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	if err := b.collectErr(make(map[*Builder]struct{})); err != nil {
		return nil, err
	}
	if b.connectParent != "" {
		return nil, fmt.Errorf("talk: root builder cannot start with ConnectTo")
	}

	st := &linkState{
		graph: &Graph{actors: NewActorRegistry(), byID: map[ActionID]NodeID{}},
		byRef: make(map[string]NodeID),
		seen:  make(map[*Builder]struct{}),
		opts:  opts,
	}
	if err := st.mergeActors(b); err != nil {
		return nil, err
	}
	st.seen = make(map[*Builder]struct{})
	if err := st.allocate(b); err != nil {
		return nil, err
	}
	st.seen = make(map[*Builder]struct{})
	if err := st.link(ctx, b); err != nil {
		return nil, err
	}

	g := st.graph
	if g.Len() == 0 {
		logger.Debug("build: empty builder, returning empty graph")
		return g, nil
	}
	g.start = 0
	if err := g.checkReachability(ctx, opts); err != nil {
		return nil, err
	}
	logger.Debug("build: graph constructed from builder", "nodes", g.Len(), "warnings", len(g.warnings))
	return g, nil
}

// collectErr surfaces the first recorded error of this builder or any
// branch builder reachable from it.
func (b *Builder) collectErr(seen map[*Builder]struct{}) error {
	if _, ok := seen[b]; ok {
		return nil
	}
	seen[b] = struct{}{}
	if b.err != nil {
		return b.err
	}
	for _, n := range b.queue {
		for _, arm := range n.arms {
			if arm.Branch == nil {
				continue
			}
			if err := arm.Branch.collectErr(seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// linkState carries the shared maps of a fluent build: node references to
// handles, and the set of builders already processed so a branch shared
// by several arms is merged exactly once.
type linkState struct {
	graph *Graph
	byRef map[string]NodeID
	seen  map[*Builder]struct{}
	opts  BuildOptions
}

// mergeActors folds every builder's registry into the graph's, reusing
// entries that share a slug with an already merged actor.
func (st *linkState) mergeActors(b *Builder) error {
	if _, ok := st.seen[b]; ok {
		return nil
	}
	st.seen[b] = struct{}{}
	for _, a := range b.actors.Actors() {
		if _, err := st.graph.actors.Resolve(a.Slug); err == nil {
			continue
		}
		if _, err := st.graph.actors.Register(a.Slug, a.Name, a.Asset); err != nil {
			return err
		}
	}
	for _, n := range b.queue {
		for _, arm := range n.arms {
			if arm.Branch == nil {
				continue
			}
			if err := st.mergeActors(arm.Branch); err != nil {
				return err
			}
		}
	}
	return nil
}

// allocate creates the arena node for every queued build node, depth
// first through choice branches, and fills the reference map.
func (st *linkState) allocate(b *Builder) error {
	if _, ok := st.seen[b]; ok {
		return nil
	}
	st.seen[b] = struct{}{}
	g := st.graph
	for _, bn := range b.queue {
		id := NodeID(len(g.nodes))
		node := ActionNode{
			ID:          int(id),
			Kind:        bn.kind,
			Text:        bn.text,
			SoundEffect: bn.soundEffect,
		}
		for _, slug := range bn.actors {
			actor, err := g.actors.Resolve(slug)
			if err != nil {
				return err
			}
			node.Actors = append(node.Actors, actor)
		}
		g.nodes = append(g.nodes, node)
		g.byID[int(id)] = id
		st.byRef[bn.ref] = id
		for _, p := range bn.payloads {
			g.AttachPayload(id, p)
		}
		for _, arm := range bn.arms {
			if arm.Branch == nil {
				continue
			}
			if err := st.allocate(arm.Branch); err != nil {
				return err
			}
		}
	}
	return nil
}

// link connects the allocated nodes: chain links along each queue, choice
// edges into branch starts, and explicit ConnectTo successors. A node
// following a choice or an explicit connection starts a new, unlinked
// segment; the reachability pass flags it unless something connects to it.
func (st *linkState) link(ctx context.Context, b *Builder) error {
	if _, ok := st.seen[b]; ok {
		return nil
	}
	st.seen[b] = struct{}{}
	logger := ctxlog.FromContext(ctx)

	prev := NodeID(-1)
	prevEdgeDone := false
	for _, bn := range b.queue {
		cur := st.byRef[bn.ref]
		if prev >= 0 && !prevEdgeDone {
			target := cur
			st.graph.nodes[prev].Next = &target
		}
		prevEdgeDone = false

		if bn.kind == KindChoice {
			if len(bn.arms) == 0 {
				logger.Warn("build: choice node has no arms, it is a dead end", "node", cur)
			}
			for _, arm := range bn.arms {
				target, err := st.armStart(arm.Branch)
				if err != nil {
					return fmt.Errorf("choice node %d, arm %q: %w", cur, arm.Text, err)
				}
				st.graph.nodes[cur].Choices = append(st.graph.nodes[cur].Choices, Choice{Text: arm.Text, Next: target})
				if arm.Branch != nil {
					if err := st.link(ctx, arm.Branch); err != nil {
						return err
					}
				}
			}
			prevEdgeDone = true
		}

		if bn.manual != "" {
			target, ok := st.byRef[bn.manual]
			if !ok {
				return fmt.Errorf("talk: node %d connects to a node that was never merged into this graph", cur)
			}
			if target == cur && !st.opts.AllowSelfLoops {
				return ErrSelfLoop
			}
			st.graph.nodes[cur].Next = &target
			prevEdgeDone = true
		}

		prev = cur
	}
	return nil
}

// armStart resolves the node a choice edge should point at: the first
// node of the arm's branch, or the node the branch was connected to.
func (st *linkState) armStart(branch *Builder) (NodeID, error) {
	if branch == nil {
		return 0, fmt.Errorf("talk: choice arm has no branch")
	}
	if len(branch.queue) > 0 {
		return st.byRef[branch.queue[0].ref], nil
	}
	if branch.connectParent != "" {
		target, ok := st.byRef[branch.connectParent]
		if !ok {
			return 0, fmt.Errorf("talk: arm connects to a node that was never merged into this graph")
		}
		return target, nil
	}
	return 0, fmt.Errorf("talk: choice arm has an empty branch")
}
