package talk

import (
	"context"
	"fmt"

	"github.com/vk/talkgraph/internal/ctxlog"
)

// BuildOptions tune the validation rules applied during graph
// construction. The zero value is the strict default: self-loops are
// rejected and unreachable nodes are reported as warnings.
type BuildOptions struct {
	// AllowSelfLoops permits a node to be its own direct successor.
	// Off by default: a single-node loop has no distinguishable steps.
	AllowSelfLoops bool
	// StrictReachability turns unreachable-node warnings into a fatal
	// ErrUnreachableNodes.
	StrictReachability bool
}

// Build constructs a Graph from a raw script.
//
// It performs a validation pass and a linking pass. Validation checks
// for duplicate action ids, duplicate actor slugs, unknown actor
// references, and dangling next/choice targets, all before any node is
// allocated, so construction is all-or-nothing and no partial graph is
// ever returned. Linking allocates one node per record in script order,
// resolves every edge through the id map, and designates the first
// record as the start node. A final reachability pass reports nodes that
// no path from the start can reach.
func Build(ctx context.Context, raw *RawScript, opts BuildOptions) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	norm, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	if len(norm.Actions) == 0 {
		logger.Debug("build: empty script, returning empty graph")
		return &Graph{actors: norm.Actors, byID: map[ActionID]NodeID{}}, nil
	}
	if err := validateNexts(norm.Actions); err != nil {
		return nil, err
	}
	logger.Debug("build: validation passed", "actions", len(norm.Actions), "actors", norm.Actors.Len())

	g := &Graph{
		nodes:  make([]ActionNode, 0, len(norm.Actions)),
		actors: norm.Actors,
		byID:   make(map[ActionID]NodeID, len(norm.Actions)),
	}

	// First pass: allocate one node per record, preserving script order
	// so the start node ends up at handle 0.
	for _, rec := range norm.Actions {
		id := NodeID(len(g.nodes))
		node := ActionNode{
			ID:          rec.ID,
			Kind:        rec.Kind,
			Text:        rec.Text,
			SoundEffect: rec.SoundEffect,
		}
		for _, slug := range rec.Actors {
			actor, _ := norm.Actors.Resolve(slug)
			node.Actors = append(node.Actors, actor)
		}
		g.nodes = append(g.nodes, node)
		g.byID[rec.ID] = id
		if rec.Meta != nil {
			g.AttachPayload(id, rec.Meta)
		}
	}

	// Second pass: resolve edges through the id map. validateNexts
	// already proved every target exists.
	for i, rec := range norm.Actions {
		node := &g.nodes[i]
		if rec.Kind == KindChoice {
			for _, c := range rec.Choices {
				node.Choices = append(node.Choices, Choice{Text: c.Text, Next: g.byID[c.Next]})
			}
			continue
		}
		if rec.Next == nil {
			continue
		}
		target := g.byID[*rec.Next]
		if target == NodeID(i) && !opts.AllowSelfLoops {
			return nil, fmt.Errorf("action %d: %w", rec.ID, ErrSelfLoop)
		}
		node.Next = &target
	}

	g.start = 0
	if err := g.checkReachability(ctx, opts); err != nil {
		return nil, err
	}

	logger.Debug("build: graph constructed", "nodes", g.Len(), "warnings", len(g.warnings))
	return g, nil
}

// checkReachability runs the reachability pass from the start node and
// either records warnings or fails, depending on strictness.
func (g *Graph) checkReachability(ctx context.Context, opts BuildOptions) error {
	if len(g.nodes) == 0 {
		return nil
	}
	visited := g.reachableFrom(g.start)
	if len(visited) == len(g.nodes) {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	for i := range g.nodes {
		if _, ok := visited[NodeID(i)]; ok {
			continue
		}
		if opts.StrictReachability {
			return fmt.Errorf("node %d (action %d): %w", i, g.nodes[i].ID, ErrUnreachableNodes)
		}
		w := fmt.Sprintf("node %d (action %d) is unreachable from the start node", i, g.nodes[i].ID)
		g.warnings = append(g.warnings, w)
		logger.Warn("build: unreachable node", "node", i, "action", g.nodes[i].ID)
	}
	return nil
}
