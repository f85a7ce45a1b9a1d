package talk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Linear(t *testing.T) {
	raw := &RawScript{
		Script: []RawAction{
			{ID: 1, Text: "Hi", Next: intPtr(2)},
			{ID: 2, Text: "Bye"},
		},
	}

	g, err := Build(t.Context(), raw, BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
	assert.Empty(t, g.Warnings())

	start, ok := g.Node(g.Start())
	require.True(t, ok)
	assert.Equal(t, 1, start.ID)
	assert.Equal(t, "Hi", start.Text)
	require.NotNil(t, start.Next)

	second, ok := g.Node(*start.Next)
	require.True(t, ok)
	assert.Equal(t, "Bye", second.Text)
	assert.True(t, second.Terminal())
}

func TestBuild_ChoiceEdges(t *testing.T) {
	raw := &RawScript{
		Script: []RawAction{
			{ID: 3, Choices: []RawChoice{{Text: "yes", Next: 8}, {Text: "no", Next: 9}}},
			{ID: 8, Text: "sure"},
			{ID: 9, Text: "fine"},
		},
	}

	g, err := Build(t.Context(), raw, BuildOptions{})
	require.NoError(t, err)

	start, ok := g.Node(g.Start())
	require.True(t, ok)
	assert.Equal(t, KindChoice, start.Kind)
	assert.Nil(t, start.Next, "choice nodes carry no unconditional successor")
	require.Len(t, start.Choices, 2)

	yes, ok := g.NodeByActionID(8)
	require.True(t, ok)
	no, ok := g.NodeByActionID(9)
	require.True(t, ok)
	assert.Equal(t, Choice{Text: "yes", Next: yes}, start.Choices[0])
	assert.Equal(t, Choice{Text: "no", Next: no}, start.Choices[1])
}

func TestBuild_ResolvesActors(t *testing.T) {
	raw := &RawScript{
		Actors: []RawActor{{Slug: "bob", Name: "Bob"}},
		Script: []RawAction{{ID: 1, Actors: []ActorSlug{"bob"}, Text: "hi"}},
	}

	g, err := Build(t.Context(), raw, BuildOptions{})
	require.NoError(t, err)

	node, ok := g.Node(g.Start())
	require.True(t, ok)
	require.Len(t, node.Actors, 1)
	assert.Equal(t, "Bob", node.Actors[0].Name)

	registered, err := g.Actors().Resolve("bob")
	require.NoError(t, err)
	assert.Same(t, registered, node.Actors[0], "nodes reference the registry's actor")
}

func TestBuild_EmptyScript(t *testing.T) {
	g, err := Build(t.Context(), &RawScript{}, BuildOptions{})
	require.NoError(t, err)
	assert.Zero(t, g.Len())

	_, err = g.Cursor()
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestBuild_Errors(t *testing.T) {
	t.Run("dangling reference returns no graph", func(t *testing.T) {
		raw := &RawScript{Script: []RawAction{{ID: 1, Next: intPtr(99)}}}
		g, err := Build(t.Context(), raw, BuildOptions{})
		var dangling *DanglingReferenceError
		require.ErrorAs(t, err, &dangling)
		assert.Nil(t, g)
	})

	t.Run("duplicate id returns no graph", func(t *testing.T) {
		raw := &RawScript{Script: []RawAction{{ID: 1}, {ID: 1}}}
		g, err := Build(t.Context(), raw, BuildOptions{})
		var dup *DuplicateIDError
		require.ErrorAs(t, err, &dup)
		assert.Nil(t, g)
	})

	t.Run("self loop rejected by default", func(t *testing.T) {
		raw := &RawScript{Script: []RawAction{{ID: 1, Next: intPtr(1)}}}
		_, err := Build(t.Context(), raw, BuildOptions{})
		assert.ErrorIs(t, err, ErrSelfLoop)
	})

	t.Run("self loop permitted when opted in", func(t *testing.T) {
		raw := &RawScript{Script: []RawAction{{ID: 1, Next: intPtr(1)}}}
		g, err := Build(t.Context(), raw, BuildOptions{AllowSelfLoops: true})
		require.NoError(t, err)
		node, ok := g.Node(g.Start())
		require.True(t, ok)
		require.NotNil(t, node.Next)
		assert.Equal(t, g.Start(), *node.Next)
	})
}

func TestBuild_Reachability(t *testing.T) {
	raw := &RawScript{
		Script: []RawAction{
			{ID: 1, Text: "start"},
			{ID: 2, Text: "island"},
		},
	}

	t.Run("default reports a warning", func(t *testing.T) {
		g, err := Build(t.Context(), raw, BuildOptions{})
		require.NoError(t, err)
		require.Len(t, g.Warnings(), 1)
		assert.Contains(t, g.Warnings()[0], "unreachable")
	})

	t.Run("strict mode fails the build", func(t *testing.T) {
		g, err := Build(t.Context(), raw, BuildOptions{StrictReachability: true})
		assert.ErrorIs(t, err, ErrUnreachableNodes)
		assert.Nil(t, g)
	})

	t.Run("loops do not trip the pass", func(t *testing.T) {
		looped := &RawScript{
			Script: []RawAction{
				{ID: 1, Next: intPtr(2)},
				{ID: 2, Next: intPtr(1)},
			},
		}
		g, err := Build(t.Context(), looped, BuildOptions{StrictReachability: true})
		require.NoError(t, err)
		assert.Empty(t, g.Warnings())
	})
}

// Walking every reachable node must visit exactly the records of the
// script, regardless of authoring order.
func TestBuild_WalkCoversScript(t *testing.T) {
	raw := &RawScript{
		Script: []RawAction{
			{ID: 5, Text: "a", Next: intPtr(3)},
			{ID: 3, Choices: []RawChoice{{Text: "l", Next: 9}, {Text: "r", Next: 7}}},
			{ID: 9, Text: "left"},
			{ID: 7, Text: "right", Next: intPtr(9)},
		},
	}

	g, err := Build(t.Context(), raw, BuildOptions{StrictReachability: true})
	require.NoError(t, err)

	visited := make(map[int]bool)
	var walk func(id NodeID)
	walk = func(id NodeID) {
		node, ok := g.Node(id)
		require.True(t, ok)
		if visited[node.ID] {
			return
		}
		visited[node.ID] = true
		if node.Next != nil {
			walk(*node.Next)
		}
		for _, c := range node.Choices {
			walk(c.Next)
		}
	}
	walk(g.Start())

	assert.Equal(t, map[int]bool{5: true, 3: true, 9: true, 7: true}, visited)
}
