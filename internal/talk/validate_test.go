package talk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestNormalize_Defaults(t *testing.T) {
	raw := &RawScript{
		Actors: []RawActor{{Slug: "bob", Name: "Bob"}},
		Script: []RawAction{
			{ID: 1, Text: "hi", Next: intPtr(2)},
			{ID: 2, Choices: []RawChoice{{Text: "yes", Next: 1}}},
			{ID: 3, Kind: KindTalk, Choices: []RawChoice{{Text: "no", Next: 1}}},
		},
	}

	norm, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, norm.Actions, 3)

	assert.Equal(t, KindTalk, norm.Actions[0].Kind, "no choices defaults to talk")
	assert.Equal(t, KindChoice, norm.Actions[1].Kind, "choices present defaults to choice")
	assert.Equal(t, KindTalk, norm.Actions[2].Kind, "explicit kind wins over the choice rule")
	assert.NotNil(t, norm.Actions[0].Actors, "nil actor list becomes empty")
	assert.Equal(t, 1, norm.Actors.Len())
}

func TestNormalize_InputUntouched(t *testing.T) {
	raw := &RawScript{Script: []RawAction{{ID: 1, Choices: []RawChoice{{Text: "a", Next: 1}}}}}

	_, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, KindUnset, raw.Script[0].Kind, "normalization must not mutate the input")
}

func TestNormalize_EmptyScript(t *testing.T) {
	norm, err := Normalize(&RawScript{})
	require.NoError(t, err)
	assert.Empty(t, norm.Actions)
	assert.Zero(t, norm.Actors.Len())
}

func TestNormalize_Errors(t *testing.T) {
	t.Run("duplicate action id", func(t *testing.T) {
		raw := &RawScript{Script: []RawAction{{ID: 7}, {ID: 8}, {ID: 7}}}
		_, err := Normalize(raw)
		var dupErr *DuplicateIDError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, 7, dupErr.ID)
	})

	t.Run("duplicate actor slug", func(t *testing.T) {
		raw := &RawScript{Actors: []RawActor{{Slug: "bob"}, {Slug: "bob"}}}
		_, err := Normalize(raw)
		var dupErr *DuplicateActorError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "bob", dupErr.Slug)
	})

	t.Run("unknown actor reference", func(t *testing.T) {
		raw := &RawScript{Script: []RawAction{{ID: 1, Actors: []ActorSlug{"ghost"}}}}
		_, err := Normalize(raw)
		var unknownErr *UnknownActorError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, 1, unknownErr.Action)
		assert.Equal(t, "ghost", unknownErr.Slug)
	})
}

func TestValidateNexts(t *testing.T) {
	t.Run("dangling next", func(t *testing.T) {
		actions := []RawAction{{ID: 1, Kind: KindTalk, Next: intPtr(99)}}
		err := validateNexts(actions)
		var dangling *DanglingReferenceError
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, 1, dangling.From)
		assert.Equal(t, 99, dangling.To)
	})

	t.Run("dangling choice target", func(t *testing.T) {
		actions := []RawAction{
			{ID: 1, Kind: KindChoice, Choices: []RawChoice{{Text: "go", Next: 42}}},
		}
		err := validateNexts(actions)
		var dangling *DanglingReferenceError
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, 42, dangling.To)
	})

	t.Run("next on a choice record carries no edge", func(t *testing.T) {
		actions := []RawAction{
			{ID: 1, Kind: KindChoice, Next: intPtr(99), Choices: []RawChoice{{Text: "go", Next: 1}}},
		}
		assert.NoError(t, validateNexts(actions))
	})

	t.Run("valid references", func(t *testing.T) {
		actions := []RawAction{
			{ID: 1, Kind: KindTalk, Next: intPtr(2)},
			{ID: 2, Kind: KindTalk},
		}
		assert.NoError(t, validateNexts(actions))
	})
}

func TestParseActionKind(t *testing.T) {
	for _, valid := range []string{"", "talk", "choice", "join", "leave"} {
		kind, err := ParseActionKind(valid)
		require.NoError(t, err)
		assert.Equal(t, ActionKind(valid), kind)
	}

	_, err := ParseActionKind("dance")
	assert.ErrorContains(t, err, "unknown action kind")
}
