package script

import (
	"github.com/hashicorp/hcl/v2"
)

// hclScriptFile represents the top-level structure of a dialogue script
// file for decoding.
type hclScriptFile struct {
	Actors  []*hclActor  `hcl:"actor,block"`
	Actions []*hclAction `hcl:"action,block"`
}

// hclActor represents an `actor` block: the slug is the block label, the
// display name an attribute.
type hclActor struct {
	Slug  string `hcl:"slug,label"`
	Name  string `hcl:"name"`
	Asset string `hcl:"asset,optional"`
}

// hclAction represents an `action` block from a script file.
type hclAction struct {
	ID          int          `hcl:"id"`
	Action      string       `hcl:"action,optional"`
	Text        string       `hcl:"text,optional"`
	Actors      []string     `hcl:"actors,optional"`
	Next        *int         `hcl:"next,optional"`
	SoundEffect string       `hcl:"sound_effect,optional"`
	Choices     []*hclChoice `hcl:"choice,block"`
	Meta        *hclMeta     `hcl:"meta,block"`
}

// hclChoice represents a `choice` block within an action.
type hclChoice struct {
	Text string `hcl:"text"`
	Next int    `hcl:"next"`
}

// hclMeta captures the body of a `meta` block verbatim. Its attributes
// are handed to the host as an opaque payload on the built node.
type hclMeta struct {
	Body hcl.Body `hcl:",remain"`
}
