package script

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/talkgraph/internal/talk"
)

// LoadHCL parses the HCL script file at path into a raw script.
func LoadHCL(path string) (*talk.RawScript, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse script file %s: %w", path, diags)
	}
	return decodeHCL(path, file)
}

// ParseHCL parses HCL script source held in memory. The filename is only
// used in diagnostics.
func ParseHCL(filename string, src []byte) (*talk.RawScript, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse script %s: %w", filename, diags)
	}
	return decodeHCL(filename, file)
}

func decodeHCL(filename string, file *hcl.File) (*talk.RawScript, error) {
	var parsed hclScriptFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode script %s: %w", filename, diags)
	}
	return translateHCL(&parsed)
}

// translateHCL converts the HCL-specific schema into the codec-agnostic
// raw script.
func translateHCL(parsed *hclScriptFile) (*talk.RawScript, error) {
	raw := &talk.RawScript{}
	for _, a := range parsed.Actors {
		raw.Actors = append(raw.Actors, talk.RawActor{Slug: a.Slug, Name: a.Name, Asset: a.Asset})
	}
	for _, a := range parsed.Actions {
		kind, err := talk.ParseActionKind(a.Action)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", a.ID, err)
		}
		rec := talk.RawAction{
			ID:          a.ID,
			Kind:        kind,
			Text:        a.Text,
			Actors:      a.Actors,
			Next:        a.Next,
			SoundEffect: a.SoundEffect,
		}
		for _, c := range a.Choices {
			rec.Choices = append(rec.Choices, talk.RawChoice{Text: c.Text, Next: c.Next})
		}
		if a.Meta != nil {
			meta, err := extractMeta(a.ID, a.Meta.Body)
			if err != nil {
				return nil, err
			}
			rec.Meta = meta
		}
		raw.Script = append(raw.Script, rec)
	}
	return raw, nil
}

// extractMeta evaluates the attributes of a meta block into an opaque
// value map. The engine stores the map on the built node without ever
// looking inside it.
func extractMeta(actionID int, body hcl.Body) (map[string]cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("action %d: invalid meta block: %w", actionID, diags)
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	meta := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, fmt.Errorf("action %d: meta attribute %q: %w", actionID, name, valDiags)
		}
		meta[name] = val
	}
	return meta, nil
}
