package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/talkgraph/internal/talk"
)

// yamlScriptFile mirrors the YAML script schema: an `actors` list and a
// `script` list of action records.
type yamlScriptFile struct {
	Actors []yamlActor  `yaml:"actors"`
	Script []yamlAction `yaml:"script"`
}

type yamlActor struct {
	Slug  string `yaml:"slug"`
	Name  string `yaml:"name"`
	Asset string `yaml:"asset"`
}

type yamlAction struct {
	ID          int          `yaml:"id"`
	Action      string       `yaml:"action"`
	Text        string       `yaml:"text"`
	Actors      []string     `yaml:"actors"`
	Choices     []yamlChoice `yaml:"choices"`
	Next        *int         `yaml:"next"`
	SoundEffect string       `yaml:"sound_effect"`
}

type yamlChoice struct {
	Text string `yaml:"text"`
	Next int    `yaml:"next"`
}

// LoadYAML parses the YAML script file at path into a raw script.
func LoadYAML(path string) (*talk.RawScript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	raw, err := ParseYAML(b)
	if err != nil {
		return nil, fmt.Errorf("script file %s: %w", path, err)
	}
	return raw, nil
}

// ParseYAML parses YAML script source held in memory.
func ParseYAML(src []byte) (*talk.RawScript, error) {
	var parsed yamlScriptFile
	if err := yaml.Unmarshal(src, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse script YAML: %w", err)
	}
	return translateYAML(&parsed)
}

// translateYAML converts the YAML-specific schema into the codec-agnostic
// raw script.
func translateYAML(parsed *yamlScriptFile) (*talk.RawScript, error) {
	raw := &talk.RawScript{}
	for _, a := range parsed.Actors {
		raw.Actors = append(raw.Actors, talk.RawActor{Slug: a.Slug, Name: a.Name, Asset: a.Asset})
	}
	for _, a := range parsed.Script {
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
		raw.Script = append(raw.Script, rec)
	}
	return raw, nil
}
