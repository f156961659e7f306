package video

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/language"
)

// Config is the application configuration a Factory reads prototypes from.
type Config struct {
	// Prototypes maps record types to their prototype references.
	Prototypes map[string]Ref
}

// Prototype is the content of a prototype message for a record type.
type Prototype struct {
	Type   string         `json:"type"`
	Schema map[string]any `json:"schema"`
}

// Content is a bare content stub of a record type.
type Content struct {
	Type      string `json:"type"`
	Prototype Ref    `json:"prototype"`
}

var labels = []struct {
	tag   language.Tag
	label string
}{
	{language.English, "Video"},
	{language.German, "Video"},
}

var labelMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(labels))
	for i, l := range labels {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// Factory describes the video record type to an editor.
type Factory struct {
	config Config

	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

// NewFactory returns the factory for video records.
func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// Type returns "video".
func (f *Factory) Type() string { return TypeVideo }

// Label returns the display name of the type for the closest supported
// language, falling back to English.
func (f *Factory) Label(tag language.Tag) string {
	_, idx, _ := labelMatcher.Match(tag)
	return labels[idx].label
}

// Labels returns the display name per supported language.
func (f *Factory) Labels() map[string]string {
	out := make(map[string]string, len(labels))
	for _, l := range labels {
		out[l.tag.String()] = l.label
	}
	return out
}

// Prototype returns the prototype content, including the record schema.
func (f *Factory) Prototype() Prototype {
	return Prototype{
		Type:   TypeVideo,
		Schema: recordSchema(),
	}
}

// Content returns an empty record stub bound to the configured prototype.
func (f *Factory) Content() Content {
	return Content{
		Type:      TypeVideo,
		Prototype: f.config.Prototypes[TypeVideo],
	}
}

// Validate checks v, typically a *Record, against the record schema.
func (f *Factory) Validate(v any) error {
	f.once.Do(func() {
		f.schema, f.err = gojsonschema.NewSchema(gojsonschema.NewGoLoader(recordSchema()))
	})
	if f.err != nil {
		return fmt.Errorf("compile video schema: %w", f.err)
	}
	result, err := f.schema.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return newError(ErrInvalidRecord, "Validate", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return newError(ErrInvalidRecord, "Validate", fmt.Errorf("%s", strings.Join(msgs, "; ")))
	}
	return nil
}

// width and height become required once every import is probed.
func recordSchema() map[string]any {
	return map[string]any{
		"description": "A video with meta data",
		"type":        "object",
		"required":    []any{"type"},
		"properties": map[string]any{
			"type":     map[string]any{"const": TypeVideo},
			"name":     map[string]any{"type": "string"},
			"width":    map[string]any{"type": "number"},
			"height":   map[string]any{"type": "number"},
			"duration": map[string]any{"type": "number"},
		},
	}
}
