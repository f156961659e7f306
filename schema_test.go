package video

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/text/language"
)

func TestFactoryDescribesVideoType(t *testing.T) {
	f := NewFactory(Config{Prototypes: map[string]Ref{"video": testPrototype}})

	if f.Type() != "video" {
		t.Errorf("Type() = %q", f.Type())
	}
	if got := f.Label(language.English); got != "Video" {
		t.Errorf("Label(en) = %q", got)
	}
	if got := f.Label(language.MustParse("fr-CA")); got != "Video" {
		t.Errorf("Label(fr-CA) = %q, want English fallback", got)
	}
	if got := f.Labels()["en"]; got != "Video" {
		t.Errorf("Labels()[en] = %q", got)
	}

	c := f.Content()
	if c.Type != "video" || c.Prototype != testPrototype {
		t.Errorf("Content() = %+v", c)
	}

	p := f.Prototype()
	if p.Type != "video" {
		t.Errorf("Prototype().Type = %q", p.Type)
	}
	props, ok := p.Schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema properties missing: %v", p.Schema)
	}
	for _, field := range []string{"type", "name", "width", "height", "duration"} {
		if _, ok := props[field]; !ok {
			t.Errorf("schema is missing %q", field)
		}
	}
}

func TestFactoryValidate(t *testing.T) {
	f := NewFactory(Config{})

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{
			name:  "bare content stub",
			value: Content{Type: "video", Prototype: testPrototype},
		},
		{
			name:  "probed record",
			value: func() *Record { r := &Record{Type: "video", Name: "x"}; r.SetDimensions(640, 480, 12.5); return r }(),
		},
		{
			name:    "wrong type",
			value:   map[string]any{"type": "image"},
			wantErr: true,
		},
		{
			name:    "missing type",
			value:   map[string]any{"name": "x"},
			wantErr: true,
		},
		{
			name:    "width is not a number",
			value:   map[string]any{"type": "video", "width": "wide"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.Validate(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRecord) {
					t.Errorf("Validate() = %v, want ErrInvalidRecord", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestImportedRecordValidates(t *testing.T) {
	rec, err := NewImporter(&mockStore{hash: "h"}).Import(context.Background(), []FileHandle{
		newMockFile("clip.mp4", withHeader(mp4Header, 3000), 1000),
	}, ImportOptions{Prototype: testPrototype})
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if err := NewFactory(Config{}).Validate(rec); err != nil {
		t.Errorf("Validate(imported record) = %v", err)
	}
}
