package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flexdock/pkg/pipeline"
)

func TestDocumentFormat(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want string
	}{
		{"json extension", "a.json", "[layout]", pipeline.DocumentJSON},
		{"toml extension", "a.TOML", "{}", pipeline.DocumentTOML},
		{"detected json", "-", "  {\"layout\": {}}", pipeline.DocumentJSON},
		{"detected toml", "layout.txt", "[layout]\ntype = \"row\"", pipeline.DocumentTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documentFormat(tt.path, []byte(tt.data)); got != tt.want {
				t.Errorf("documentFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestReadDocumentMissing(t *testing.T) {
	if _, err := readDocument(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("readDocument() of a missing file succeeded")
	}
}

func TestEncodeDocument(t *testing.T) {
	m := loadModel(t, writeFile(t, "ide.json", ideJSON))

	tests := []struct {
		name     string
		path     string
		fallback string
		wantJSON bool
	}{
		{"stdout keeps json input", "", pipeline.DocumentJSON, true},
		{"stdout keeps toml input", "-", pipeline.DocumentTOML, false},
		{"toml extension wins", "out.toml", pipeline.DocumentJSON, false},
		{"json extension wins", "out.json", pipeline.DocumentTOML, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encodeDocument(m, tt.path, tt.fallback)
			if err != nil {
				t.Fatal(err)
			}
			isJSON := bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
			if isJSON != tt.wantJSON {
				t.Errorf("encodeDocument(%q) json = %v, want %v", tt.path, isJSON, tt.wantJSON)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	m := loadModel(t, writeFile(t, "ide.json", ideJSON))
	out := filepath.Join(t.TempDir(), "ide.toml")
	if err := writeDocument(m, out, pipeline.DocumentJSON); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[layout]") {
		t.Errorf("toml output lacks [layout]:\n%s", data)
	}

	doc, err := readDocument(out)
	if err != nil {
		t.Fatal(err)
	}
	back, err := doc.model(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != m.String() {
		t.Errorf("round trip changed the tree:\n%s\nwant:\n%s", back, m)
	}
}
