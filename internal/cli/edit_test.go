package cli

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const emptyTabSetTOML = `
[layout]
type = "row"
id = "root"

[[layout.children]]
type = "tabset"
id = "empty"

[[layout.children]]
type = "tabset"
id = "main"

[[layout.children.children]]
type = "tab"
id = "term"
name = "Terminal"
`

func TestTidyCommand(t *testing.T) {
	doc := writeFile(t, "solo.toml", emptyTabSetTOML)
	out := filepath.Join(t.TempDir(), "tidy.toml")

	if err := runCLI(t, "tidy", doc, "-o", out); err != nil {
		t.Fatalf("tidy: %v", err)
	}
	m := loadModel(t, out)
	if _, ok := m.NodeByID("empty"); ok {
		t.Error("empty tab set survived tidy")
	}
	if _, ok := m.NodeByID("term"); !ok {
		t.Error("tab lost by tidy")
	}
}

func TestDropCommand(t *testing.T) {
	doc := writeFile(t, "ide.json", ideJSON)
	out := filepath.Join(t.TempDir(), "dropped.json")

	err := runCLI(t, "drop", doc, "--node", "files", "--x", "900", "--y", "300",
		"--width", "1008", "--height", "400", "-o", out)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	files, ok := loadModel(t, out).NodeByID("files")
	if !ok {
		t.Fatal("files lost")
	}
	if p := files.Parent(); p == nil || p.ID() == "left" {
		t.Errorf("files parent = %v, want a new tab set", p)
	}
}

func TestDropCommandDryRun(t *testing.T) {
	doc := writeFile(t, "ide.json", ideJSON)
	before, _ := os.ReadFile(doc)
	out := filepath.Join(t.TempDir(), "never.json")

	err := runCLI(t, "drop", doc, "--new-id", "log", "--new-name", "Log", "--x", "150", "--y", "10",
		"--width", "1008", "--height", "400", "--dry-run", "-o", out)
	if err != nil {
		t.Fatalf("drop --dry-run: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dry run wrote a document")
	}
	after, _ := os.ReadFile(doc)
	if string(after) != string(before) {
		t.Error("dry run changed the input")
	}
}

func TestDropCommandFlags(t *testing.T) {
	doc := writeFile(t, "ide.json", ideJSON)
	if err := runCLI(t, "drop", doc, "--node", "files", "--new-id", "x"); err == nil {
		t.Error("drop with --node and --new-id succeeded")
	}
	if err := runCLI(t, "drop", doc, "--node", "ghost", "--x", "10", "--y", "10"); err == nil {
		t.Error("drop of an unknown node succeeded")
	}
}

func TestSplitCommand(t *testing.T) {
	doc := writeFile(t, "ide.json", ideJSON)
	out := filepath.Join(t.TempDir(), "split.json")

	err := runCLI(t, "split", doc, "--position", "500", "--width", "1008", "--height", "400", "-o", out)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	left, ok := loadModel(t, out).NodeByID("left")
	if !ok {
		t.Fatal("left lost")
	}
	if math.Abs(left.Weight()-50) > 1e-9 {
		t.Errorf("left weight = %v, want 50", left.Weight())
	}

	if err := runCLI(t, "split", doc, "--width", "1008"); err == nil || !strings.Contains(err.Error(), "position") {
		t.Errorf("split without --position err = %v", err)
	}
}

func TestApplyCommand(t *testing.T) {
	doc := writeFile(t, "ide.json", ideJSON)

	tests := []struct {
		name    string
		actions string
	}{
		{"bare list", `[{"type": "rename_tab", "node": "diff", "name": "Changes"}, {"type": "select_tab", "node": "diff"}]`},
		{"wrapped", `{"actions": [{"type": "rename_tab", "node": "diff", "name": "Changes"}, {"type": "select_tab", "node": "diff"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := writeFile(t, "actions.json", tt.actions)
			out := filepath.Join(t.TempDir(), "applied.json")
			if err := runCLI(t, "apply", doc, actions, "-o", out); err != nil {
				t.Fatalf("apply: %v", err)
			}
			m := loadModel(t, out)
			diff, _ := m.NodeByID("diff")
			ts, _ := m.NodeByID("main")
			if diff == nil || diff.Name() != "Changes" || ts.SelectedNode() != diff {
				t.Errorf("diff = %v, want renamed and selected", diff)
			}
		})
	}
}

func TestApplyCommandFailureWritesNothing(t *testing.T) {
	doc := writeFile(t, "ide.json", ideJSON)
	actions := writeFile(t, "actions.json", `[{"type": "select_tab", "node": "diff"}, {"type": "delete_tab", "node": "ghost"}]`)
	out := filepath.Join(t.TempDir(), "applied.json")

	if err := runCLI(t, "apply", doc, actions, "-o", out); err == nil {
		t.Fatal("apply with a failing action succeeded")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("failed apply wrote a document")
	}
}
