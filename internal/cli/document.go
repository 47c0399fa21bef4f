package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/pipeline"
)

// stdio is the path that stands for stdin or stdout.
const stdio = "-"

// checkPath validates a file argument. The stdio path and an empty output
// (stdout) are always accepted.
func checkPath(path string) error {
	if path == "" || path == stdio {
		return nil
	}
	return errs.ValidatePath(path)
}

// document is a layout file read from disk.
type document struct {
	path   string
	format string
	data   []byte
}

// readDocument reads path ("-" for stdin). The format comes from the
// extension, or is detected from the content.
func readDocument(path string) (*document, error) {
	var (
		data []byte
		err  error
	)
	if err := checkPath(path); err != nil {
		return nil, err
	}
	if path == stdio {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &document{path: path, format: documentFormat(path, data), data: data}, nil
}

func documentFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return pipeline.DocumentTOML
	case ".json":
		return pipeline.DocumentJSON
	}
	return pipeline.DetectDocumentFormat(data)
}

// model decodes the document.
func (d *document) model(ctx context.Context) (*model.Model, error) {
	m, err := pipeline.Load(ctx, d.data, d.format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", d.path, err)
	}
	return m, nil
}

// encodeDocument serializes m in the format implied by path, falling back
// to fallback for stdout and unknown extensions.
func encodeDocument(m *model.Model, path, fallback string) ([]byte, error) {
	format := fallback
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		format = pipeline.DocumentTOML
	case ".json":
		format = pipeline.DocumentJSON
	}
	if format == pipeline.DocumentTOML {
		return m.ToTOML()
	}
	data, err := m.ToJSON()
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// writeDocument writes the edited model to output ("" or "-" for stdout)
// and reports the path.
func writeDocument(m *model.Model, output, fallback string) error {
	data, err := encodeDocument(m, output, fallback)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return writeOutput(output, data)
}

// writeOutput writes data to path, or to stdout for "" and "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == stdio {
		_, err := stdout.Write(data)
		return err
	}
	if err := checkPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// basePath derives the base output path. Without an output the input's
// extension is stripped; a known format extension on output is stripped
// too, so "out.svg" and "out" name the same files.
func basePath(output, input string) string {
	if output == "" {
		if input == stdio {
			return "layout"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, ext := range []string{".tree.svg", ".svg", ".png", ".json", ".txt", ".dot"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
