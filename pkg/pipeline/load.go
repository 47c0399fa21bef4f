package pipeline

import (
	"bytes"
	"context"
	"time"

	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/observability"
)

// DetectDocumentFormat guesses json or toml from the first significant
// byte: JSON documents are objects.
func DetectDocumentFormat(data []byte) string {
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '{' {
		return DocumentJSON
	}
	return DocumentTOML
}

// Load decodes a layout document. An empty format is detected.
func Load(ctx context.Context, data []byte, format string) (*model.Model, error) {
	if format == "" {
		format = DetectDocumentFormat(data)
	}
	start := time.Now()

	var (
		m   *model.Model
		err error
	)
	switch format {
	case DocumentJSON:
		m, err = model.FromJSON(data)
	case DocumentTOML:
		m, err = model.FromTOML(data)
	default:
		err = errs.New(errs.ErrCodeInvalidFormat, "unknown document format %q (must be json or toml)", format)
	}

	nodes := 0
	if m != nil {
		nodes = m.Len()
	}
	observability.Layout().OnLoad(ctx, nodes, time.Since(start), err)
	return m, err
}
