// Package store persists layout documents by id.
//
// A [Document] wraps the JSON attribute form of a model (see
// model.ToJSON) together with a display name and timestamps. Backends:
//
//   - [MemoryStore]: process-local map, used by tests and `flexdock serve --store memory`
//   - [FileStore]: one JSON file per document, used by the CLI
//   - [RedisStore]: shared between server instances
//   - [MongoStore]: durable multi-instance storage
//
// All backends validate document ids with errors.ValidateDocumentID and
// return [ErrNotFound] for unknown ids.
package store

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	errs "github.com/matzehuels/flexdock/pkg/errors"
)

// ErrNotFound is returned when a document id is unknown.
var ErrNotFound = errs.New(errs.ErrCodeNotFound, "layout document not found")

// Document is a stored layout.
type Document struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store is implemented by every backend.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, id string) (*Document, error)

	// Put creates or replaces a document. CreatedAt is preserved across
	// replacements and UpdatedAt is set to the current time.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document, returning ErrNotFound if it did not exist.
	Delete(ctx context.Context, id string) error

	// List returns all documents ordered by id.
	List(ctx context.Context) ([]*Document, error)

	Close() error
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// prepare validates doc and stamps its timestamps given the previous
// version, if any.
func prepare(doc *Document, prev *Document) error {
	if doc == nil {
		return errs.New(errs.ErrCodeInvalidInput, "nil document")
	}
	if err := errs.ValidateDocumentID(doc.ID); err != nil {
		return err
	}
	if len(doc.Data) == 0 || !json.Valid(doc.Data) {
		return errs.New(errs.ErrCodeInvalidFormat, "document %q: data is not valid JSON", doc.ID)
	}
	t := now()
	doc.CreatedAt = t
	if prev != nil && !prev.CreatedAt.IsZero() {
		doc.CreatedAt = prev.CreatedAt
	}
	doc.UpdatedAt = t
	return nil
}

func clone(d *Document) *Document {
	c := *d
	c.Data = slices.Clone(d.Data)
	return &c
}

func sortByID(docs []*Document) {
	slices.SortFunc(docs, func(a, b *Document) int { return strings.Compare(a.ID, b.ID) })
}
