package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/flexdock/pkg/buildinfo"
	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/pipeline"
	"github.com/matzehuels/flexdock/pkg/render"
	"github.com/matzehuels/flexdock/pkg/store"
)

// =============================================================================
// Health
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// =============================================================================
// Documents
// =============================================================================

// summary is a document without its data.
type summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) listLayouts(w http.ResponseWriter, r *http.Request) error {
	docs, err := s.store.List(r.Context())
	if err != nil {
		return err
	}
	out := make([]summary, len(docs))
	for i, d := range docs {
		out[i] = summary{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
	}
	return writeJSON(w, http.StatusOK, map[string]any{"layouts": out})
}

func (s *Server) createLayout(w http.ResponseWriter, r *http.Request) error {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = uuid.NewString()
	}
	if err := errs.ValidateDocumentID(id); err != nil {
		return err
	}
	data, err := readDocument(r)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(id)
	defer unlock()
	if _, err := s.store.Get(r.Context(), id); err == nil {
		return errs.New(errs.ErrCodeDuplicateID, "layout %q already exists", id)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	doc := &store.Document{ID: id, Name: r.URL.Query().Get("name"), Data: data}
	if err := s.store.Put(r.Context(), doc); err != nil {
		return err
	}
	w.Header().Set("Location", "/layouts/"+id)
	return writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) error {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, doc)
}

func (s *Server) putLayout(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if err := errs.ValidateDocumentID(id); err != nil {
		return err
	}
	data, err := readDocument(r)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(id)
	defer unlock()
	doc := &store.Document{ID: id, Name: r.URL.Query().Get("name"), Data: data}
	status := http.StatusOK
	prev, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusCreated
	case err != nil:
		return err
	case doc.Name == "":
		doc.Name = prev.Name
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		return err
	}
	return writeJSON(w, status, doc)
}

func (s *Server) deleteLayout(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	unlock := s.locks.lock(id)
	defer unlock()
	if err := s.store.Delete(r.Context(), id); err != nil {
		return err
	}
	s.evict(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// readDocument validates a JSON or TOML layout body and returns its
// canonical JSON form, with generated ids made permanent.
func readDocument(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read body")
	}
	format := ""
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		format = pipeline.DocumentTOML
	}
	m, err := pipeline.Load(r.Context(), body, format)
	if err != nil {
		return nil, err
	}
	return m.ToJSON()
}

// =============================================================================
// Layout
// =============================================================================

// frameParams are the frame settings accepted by the interactive routes.
type frameParams struct {
	Width    int  `json:"width,omitempty"`
	Height   int  `json:"height,omitempty"`
	TabWidth int  `json:"tab_width,omitempty"`
	Tidy     bool `json:"tidy,omitempty"`
}

func (s *Server) options(p frameParams) pipeline.Options {
	opts := s.defaults
	opts.Formats = nil
	opts.Overlay = nil
	if p.Width > 0 {
		opts.Width = p.Width
	}
	if p.Height > 0 {
		opts.Height = p.Height
	}
	if p.TabWidth > 0 {
		opts.TabWidth = p.TabWidth
	}
	opts.Tidy = opts.Tidy || p.Tidy
	return opts
}

func (s *Server) frames(w http.ResponseWriter, r *http.Request) error {
	var p frameParams
	if err := readJSON(r, &p, true); err != nil {
		return err
	}
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		return err
	}
	opts := s.options(p)
	opts.Formats = []string{render.FormatJSON}
	res, err := s.runnerFor(id).Execute(r.Context(), doc.Data, opts)
	if err != nil {
		return err
	}
	setCacheHeader(w, res.CacheInfo.LayoutHit)
	return writeBytes(w, http.StatusOK, render.ContentType(render.FormatJSON), res.Artifacts[render.FormatJSON])
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) error {
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormats([]string{format}); err != nil {
		return err
	}
	opts, err := s.queryOptions(r)
	if err != nil {
		return err
	}
	opts.Formats = []string{format}

	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		return err
	}
	res, err := s.runnerFor(id).Execute(r.Context(), doc.Data, opts)
	if err != nil {
		return err
	}
	setCacheHeader(w, res.CacheInfo.RenderHit)
	return writeBytes(w, http.StatusOK, render.ContentType(format), res.Artifacts[format])
}

// queryOptions reads width, height, tab_width, scale, cols, rows, tidy and
// labels from the query string.
func (s *Server) queryOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.defaults
	opts.Formats = nil
	opts.Overlay = nil

	ints := []struct {
		key string
		dst *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"tab_width", &opts.TabWidth},
		{"cols", &opts.TextCols},
		{"rows", &opts.TextRows},
	}
	for _, p := range ints {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer, got %q", p.key, v)
			}
			*p.dst = n
		}
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "scale must be a number, got %q", v)
		}
		opts.Scale = f
	}
	bools := []struct {
		key string
		dst *bool
	}{
		{"tidy", &opts.Tidy},
		{"labels", &opts.Labels},
		{"refresh", &opts.Refresh},
	}
	for _, p := range bools {
		if v := q.Get(p.key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean, got %q", p.key, v)
			}
			*p.dst = b
		}
	}
	return opts, nil
}

// =============================================================================
// Mutations
// =============================================================================

// mutate loads a document under its lock, runs fn on the model and stores
// the result when fn reports a change. Nothing is stored when fn fails.
func (s *Server) mutate(ctx context.Context, id string, fn func(m *model.Model) (bool, error)) (*store.Document, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := pipeline.Load(ctx, doc.Data, pipeline.DocumentJSON)
	if err != nil {
		return nil, err
	}
	changed, err := fn(m)
	if err != nil || !changed {
		return doc, err
	}
	if doc.Data, err = m.ToJSON(); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type actionsBody struct {
	Actions []model.Action `json:"actions"`
}

func (s *Server) actions(w http.ResponseWriter, r *http.Request) error {
	var body actionsBody
	if err := readJSON(r, &body, false); err != nil {
		return err
	}
	if len(body.Actions) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "no actions")
	}
	var applied int
	doc, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(m *model.Model) (bool, error) {
		var err error
		applied, err = pipeline.Apply(r.Context(), m, body.Actions...)
		return true, err
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"applied": applied, "layout": doc})
}

type dropBody struct {
	frameParams
	pipeline.DropRequest
	DryRun bool `json:"dry_run,omitempty"`
}

func (s *Server) drop(w http.ResponseWriter, r *http.Request) error {
	var body dropBody
	if err := readJSON(r, &body, false); err != nil {
		return err
	}
	opts := s.options(body.frameParams)
	var out pipeline.DropOutcome
	doc, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(m *model.Model) (bool, error) {
		if body.DryRun {
			info, err := pipeline.FindDrop(r.Context(), m, opts, body.DropRequest)
			if err != nil {
				return false, err
			}
			out = pipeline.OutcomeOf(info)
			return false, nil
		}
		var err error
		out, err = pipeline.Drop(r.Context(), m, opts, body.DropRequest)
		return out.Dropped, err
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"drop": out, "layout": doc})
}

type splitBody struct {
	frameParams
	pipeline.SplitRequest
}

func (s *Server) split(w http.ResponseWriter, r *http.Request) error {
	var body splitBody
	if err := readJSON(r, &body, false); err != nil {
		return err
	}
	opts := s.options(body.frameParams)
	var res model.SplitResult
	doc, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(m *model.Model) (bool, error) {
		var err error
		res, err = pipeline.Split(r.Context(), m, opts, body.SplitRequest)
		return true, err
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"split": res, "layout": doc})
}

// =============================================================================
// Encoding
// =============================================================================

// readJSON decodes the request body into v. An empty body is accepted when
// optional is set.
func readJSON(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode response")
	}
	return writeBytes(w, status, "application/json", append(data, '\n'))
}

func writeBytes(w http.ResponseWriter, status int, contentType string, data []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(status)
	_, _ = w.Write(data)
	return nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

type errorBody struct {
	Error struct {
		Code    errs.Code `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	var body errorBody
	body.Error.Code = errs.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errs.ErrCodeInternal
	}
	body.Error.Message = errs.UserMessage(err)
	data, _ := json.Marshal(body)
	_ = writeBytes(w, status, "application/json", append(data, '\n'))
}
