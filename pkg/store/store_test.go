package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/flexdock/pkg/errors"
)

const sampleLayout = `{"layout":{"type":"row","children":[{"type":"tabset","children":[{"type":"tab","name":"Editor"}]}]}}`

// exercise runs the behavior every backend shares.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	oldNow := now
	now = func() time.Time { return clock }
	defer func() { now = oldNow }()

	if _, err := s.Get(ctx, "ide"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() missing err = %v, want ErrNotFound", err)
	}

	doc := &Document{ID: "ide", Name: "IDE", Data: []byte(sampleLayout)}
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := s.Get(ctx, "ide")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "IDE" || string(got.Data) != sampleLayout {
		t.Errorf("Get() = %+v, want stored document", got)
	}
	if !got.CreatedAt.Equal(clock) || !got.UpdatedAt.Equal(clock) {
		t.Errorf("timestamps = %v / %v, want %v", got.CreatedAt, got.UpdatedAt, clock)
	}

	created := clock
	clock = clock.Add(time.Hour)
	if err := s.Put(ctx, &Document{ID: "ide", Name: "IDE 2", Data: []byte(sampleLayout)}); err != nil {
		t.Fatalf("replace Put() error = %v", err)
	}
	got, _ = s.Get(ctx, "ide")
	if got.Name != "IDE 2" {
		t.Errorf("Name = %q, want %q", got.Name, "IDE 2")
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want preserved %v", got.CreatedAt, created)
	}
	if !got.UpdatedAt.Equal(clock) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, clock)
	}

	if err := s.Put(ctx, &Document{ID: "browser", Data: []byte(sampleLayout)}); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "browser" || list[1].ID != "ide" {
		ids := make([]string, len(list))
		for i, d := range list {
			ids[i] = d.ID
		}
		t.Errorf("List() ids = %v, want [browser ide]", ids)
	}

	if err := s.Delete(ctx, "browser"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "browser"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "ide"); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := &Document{ID: "a", Data: []byte(`{}`)}
	_ = s.Put(ctx, doc)
	doc.Data[0] = '['

	got, _ := s.Get(ctx, "a")
	if string(got.Data) != `{}` {
		t.Errorf("stored Data = %q, caller mutation leaked", got.Data)
	}
}

func TestPutValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		code errs.Code
	}{
		{"nil", nil, errs.ErrCodeInvalidInput},
		{"empty id", &Document{Data: []byte(`{}`)}, errs.ErrCodeInvalidInput},
		{"traversal", &Document{ID: "../etc", Data: []byte(`{}`)}, errs.ErrCodeInvalidInput},
		{"slash", &Document{ID: "a/b", Data: []byte(`{}`)}, errs.ErrCodeInvalidInput},
		{"no data", &Document{ID: "a"}, errs.ErrCodeInvalidFormat},
		{"bad json", &Document{ID: "a", Data: []byte(`{`)}, errs.ErrCodeInvalidFormat},
	}
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	backends := map[string]Store{"memory": NewMemoryStore(), "file": fs}
	for bname, s := range backends {
		for _, tt := range tests {
			t.Run(bname+"/"+tt.name, func(t *testing.T) {
				err := s.Put(context.Background(), tt.doc)
				if got := errs.GetCode(err); got != tt.code {
					t.Errorf("Put() code = %q (%v), want %q", got, err, tt.code)
				}
			})
		}
	}
}

func TestFileStoreSkipsGarbage(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	ctx := context.Background()
	_ = s.Put(ctx, &Document{ID: "good", Data: []byte(`{}`)})
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "good" {
		t.Errorf("List() = %d docs, want only good", len(list))
	}
	if _, err := s.Get(ctx, "bad"); errs.GetCode(err) != errs.ErrCodeInvalidFormat {
		t.Errorf("Get(bad) err = %v, want INVALID_FORMAT", err)
	}
}

func TestNotFoundStatus(t *testing.T) {
	if got := errs.HTTPStatus(ErrNotFound); got != 404 {
		t.Errorf("HTTPStatus(ErrNotFound) = %d, want 404", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{"memory", Config{Backend: BackendMemory}, "*store.MemoryStore", false},
		{"file", Config{Backend: BackendFile, Dir: t.TempDir()}, "*store.FileStore", false},
		{"default file", Config{Dir: t.TempDir()}, "*store.FileStore", false},
		{"unknown", Config{Backend: "sqlite"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer s.Close()
			if got := typeName(s); got != tt.want {
				t.Errorf("Open() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(s Store) string {
	switch s.(type) {
	case *MemoryStore:
		return "*store.MemoryStore"
	case *FileStore:
		return "*store.FileStore"
	case *RedisStore:
		return "*store.RedisStore"
	case *MongoStore:
		return "*store.MongoStore"
	}
	return "?"
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FLEXDOCK_TEST_REDIS")
	if addr == "" {
		t.Skip("FLEXDOCK_TEST_REDIS not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	s := NewRedisStore(client, "flexdock-test:"+time.Now().Format("150405.000")+":")
	defer s.Close()
	exercise(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FLEXDOCK_TEST_MONGO")
	if uri == "" {
		t.Skip("FLEXDOCK_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "flexdock_test", Collection: t.Name()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	_, _ = s.coll.DeleteMany(ctx, map[string]any{})
	exercise(t, s)
}
