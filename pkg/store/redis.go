package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/flexdock/pkg/errors"
)

// RedisStore keeps each document as a JSON string under <prefix>doc:<id>
// and the set of ids under <prefix>docs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps client. An empty prefix defaults to "flexdock:".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "flexdock:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) docKey(id string) string { return s.prefix + "doc:" + id }
func (s *RedisStore) indexKey() string        { return s.prefix + "docs" }

func (s *RedisStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := errs.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, s.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	return decode(id, raw)
}

func (s *RedisStore) Put(ctx context.Context, doc *Document) error {
	if doc == nil {
		return prepare(doc, nil)
	}
	prev, err := s.Get(ctx, doc.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := prepare(doc, prev); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.docKey(doc.ID), raw, 0)
		p.SAdd(ctx, s.indexKey(), doc.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put %s: %w", doc.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateDocumentID(id); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.docKey(id))
		p.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Document, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	out := make([]*Document, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		d, err := decode(ids[i], []byte(str))
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	sortByID(out)
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

func decode(id string, raw []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode layout %q", id)
	}
	return &d, nil
}

var _ Store = (*RedisStore)(nil)
