package hintstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/wenliu/beebuddy/internal/domain/hints"
)

// ValkeyStore persists hint tables in a Valkey-compatible database. Keys are
// stored verbatim; the domain already versions and namespaces them.
type ValkeyStore struct {
	client valkey.Client
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (hints.CachedHints, bool, error) {
	cmd := s.client.B().Get().Key(key).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return hints.CachedHints{}, false, nil
		}
		return hints.CachedHints{}, false, err
	}
	var cached hints.CachedHints
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		return hints.CachedHints{}, false, err
	}
	return cached, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, payload hints.CachedHints, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(key).Value(string(data))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

var _ hints.Store = (*ValkeyStore)(nil)
