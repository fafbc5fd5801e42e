package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lovepattern-backend/internal/services"
)

const (
	DefaultKeyPrefix = "lovepattern:session:"

	maxUpdateAttempts = 8
)

// SessionStore keeps sessions as JSON with an idle TTL that every read
// refreshes (GETEX), so expiry is left to redis.
type SessionStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewSessionStore(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *SessionStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = services.DefaultSessionTTL
	}
	return &SessionStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

func (s *SessionStore) Get(ctx context.Context, id string) (*services.Session, error) {
	raw, err := s.rdb.GetEx(ctx, s.key(id), s.ttl).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, services.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var sess services.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Put(ctx context.Context, sess *services.Session) error {
	if sess == nil || sess.ID == "" {
		return services.ErrSessionNotFound
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis put session: %w", err)
	}
	return nil
}

// Update runs fn inside WATCH/MULTI on the session key. A write from any
// other client between the read and EXEC aborts the transaction, and fn is
// re-run on the fresh value.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(*services.Session) error) (*services.Session, error) {
	key := s.key(id)
	var out *services.Session
	txf := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return services.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get session: %w", err)
		}
		var sess services.Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		if err := fn(&sess); err != nil {
			return err
		}
		next, err := json.Marshal(&sess)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, key, next, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = &sess
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, goredis.TxFailedErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("redis update session %s: %w", id, services.ErrSessionConflict)
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	if n == 0 {
		return services.ErrSessionNotFound
	}
	return nil
}

// Count scans the key prefix. It is only used for the active-sessions gauge.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", 500).Result()
		if err != nil {
			return 0, fmt.Errorf("redis scan sessions: %w", err)
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}
