package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LeonMueller-OneAndOnly/blitz/core/session"
)

const (
	sessionKeyPrefix = "blitz:session:"
	userIndexPrefix  = "blitz:user_sessions:"
)

// Store persists session records in Redis. Each record lives under its own
// key with a TTL derived from ExpiresAt; a per-user set indexes the handles
// owned by each user for GetByUserID and revoke-all.
type Store struct {
	client redis.UniversalClient
}

// NewStore creates a Redis-backed session store.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

var _ session.Store = (*Store)(nil)

func sessionKey(handle string) string {
	return sessionKeyPrefix + handle
}

func userIndexKey(userID string) string {
	return userIndexPrefix + userID
}

// ttlFor derives the key TTL from the record expiry. Records without expiry
// persist until deleted.
func ttlFor(rec *session.Record) time.Duration {
	if rec.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(*rec.ExpiresAt), time.Second)
}

func (s *Store) Get(ctx context.Context, handle string) (*session.Record, error) {
	blob, err := s.client.Get(ctx, sessionKey(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get session: %w", err)
	}

	var rec session.Record
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, fmt.Errorf("redis: decode session %q: %w", handle, err)
	}
	return &rec, nil
}

func (s *Store) GetByUserID(ctx context.Context, userID string) ([]*session.Record, error) {
	handles, err := s.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list user sessions: %w", err)
	}

	out := make([]*session.Record, 0, len(handles))
	for _, handle := range handles {
		rec, err := s.Get(ctx, handle)
		if errors.Is(err, session.ErrNotFound) {
			// The session key expired; drop the dangling index entry.
			_ = s.client.SRem(ctx, userIndexKey(userID), handle).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, rec *session.Record) error {
	return s.write(ctx, rec)
}

func (s *Store) Update(ctx context.Context, handle string, patch session.RecordPatch) error {
	rec, err := s.Get(ctx, handle)
	if err != nil {
		return err
	}

	if patch.ExpiresAt != nil {
		t := *patch.ExpiresAt
		rec.ExpiresAt = &t
	}
	if patch.PublicData != nil {
		rec.PublicData = *patch.PublicData
	}
	if patch.PrivateData != nil {
		rec.PrivateData = *patch.PrivateData
	}
	rec.UpdatedAt = time.Now()

	return s.write(ctx, rec)
}

func (s *Store) Delete(ctx context.Context, handle string) error {
	rec, err := s.Get(ctx, handle)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(handle))
	if rec.UserID != "" {
		pipe.SRem(ctx, userIndexKey(rec.UserID), handle)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, rec *session.Record) error {
	stored := *rec
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}

	blob, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("redis: encode session %q: %w", rec.Handle, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(rec.Handle), blob, ttlFor(rec))
	if stored.UserID != "" {
		pipe.SAdd(ctx, userIndexKey(stored.UserID), rec.Handle)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: store session: %w", err)
	}
	return nil
}
