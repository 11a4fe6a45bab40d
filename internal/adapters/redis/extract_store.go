package redis_adapter

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
)

const extractKeyPrefix = "listing:extract:"

// ExtractStore keeps AI extraction results in one hash per user, one field
// per draft. The whole hash expires ttl after its last write.
type ExtractStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewExtractStore(client *redis.Client, ttl time.Duration) (*ExtractStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ExtractStore{client: client, ttl: ttl}, nil
}

var _ port.ExtractStorePort = (*ExtractStore)(nil)

// userKey hashes the e-mail so that addresses never appear in key names.
func userKey(email string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return extractKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *ExtractStore) Save(ctx context.Context, userEmail string, draftID uuid.UUID, fields map[string]any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode extracted fields: %w", err)
	}

	key := userKey(userEmail)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, draftID.String(), payload)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Redis HSET failed", err, port.Fields{
			"component": "ExtractStore",
			"draft_id":  draftID,
		})
		return fmt.Errorf("failed to save extracted fields of draft %s: %w", draftID, err)
	}
	return nil
}

// Load returns nil without error when nothing is stored for the draft.
func (s *ExtractStore) Load(ctx context.Context, userEmail string, draftID uuid.UUID) (map[string]any, error) {
	payload, err := s.client.HGet(ctx, userKey(userEmail), draftID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load extracted fields of draft %s: %w", draftID, err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode extracted fields of draft %s: %w", draftID, err)
	}
	return fields, nil
}

func (s *ExtractStore) Delete(ctx context.Context, userEmail string, draftID uuid.UUID) error {
	if err := s.client.HDel(ctx, userKey(userEmail), draftID.String()).Err(); err != nil {
		return fmt.Errorf("failed to delete extracted fields of draft %s: %w", draftID, err)
	}
	return nil
}
