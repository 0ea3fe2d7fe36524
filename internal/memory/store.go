// Package memory keeps conversation history in Redis with a sliding TTL.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned for unknown or expired conversation ids.
var ErrNotFound = errors.New("conversation not found")

const defaultTTL = 7 * 24 * time.Hour

// Store persists conversations as JSON values under conversation:<id>.
// Expiry is enforced by Redis, not by the application: every mutating call
// rewrites the key with the full TTL, so an idle conversation slides out on
// its own and all later reads report ErrNotFound.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func key(conversationID string) string {
	return "conversation:" + conversationID
}

// Create allocates a fresh conversation, optionally seeded with one system
// message, and returns its id.
func (s *Store) Create(ctx context.Context, systemMessage string) (string, error) {
	conv := &Conversation{
		ConversationID: uuid.NewString(),
		Messages:       []Message{},
		Metadata:       map[string]any{},
	}
	if systemMessage != "" {
		conv.Append(RoleSystem, systemMessage)
	}
	if err := s.save(ctx, conv); err != nil {
		return "", err
	}
	return conv.ConversationID, nil
}

func (s *Store) Get(ctx context.Context, conversationID string) (*Conversation, error) {
	data, err := s.rdb.Get(ctx, key(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get conversation %s: %w", conversationID, err)
	}
	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", conversationID, err)
	}
	return &conv, nil
}

// Append adds a message to an existing conversation. It reports false when
// the conversation does not exist (typically expired) and never creates one
// implicitly.
//
// The update is a read-modify-write on the whole value without a lock:
// two concurrent appends to the same id can race and the last writer wins,
// losing the other message. Acceptable for single-user chat traffic; do not
// rely on this under concurrent writers.
func (s *Store) Append(ctx context.Context, conversationID, role, content string) bool {
	conv, err := s.Get(ctx, conversationID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[memory] append read failed id=%s err=%v", conversationID, err)
		}
		return false
	}
	conv.Append(role, content)
	if err := s.save(ctx, conv); err != nil {
		log.Printf("[memory] append write failed id=%s err=%v", conversationID, err)
		return false
	}
	return true
}

// Recent returns the last limit messages in original order (all when limit
// is zero or negative). Unknown ids yield an empty slice.
func (s *Store) Recent(ctx context.Context, conversationID string, limit int) []Message {
	conv, err := s.Get(ctx, conversationID)
	if err != nil {
		return nil
	}
	return conv.Recent(limit)
}

// UpdateMetadata shallow-merges patch into the conversation metadata.
// Same read-modify-write caveat as Append.
func (s *Store) UpdateMetadata(ctx context.Context, conversationID string, patch map[string]any) bool {
	conv, err := s.Get(ctx, conversationID)
	if err != nil {
		return false
	}
	conv.MergeMetadata(patch)
	if err := s.save(ctx, conv); err != nil {
		log.Printf("[memory] metadata write failed id=%s err=%v", conversationID, err)
		return false
	}
	return true
}

// Delete removes the whole conversation. Deletion is the only whole-record
// mutation; individual messages are never removed.
func (s *Store) Delete(ctx context.Context, conversationID string) bool {
	n, err := s.rdb.Del(ctx, key(conversationID)).Result()
	if err != nil {
		log.Printf("[memory] delete failed id=%s err=%v", conversationID, err)
		return false
	}
	return n > 0
}

func (s *Store) save(ctx context.Context, conv *Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", conv.ConversationID, err)
	}
	// Full TTL on every write: sliding expiry.
	return s.rdb.Set(ctx, key(conv.ConversationID), data, s.ttl).Err()
}
