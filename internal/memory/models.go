package memory

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is immutable once appended to a conversation.
type Message struct {
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
}

// Conversation is the unit stored in Redis, one JSON value per key.
// Messages are append-only; the core never deletes or reorders them.
type Conversation struct {
	ConversationID string         `json:"conversation_id"`
	Messages       []Message      `json:"messages"`
	Metadata       map[string]any `json:"metadata"`
}

func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
	})
}

// Recent returns the last limit messages in original order, or all of them
// when limit is zero or negative.
func (c *Conversation) Recent(limit int) []Message {
	msgs := c.Messages
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs
}

// MergeMetadata shallow-merges patch into the metadata bag: patched keys
// overwrite, all others are preserved.
func (c *Conversation) MergeMetadata(patch map[string]any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		c.Metadata[k] = v
	}
}
