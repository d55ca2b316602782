package domain

import "time"

// Message roles as sent to the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a conversation. Messages are created only
// through the conversation service and are immutable once appended.
type Message struct {
	ID             string    `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversationId"`
}

// Conversation is an ordered message sequence plus lifecycle metadata.
// Insertion order of Messages defines chat turn order and is replayed
// verbatim to the completion provider.
type Conversation struct {
	ID                string     `json:"id"`
	Messages          []*Message `json:"messages"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	IsContextInjected bool       `json:"isContextInjected"`
}

// Clone returns a deep copy so callers never hold live references into
// the store's map.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := &Conversation{
		ID:                c.ID,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		IsContextInjected: c.IsContextInjected,
	}
	if c.Messages != nil {
		out.Messages = make([]*Message, len(c.Messages))
		for i, m := range c.Messages {
			cp := *m
			out.Messages[i] = &cp
		}
	}
	return out
}

// ChatTurn is the role+content projection sent to the completion provider.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage is token accounting passed through from the completion provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ConversationSummary is the administrative listing shape.
type ConversationSummary struct {
	ID                 string    `json:"id"`
	MessageCount       int       `json:"messageCount"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	IsContextInjected  bool      `json:"isContextInjected"`
	LastMessagePreview string    `json:"lastMessage"`
}

// ConversationHistory is the caller-facing history view. System messages
// are excluded before this is built.
type ConversationHistory struct {
	ID        string           `json:"id"`
	Messages  []HistoryMessage `json:"messages"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type HistoryMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
