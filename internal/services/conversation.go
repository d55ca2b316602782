package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
	"github.com/jorgeferrarice/resume-ai-api/internal/logger"
	"github.com/jorgeferrarice/resume-ai-api/internal/store"
)

// ErrConversationNotFound is returned when an operation requires a stored
// conversation and the id does not resolve to one. For AddMessage this is
// a caller contract violation: callers must resolve or create the
// conversation first.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationService owns the conversation lifecycle: creation, message
// append, first-message detection, context-injection marking, history
// retrieval, deletion, and age-based cleanup.
type ConversationService interface {
	CreateConversation() *domain.Conversation
	GetConversation(id string) (*domain.Conversation, bool)
	AddMessage(id, role, content string) (*domain.Message, error)
	MarkContextInjected(id string)
	GetMessageHistory(id string, includeSystem bool) []domain.ChatTurn
	IsFirstUserMessage(id string) bool
	GetAllConversations() []*domain.Conversation
	DeleteConversation(id string) bool
	CleanupOldConversations(maxAgeHours int) int

	// Lock serializes operations against one conversation id and returns
	// the matching unlock. The chat orchestrator holds the lock across its
	// check-injection-then-append sequence so two concurrent sends against
	// the same conversation cannot both observe "first user message".
	Lock(id string) (unlock func())
}

type conversationService struct {
	log   *logger.Logger
	store store.ConversationStore
	locks sync.Map // conversation id -> *sync.Mutex
	now   func() time.Time
}

func NewConversationService(log *logger.Logger, convStore store.ConversationStore) ConversationService {
	return &conversationService{
		log:   log.With("service", "ConversationService"),
		store: convStore,
		now:   time.Now,
	}
}

func (cs *conversationService) CreateConversation() *domain.Conversation {
	now := cs.now()
	conversation := &domain.Conversation{
		ID:                uuid.New().String(),
		Messages:          []*domain.Message{},
		CreatedAt:         now,
		UpdatedAt:         now,
		IsContextInjected: false,
	}
	cs.store.Put(conversation)
	cs.log.Debug("Conversation created", "conversation_id", conversation.ID)
	return conversation
}

func (cs *conversationService) GetConversation(id string) (*domain.Conversation, bool) {
	return cs.store.Get(id)
}

func (cs *conversationService) AddMessage(id, role, content string) (*domain.Message, error) {
	conversation, ok := cs.store.Get(id)
	if !ok {
		return nil, ErrConversationNotFound
	}

	message := &domain.Message{
		ID:             uuid.New().String(),
		Role:           role,
		Content:        content,
		Timestamp:      cs.now(),
		ConversationID: id,
	}
	conversation.Messages = append(conversation.Messages, message)
	conversation.UpdatedAt = message.Timestamp
	cs.store.Put(conversation)

	cs.log.Debug("Message appended", "conversation_id", id, "message_id", message.ID, "role", role)
	return message, nil
}

// MarkContextInjected is idempotent and a no-op when the conversation is
// absent.
func (cs *conversationService) MarkContextInjected(id string) {
	conversation, ok := cs.store.Get(id)
	if !ok {
		return
	}
	conversation.IsContextInjected = true
	cs.store.Put(conversation)
}

// GetMessageHistory projects the conversation to the role+content payload
// sent to the completion provider. An absent conversation yields an empty
// history, not an error.
func (cs *conversationService) GetMessageHistory(id string, includeSystem bool) []domain.ChatTurn {
	conversation, ok := cs.store.Get(id)
	if !ok {
		return []domain.ChatTurn{}
	}
	history := make([]domain.ChatTurn, 0, len(conversation.Messages))
	for _, m := range conversation.Messages {
		if !includeSystem && m.Role == domain.RoleSystem {
			continue
		}
		history = append(history, domain.ChatTurn{Role: m.Role, Content: m.Content})
	}
	return history
}

// IsFirstUserMessage reports whether no user-role message exists yet. It
// must be evaluated before the incoming user message is appended. An
// absent conversation counts as "no prior user messages".
func (cs *conversationService) IsFirstUserMessage(id string) bool {
	conversation, ok := cs.store.Get(id)
	if !ok {
		return true
	}
	for _, m := range conversation.Messages {
		if m.Role == domain.RoleUser {
			return false
		}
	}
	return true
}

func (cs *conversationService) GetAllConversations() []*domain.Conversation {
	return cs.store.All()
}

func (cs *conversationService) DeleteConversation(id string) bool {
	deleted := cs.store.Delete(id)
	if deleted {
		cs.locks.Delete(id)
		cs.log.Debug("Conversation deleted", "conversation_id", id)
	}
	return deleted
}

// CleanupOldConversations removes every conversation whose UpdatedAt is
// strictly before now minus maxAgeHours. A conversation touched exactly
// at the cutoff survives.
func (cs *conversationService) CleanupOldConversations(maxAgeHours int) int {
	cutoff := cs.now().Add(-time.Duration(maxAgeHours) * time.Hour)
	deleted := 0
	for _, conversation := range cs.store.All() {
		if conversation.UpdatedAt.Before(cutoff) {
			if cs.store.Delete(conversation.ID) {
				cs.locks.Delete(conversation.ID)
				deleted++
			}
		}
	}
	if deleted > 0 {
		cs.log.Info("Old conversations cleaned up", "deleted", deleted, "max_age_hours", maxAgeHours)
	}
	return deleted
}

func (cs *conversationService) Lock(id string) func() {
	v, _ := cs.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
