package store

import (
	"sync"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
)

// ConversationStore is process-lifetime keyed storage for conversations.
// It holds no business rules; absent ids are a normal outcome, never an
// error. All accessors return deep copies so the store exclusively owns
// the live Conversation instances.
type ConversationStore interface {
	Put(conversation *domain.Conversation)
	Get(id string) (*domain.Conversation, bool)
	Delete(id string) bool
	All() []*domain.Conversation
}

type conversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
}

func NewConversationStore() ConversationStore {
	return &conversationStore{
		conversations: make(map[string]*domain.Conversation),
	}
}

func (s *conversationStore) Put(conversation *domain.Conversation) {
	if conversation == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conversation.ID] = conversation.Clone()
}

func (s *conversationStore) Get(id string) (*domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conversation, ok := s.conversations[id]
	if !ok {
		return nil, false
	}
	return conversation.Clone(), true
}

func (s *conversationStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; !ok {
		return false
	}
	delete(s.conversations, id)
	return true
}

func (s *conversationStore) All() []*domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Conversation, 0, len(s.conversations))
	for _, conversation := range s.conversations {
		out = append(out, conversation.Clone())
	}
	return out
}
