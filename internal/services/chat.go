package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
	"github.com/jorgeferrarice/resume-ai-api/internal/logger"
)

const elevatrPersona = `You are Elevatr, a fun and nerdy AI assistant specialized in helping recruiters and HR professionals evaluate candidates and optimize hiring processes.

Personality:
- Enthusiastic about technology, programming, and great hiring decisions
- Clever tech and pop culture references when they add value
- Supportive first, witty second, always professional

Mission:
- Help recruiters understand candidate profiles and technical backgrounds
- Provide insights about skill alignment and candidate potential
- Reference relevant candidate background context when helpful

You have access to the candidate's personal and professional context. Use it to help recruiters make informed decisions about cultural fit and technical alignment.`

// SendMessageRequest carries one inbound user turn. ConversationID empty
// means "start a new conversation". Temperature and MaxTokens of zero use
// the provider defaults.
type SendMessageRequest struct {
	Message        string
	ConversationID string
	Temperature    float64
	MaxTokens      int
}

type SendMessageResult struct {
	Message           string        `json:"message"`
	ConversationID    string        `json:"conversationId"`
	MessageID         string        `json:"messageId"`
	IsNewConversation bool          `json:"isNewConversation"`
	Usage             *domain.Usage `json:"usage,omitempty"`
}

// ChatService turns one inbound user message into one assistant reply
// while maintaining conversation continuity and persona consistency.
type ChatService interface {
	SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error)
	GetConversationHistory(conversationID string) (*domain.ConversationHistory, bool)
	DeleteConversation(conversationID string) bool
	ListConversations() []domain.ConversationSummary
	Cleanup(maxAgeHours int) int
}

type chatService struct {
	log           *logger.Logger
	conversations ConversationService
	provider      CompletionProvider
	contextLoader ContextLoader

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewChatService wires the orchestrator. rng selects fallback reply
// variants; pass nil for a time-seeded source.
func NewChatService(log *logger.Logger, conversations ConversationService, provider CompletionProvider, contextLoader ContextLoader, rng *rand.Rand) ChatService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &chatService{
		log:           log.With("service", "ChatService"),
		conversations: conversations,
		provider:      provider,
		contextLoader: contextLoader,
		rng:           rng,
	}
}

// SendMessage resolves or creates the conversation, injects the persona
// system message exactly once, appends the user turn, delegates to the
// completion provider, and appends the assistant reply. Provider failures
// never propagate: the reply degrades to a locally generated fallback.
// The only caller-visible failure is ErrConversationNotFound for an
// explicitly supplied id, and that path performs no store mutation.
func (s *chatService) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error) {
	var conversationID string
	isNewConversation := false

	if req.ConversationID != "" {
		if _, ok := s.conversations.GetConversation(req.ConversationID); !ok {
			return nil, ErrConversationNotFound
		}
		conversationID = req.ConversationID
	} else {
		conversationID = s.conversations.CreateConversation().ID
		isNewConversation = true
	}

	// The injection gate is check-then-act: it must be serialized per
	// conversation id and evaluated before the user message is appended.
	unlock := s.conversations.Lock(conversationID)
	defer unlock()

	conversation, ok := s.conversations.GetConversation(conversationID)
	if !ok {
		// Deleted between resolution and locking.
		return nil, ErrConversationNotFound
	}

	firstUserMessage := s.conversations.IsFirstUserMessage(conversationID)
	if firstUserMessage && !conversation.IsContextInjected {
		systemMessage := s.composeSystemMessage(s.contextLoader.Load())
		if _, err := s.conversations.AddMessage(conversationID, domain.RoleSystem, systemMessage); err != nil {
			return nil, err
		}
		s.conversations.MarkContextInjected(conversationID)
		s.log.Debug("Persona context injected", "conversation_id", conversationID)
	}

	if _, err := s.conversations.AddMessage(conversationID, domain.RoleUser, req.Message); err != nil {
		return nil, err
	}

	history := s.conversations.GetMessageHistory(conversationID, true)

	reply, usage, err := s.provider.ChatCompletion(ctx, history, CompletionOptions{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		s.log.Warn("Completion provider unavailable, using fallback reply",
			"conversation_id", conversationID,
			"error", err,
		)
		reply = s.fallbackReply(firstUserMessage)
		usage = nil
	}

	assistantMessage, err := s.conversations.AddMessage(conversationID, domain.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}

	return &SendMessageResult{
		Message:           reply,
		ConversationID:    conversationID,
		MessageID:         assistantMessage.ID,
		IsNewConversation: isNewConversation,
		Usage:             usage,
	}, nil
}

// GetConversationHistory returns the caller-facing view with system
// messages hidden. The second return is false when the conversation does
// not exist.
func (s *chatService) GetConversationHistory(conversationID string) (*domain.ConversationHistory, bool) {
	conversation, ok := s.conversations.GetConversation(conversationID)
	if !ok {
		return nil, false
	}
	messages := make([]domain.HistoryMessage, 0, len(conversation.Messages))
	for _, m := range conversation.Messages {
		if m.Role == domain.RoleSystem {
			continue
		}
		messages = append(messages, domain.HistoryMessage{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return &domain.ConversationHistory{
		ID:        conversation.ID,
		Messages:  messages,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}, true
}

func (s *chatService) DeleteConversation(conversationID string) bool {
	return s.conversations.DeleteConversation(conversationID)
}

func (s *chatService) ListConversations() []domain.ConversationSummary {
	conversations := s.conversations.GetAllConversations()
	summaries := make([]domain.ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		preview := "No messages"
		if n := len(c.Messages); n > 0 {
			preview = truncate(c.Messages[n-1].Content, 100)
		}
		summaries = append(summaries, domain.ConversationSummary{
			ID:                 c.ID,
			MessageCount:       len(c.Messages),
			CreatedAt:          c.CreatedAt,
			UpdatedAt:          c.UpdatedAt,
			IsContextInjected:  c.IsContextInjected,
			LastMessagePreview: preview,
		})
	}
	return summaries
}

func (s *chatService) Cleanup(maxAgeHours int) int {
	return s.conversations.CleanupOldConversations(maxAgeHours)
}

func (s *chatService) composeSystemMessage(candidate CandidateContext) string {
	var b strings.Builder
	b.WriteString(elevatrPersona)

	if candidate.PersonalContext == "" && candidate.ProfessionalContext == "" {
		return b.String()
	}

	b.WriteString("\n\nContext about the candidate:\n")
	if candidate.ProfessionalContext != "" {
		b.WriteString("\nProfessional Background:\n")
		b.WriteString(candidate.ProfessionalContext)
		b.WriteString("\n")
	}
	if candidate.PersonalContext != "" {
		b.WriteString("\nPersonal Context:\n")
		b.WriteString(candidate.PersonalContext)
		b.WriteString("\n")
	}
	b.WriteString("\nUse this context to help recruiters understand the candidate's background, skills, and cultural fit.")
	return b.String()
}

var fallbackGreetings = []string{
	"Hey there! I'm Elevatr, your friendly neighborhood recruiting AI!",
	"Greetings, fellow recruiter! Elevatr at your service!",
	"Well, well, well... another talent hunter seeking candidate insights!",
}

var fallbackResponses = []string{
	"That's an interesting question about this candidate! Their experience speaks volumes, even at a glance.",
	"I see what you're looking for! Let me share some first impressions about this candidate.",
	"Great question! This candidate's journey across stacks shows real adaptability.",
	"Interesting assessment angle! Years of shipped work tend to say more than any single keyword.",
}

const fallbackFirstMessageInvite = "I have access to the candidate's full professional background and personal context, so I can help you assess cultural fit and technical alignment. What would you like to know?"

const fallbackUnconfiguredNotice = "*Note: I'm currently running on canned replies since the AI provider isn't configured yet. Add an API key for deeper candidate insights!*"

// fallbackReply synthesizes a non-empty assistant reply when the provider
// is unavailable or unconfigured.
func (s *chatService) fallbackReply(firstUserMessage bool) string {
	s.rngMu.Lock()
	greeting := fallbackGreetings[s.rng.Intn(len(fallbackGreetings))]
	response := fallbackResponses[s.rng.Intn(len(fallbackResponses))]
	s.rngMu.Unlock()

	parts := []string{}
	if firstUserMessage {
		parts = append(parts, greeting)
	}
	parts = append(parts, response)
	if firstUserMessage {
		parts = append(parts, fallbackFirstMessageInvite)
	}
	if !s.provider.IsConfigured() {
		parts = append(parts, fallbackUnconfiguredNotice)
	}
	return strings.Join(parts, "\n\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
