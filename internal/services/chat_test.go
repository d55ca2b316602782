package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
	"github.com/jorgeferrarice/resume-ai-api/internal/store"
)

func newChatFixture(provider *fakeProvider) (ChatService, ConversationService) {
	convStore := store.NewConversationStore()
	conversations := NewConversationService(newTestLogger(), convStore)
	loader := &staticContextLoader{professional: "20 years of full-stack work"}
	chat := NewChatService(newTestLogger(), conversations, provider, loader, rand.New(rand.NewSource(1)))
	return chat, conversations
}

func countRole(conversations ConversationService, id, role string) int {
	n := 0
	for _, turn := range conversations.GetMessageHistory(id, true) {
		if turn.Role == role {
			n++
		}
	}
	return n
}

func TestSendMessageNewConversation(t *testing.T) {
	provider := &fakeProvider{configured: true, reply: "Happy to help!", usage: &domain.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}}
	chat, conversations := newChatFixture(provider)

	result, err := chat.SendMessage(context.Background(), SendMessageRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !result.IsNewConversation {
		t.Fatal("expected isNewConversation=true for an implicit conversation")
	}
	if result.Message != "Happy to help!" {
		t.Fatalf("unexpected reply %q", result.Message)
	}
	if result.Usage == nil || result.Usage.TotalTokens != 15 {
		t.Fatalf("usage must pass through, got %+v", result.Usage)
	}

	// Internally: one system, one user, one assistant message.
	if got := countRole(conversations, result.ConversationID, domain.RoleSystem); got != 1 {
		t.Fatalf("expected exactly 1 system message, got %d", got)
	}
	if got := countRole(conversations, result.ConversationID, domain.RoleUser); got != 1 {
		t.Fatalf("expected 1 user message, got %d", got)
	}
	if got := countRole(conversations, result.ConversationID, domain.RoleAssistant); got != 1 {
		t.Fatalf("expected 1 assistant message, got %d", got)
	}

	// Provider saw the injected system turn first, then the user turn.
	if len(provider.lastMsgs) != 2 {
		t.Fatalf("provider must receive system+user history, got %d turns", len(provider.lastMsgs))
	}
	if provider.lastMsgs[0].Role != domain.RoleSystem || !strings.Contains(provider.lastMsgs[0].Content, "Elevatr") {
		t.Fatalf("first provider turn must be the persona system message, got %+v", provider.lastMsgs[0])
	}
	if !strings.Contains(provider.lastMsgs[0].Content, "20 years of full-stack work") {
		t.Fatal("system message must include loaded background context")
	}
	if provider.lastMsgs[1] != (domain.ChatTurn{Role: domain.RoleUser, Content: "Hello"}) {
		t.Fatalf("second provider turn must be the user message, got %+v", provider.lastMsgs[1])
	}

	// Caller-facing history hides the system message.
	history, ok := chat.GetConversationHistory(result.ConversationID)
	if !ok {
		t.Fatal("history must exist")
	}
	if len(history.Messages) != 2 {
		t.Fatalf("expected 2 visible messages (user+assistant), got %d", len(history.Messages))
	}
}

func TestSendMessageSecondTurn(t *testing.T) {
	provider := &fakeProvider{configured: true, reply: "Sure thing."}
	chat, conversations := newChatFixture(provider)

	first, err := chat.SendMessage(context.Background(), SendMessageRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("first SendMessage failed: %v", err)
	}
	second, err := chat.SendMessage(context.Background(), SendMessageRequest{
		Message:        "What about skills?",
		ConversationID: first.ConversationID,
	})
	if err != nil {
		t.Fatalf("second SendMessage failed: %v", err)
	}

	if second.IsNewConversation {
		t.Fatal("expected isNewConversation=false for an explicit conversation id")
	}
	if second.ConversationID != first.ConversationID {
		t.Fatal("conversation id must be stable across turns")
	}
	if got := countRole(conversations, first.ConversationID, domain.RoleSystem); got != 1 {
		t.Fatalf("persona must be injected exactly once, got %d system messages", got)
	}

	history, _ := chat.GetConversationHistory(first.ConversationID)
	if len(history.Messages) != 4 {
		t.Fatalf("expected 4 visible messages after two turns, got %d", len(history.Messages))
	}
}

func TestSendMessageNotFound(t *testing.T) {
	provider := &fakeProvider{configured: true, reply: "ok"}
	chat, conversations := newChatFixture(provider)

	_, err := chat.SendMessage(context.Background(), SendMessageRequest{
		Message:        "hi",
		ConversationID: "does-not-exist",
	})
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatal("provider must not be called for a missing conversation")
	}
	if got := len(conversations.GetAllConversations()); got != 0 {
		t.Fatalf("missing-conversation path must not mutate the store, found %d conversations", got)
	}
}

func TestSendMessageFallbackWhenUnconfigured(t *testing.T) {
	provider := &fakeProvider{configured: false}
	chat, conversations := newChatFixture(provider)

	result, err := chat.SendMessage(context.Background(), SendMessageRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("SendMessage must not fail when provider is unconfigured: %v", err)
	}
	if result.Message == "" {
		t.Fatal("fallback reply must be non-empty")
	}
	if result.Usage != nil {
		t.Fatal("fallback path must not report usage")
	}
	if !strings.Contains(result.Message, fallbackUnconfiguredNotice) {
		t.Fatal("unconfigured fallback must carry the configuration notice")
	}

	containsAny := func(s string, variants []string) bool {
		for _, v := range variants {
			if strings.Contains(s, v) {
				return true
			}
		}
		return false
	}
	if !containsAny(result.Message, fallbackGreetings) {
		t.Fatal("first-turn fallback must include a greeting variant")
	}
	if !containsAny(result.Message, fallbackResponses) {
		t.Fatal("fallback must include a content variant")
	}

	// The fallback reply is still appended as the assistant message.
	if got := countRole(conversations, result.ConversationID, domain.RoleAssistant); got != 1 {
		t.Fatalf("expected fallback appended as assistant message, got %d", got)
	}
}

func TestSendMessageFallbackDeterministicWithSeededSource(t *testing.T) {
	runOnce := func() string {
		provider := &fakeProvider{configured: false}
		chat, _ := newChatFixture(provider)
		result, err := chat.SendMessage(context.Background(), SendMessageRequest{Message: "Hello"})
		if err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
		return result.Message
	}

	if first, second := runOnce(), runOnce(); first != second {
		t.Fatalf("same seed must select the same variants:\n%q\nvs\n%q", first, second)
	}
}

func TestSendMessageFallbackOnProviderError(t *testing.T) {
	provider := &fakeProvider{configured: true, err: errors.New("rate limited")}
	chat, _ := newChatFixture(provider)

	first, err := chat.SendMessage(context.Background(), SendMessageRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("provider errors must not propagate: %v", err)
	}
	if first.Message == "" {
		t.Fatal("fallback reply must be non-empty")
	}
	if strings.Contains(first.Message, fallbackUnconfiguredNotice) {
		t.Fatal("configured-but-failing provider must not produce the configuration notice")
	}

	second, err := chat.SendMessage(context.Background(), SendMessageRequest{
		Message:        "Still there?",
		ConversationID: first.ConversationID,
	})
	if err != nil {
		t.Fatalf("second SendMessage failed: %v", err)
	}
	containsAny := false
	for _, g := range fallbackGreetings {
		if strings.Contains(second.Message, g) {
			containsAny = true
		}
	}
	if containsAny {
		t.Fatal("non-first turns must not include a greeting variant")
	}
}

func TestSendMessageOptionsPassThrough(t *testing.T) {
	provider := &fakeProvider{configured: true, reply: "ok"}
	chat, _ := newChatFixture(provider)

	_, err := chat.SendMessage(context.Background(), SendMessageRequest{
		Message:     "Hello",
		Temperature: 0.8,
		MaxTokens:   512,
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if provider.lastOpts.Temperature != 0.8 || provider.lastOpts.MaxTokens != 512 {
		t.Fatalf("options must pass through to the provider, got %+v", provider.lastOpts)
	}
}

func TestSendMessageInjectionOnceUnderConcurrency(t *testing.T) {
	provider := &fakeProvider{configured: true, reply: "ok"}
	chat, conversations := newChatFixture(provider)

	conversationID := conversations.CreateConversation().ID

	const senders = 16
	var wg sync.WaitGroup
	wg.Add(senders)
	for i := 0; i < senders; i++ {
		go func() {
			defer wg.Done()
			if _, err := chat.SendMessage(context.Background(), SendMessageRequest{
				Message:        "concurrent hello",
				ConversationID: conversationID,
			}); err != nil {
				t.Errorf("SendMessage failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := countRole(conversations, conversationID, domain.RoleSystem); got != 1 {
		t.Fatalf("persona must be injected exactly once despite concurrent sends, got %d", got)
	}
	if got := countRole(conversations, conversationID, domain.RoleUser); got != senders {
		t.Fatalf("expected %d user messages, got %d", senders, got)
	}
}

func TestGetConversationHistoryAbsent(t *testing.T) {
	chat, _ := newChatFixture(&fakeProvider{configured: true, reply: "ok"})

	if _, ok := chat.GetConversationHistory("absent-id"); ok {
		t.Fatal("absent conversation must report ok=false")
	}
}

func TestListConversations(t *testing.T) {
	provider := &fakeProvider{configured: true, reply: strings.Repeat("x", 150)}
	chat, _ := newChatFixture(provider)

	result, err := chat.SendMessage(context.Background(), SendMessageRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	summaries := chat.ListConversations()
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	summary := summaries[0]
	if summary.ID != result.ConversationID {
		t.Fatalf("summary id mismatch: %q vs %q", summary.ID, result.ConversationID)
	}
	if summary.MessageCount != 3 {
		t.Fatalf("expected messageCount=3 (system+user+assistant), got %d", summary.MessageCount)
	}
	if !summary.IsContextInjected {
		t.Fatal("summary must report context injected")
	}
	if want := strings.Repeat("x", 100) + "..."; summary.LastMessagePreview != want {
		t.Fatalf("preview must truncate at 100 runes, got %q", summary.LastMessagePreview)
	}
}

func TestComposeSystemMessagePersonaOnly(t *testing.T) {
	chat, _ := newChatFixture(&fakeProvider{configured: true, reply: "ok"})
	s := chat.(*chatService)

	msg := s.composeSystemMessage(CandidateContext{})
	if msg != elevatrPersona {
		t.Fatal("empty context must yield the bare persona")
	}

	withBoth := s.composeSystemMessage(CandidateContext{
		PersonalContext:     "likes chess",
		ProfessionalContext: "ships Go services",
	})
	if !strings.Contains(withBoth, "likes chess") || !strings.Contains(withBoth, "ships Go services") {
		t.Fatal("both context blocks must be embedded")
	}
	if !strings.HasPrefix(withBoth, elevatrPersona) {
		t.Fatal("persona must lead the system message")
	}
}
