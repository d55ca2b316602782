package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
	"github.com/jorgeferrarice/resume-ai-api/internal/logger"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// fakeProvider is a scriptable CompletionProvider.
type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	reply      string
	usage      *domain.Usage
	err        error

	calls    int
	lastMsgs []domain.ChatTurn
	lastOpts CompletionOptions
}

func (p *fakeProvider) ChatCompletion(_ context.Context, messages []domain.ChatTurn, opts CompletionOptions) (string, *domain.Usage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastMsgs = append([]domain.ChatTurn(nil), messages...)
	p.lastOpts = opts
	if !p.configured {
		return "", nil, ErrNotConfigured
	}
	if p.err != nil {
		return "", nil, p.err
	}
	return p.reply, p.usage, nil
}

func (p *fakeProvider) IsConfigured() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configured
}

// staticContextLoader returns fixed background text.
type staticContextLoader struct {
	personal     string
	professional string
}

func (l *staticContextLoader) Load() CandidateContext {
	return CandidateContext{
		PersonalContext:     l.personal,
		ProfessionalContext: l.professional,
	}
}
