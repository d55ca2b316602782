package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
	"github.com/jorgeferrarice/resume-ai-api/internal/logger"
	"github.com/jorgeferrarice/resume-ai-api/internal/store"
)

var ErrResumeNotFound = errors.New("resume not found")

// AIResult is the relayed output of a resume AI pass-through call.
type AIResult struct {
	Text  string        `json:"suggestions"`
	Usage *domain.Usage `json:"-"`
}

type AnalyzeRequest struct {
	ResumeContent   string
	IndustryFocus   string
	IncludeKeywords bool
}

type EnhanceRequest struct {
	ResumeContent string
	TargetRole    string
	Tone          string
	Improvements  []string
}

type MatchJobRequest struct {
	ResumeContent  string
	JobDescription string
	FocusAreas     []string
}

type SuggestionsRequest struct {
	ResumeContent string
	Criteria      string
	Temperature   float64
	MaxTokens     int
}

// ResumeService owns resume CRUD plus the thin AI pass-throughs. The AI
// calls supply prompt text and relay provider output with no independent
// logic; unlike chat they do not fall back on provider failure.
type ResumeService interface {
	List(page, limit int, search string) ([]*domain.Resume, int)
	Get(id int) (*domain.Resume, error)
	Create(resume *domain.Resume) *domain.Resume
	Update(id int, patch *domain.Resume) (*domain.Resume, error)
	Delete(id int) error

	Analyze(ctx context.Context, req AnalyzeRequest) (*AIResult, error)
	Enhance(ctx context.Context, req EnhanceRequest) (*AIResult, error)
	MatchJob(ctx context.Context, req MatchJobRequest) (*AIResult, error)
	CustomSuggestions(ctx context.Context, req SuggestionsRequest) (*AIResult, error)
}

type resumeService struct {
	log      *logger.Logger
	store    store.ResumeStore
	provider CompletionProvider
}

func NewResumeService(log *logger.Logger, resumeStore store.ResumeStore, provider CompletionProvider) ResumeService {
	return &resumeService{
		log:      log.With("service", "ResumeService"),
		store:    resumeStore,
		provider: provider,
	}
}

func (rs *resumeService) List(page, limit int, search string) ([]*domain.Resume, int) {
	return rs.store.List(page, limit, search)
}

func (rs *resumeService) Get(id int) (*domain.Resume, error) {
	resume, ok := rs.store.Get(id)
	if !ok {
		return nil, ErrResumeNotFound
	}
	return resume, nil
}

func (rs *resumeService) Create(resume *domain.Resume) *domain.Resume {
	created := rs.store.Create(resume)
	rs.log.Info("Resume created", "resume_id", created.ID)
	return created
}

// Update overlays non-zero patch fields onto the stored resume.
func (rs *resumeService) Update(id int, patch *domain.Resume) (*domain.Resume, error) {
	updated, ok := rs.store.Update(id, func(r *domain.Resume) {
		if patch.Name != "" {
			r.Name = patch.Name
		}
		if patch.Email != "" {
			r.Email = patch.Email
		}
		if patch.Title != "" {
			r.Title = patch.Title
		}
		if patch.Summary != "" {
			r.Summary = patch.Summary
		}
		if patch.Experience != nil {
			r.Experience = patch.Experience
		}
		if patch.Skills != nil {
			r.Skills = patch.Skills
		}
		if patch.Education != nil {
			r.Education = patch.Education
		}
	})
	if !ok {
		return nil, ErrResumeNotFound
	}
	return updated, nil
}

func (rs *resumeService) Delete(id int) error {
	if !rs.store.Delete(id) {
		return ErrResumeNotFound
	}
	rs.log.Info("Resume deleted", "resume_id", id)
	return nil
}

func (rs *resumeService) Analyze(ctx context.Context, req AnalyzeRequest) (*AIResult, error) {
	prompt := fmt.Sprintf("Resume:\n%s\n\nAnalyze this resume for strengths, weaknesses, and overall impression.", req.ResumeContent)
	if req.IndustryFocus != "" {
		prompt += fmt.Sprintf(" Focus on the %s industry.", req.IndustryFocus)
	}
	if req.IncludeKeywords {
		prompt += " Include a list of missing keywords relevant to applicant tracking systems."
	}
	return rs.complete(ctx, "You are an expert resume reviewer. Provide a structured, honest analysis.", prompt, CompletionOptions{})
}

func (rs *resumeService) Enhance(ctx context.Context, req EnhanceRequest) (*AIResult, error) {
	prompt := fmt.Sprintf("Resume:\n%s\n\nRewrite and enhance this resume.", req.ResumeContent)
	if req.TargetRole != "" {
		prompt += fmt.Sprintf(" Target role: %s.", req.TargetRole)
	}
	if req.Tone != "" {
		prompt += fmt.Sprintf(" Use a %s tone.", req.Tone)
	}
	if len(req.Improvements) > 0 {
		prompt += fmt.Sprintf(" Prioritize these improvements: %s.", strings.Join(req.Improvements, ", "))
	}
	return rs.complete(ctx, "You are an expert resume writer. Improve the resume without inventing experience.", prompt, CompletionOptions{})
}

func (rs *resumeService) MatchJob(ctx context.Context, req MatchJobRequest) (*AIResult, error) {
	prompt := fmt.Sprintf("Resume:\n%s\n\nJob Description:\n%s\n\nAssess how well this resume matches the job description, with a match score and gap analysis.", req.ResumeContent, req.JobDescription)
	if len(req.FocusAreas) > 0 {
		prompt += fmt.Sprintf(" Focus on: %s.", strings.Join(req.FocusAreas, ", "))
	}
	return rs.complete(ctx, "You are an expert technical recruiter. Evaluate candidate-to-role fit.", prompt, CompletionOptions{})
}

func (rs *resumeService) CustomSuggestions(ctx context.Context, req SuggestionsRequest) (*AIResult, error) {
	prompt := fmt.Sprintf("Resume:\n%s\n\nCriteria: %s\n\nProvide specific suggestions.", req.ResumeContent, req.Criteria)
	return rs.complete(ctx, "You are an expert career advisor. Provide specific, actionable suggestions based on the given criteria.", prompt, CompletionOptions{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
}

func (rs *resumeService) complete(ctx context.Context, system, user string, opts CompletionOptions) (*AIResult, error) {
	text, usage, err := rs.provider.ChatCompletion(ctx, []domain.ChatTurn{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: user},
	}, opts)
	if err != nil {
		return nil, err
	}
	return &AIResult{Text: text, Usage: usage}, nil
}
