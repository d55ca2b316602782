package services

import (
	"os"
	"path/filepath"

	"github.com/jorgeferrarice/resume-ai-api/internal/logger"
)

// CandidateContext is the background text injected alongside the persona.
// Either field may be empty.
type CandidateContext struct {
	PersonalContext     string
	ProfessionalContext string
}

// ContextLoader reads the candidate background markdown files. Load never
// fails: unreadable files degrade to empty strings with a warning.
type ContextLoader interface {
	Load() CandidateContext
}

type fileContextLoader struct {
	log *logger.Logger
	dir string
}

func NewFileContextLoader(log *logger.Logger, dir string) ContextLoader {
	return &fileContextLoader{
		log: log.With("service", "ContextLoader"),
		dir: dir,
	}
}

func (l *fileContextLoader) Load() CandidateContext {
	return CandidateContext{
		PersonalContext:     l.readFile("personal-context.md"),
		ProfessionalContext: l.readFile("professional-context.md"),
	}
}

func (l *fileContextLoader) readFile(name string) string {
	path := filepath.Join(l.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		l.log.Warn("Could not load context file", "path", path, "error", err)
		return ""
	}
	return string(raw)
}
