package store

import (
	"strings"
	"sync"
	"time"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
)

// ResumeStore is in-memory keyed storage for resumes with sequential
// integer ids, seeded with one sample record.
type ResumeStore interface {
	List(page, limit int, search string) ([]*domain.Resume, int)
	Get(id int) (*domain.Resume, bool)
	Create(resume *domain.Resume) *domain.Resume
	Update(id int, apply func(*domain.Resume)) (*domain.Resume, bool)
	Delete(id int) bool
}

type resumeStore struct {
	mu      sync.RWMutex
	resumes []*domain.Resume
	nextID  int
}

func NewResumeStore() ResumeStore {
	now := time.Now()
	seed := &domain.Resume{
		ID:      1,
		Name:    "John Doe",
		Email:   "john@example.com",
		Title:   "Software Engineer",
		Summary: "Experienced software engineer with 5+ years in web development",
		Experience: []domain.Experience{
			{
				Company:     "Tech Corp",
				Position:    "Senior Developer",
				Duration:    "2020-2023",
				Description: "Led development of web applications using React and Node.js",
			},
		},
		Skills: []string{"JavaScript", "React", "Node.js", "Python"},
		Education: []domain.Education{
			{
				Institution: "University of Technology",
				Degree:      "Bachelor of Computer Science",
				Year:        "2018",
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return &resumeStore{
		resumes: []*domain.Resume{seed},
		nextID:  2,
	}
}

// List returns the requested page of resumes matching search (substring of
// name, title, or any skill, case insensitive) plus the total match count.
func (s *resumeStore) List(page, limit int, search string) ([]*domain.Resume, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	matched := make([]*domain.Resume, 0, len(s.resumes))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, r := range s.resumes {
		if needle == "" || matchesResume(r, needle) {
			matched = append(matched, r)
		}
	}

	start := (page - 1) * limit
	if start >= len(matched) {
		return []*domain.Resume{}, len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]*domain.Resume, 0, end-start)
	for _, r := range matched[start:end] {
		out = append(out, r.Clone())
	}
	return out, len(matched)
}

func matchesResume(r *domain.Resume, needle string) bool {
	if strings.Contains(strings.ToLower(r.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), needle) {
		return true
	}
	for _, skill := range r.Skills {
		if strings.Contains(strings.ToLower(skill), needle) {
			return true
		}
	}
	return false
}

func (s *resumeStore) Get(id int) (*domain.Resume, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.resumes {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return nil, false
}

func (s *resumeStore) Create(resume *domain.Resume) *domain.Resume {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	stored := resume.Clone()
	stored.ID = s.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.nextID++
	s.resumes = append(s.resumes, stored)
	return stored.Clone()
}

// Update applies a mutation to the stored resume. The id and CreatedAt are
// preserved; UpdatedAt is refreshed.
func (s *resumeStore) Update(id int, apply func(*domain.Resume)) (*domain.Resume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.resumes {
		if r.ID != id {
			continue
		}
		apply(r)
		r.ID = id
		r.UpdatedAt = time.Now()
		return r.Clone(), true
	}
	return nil, false
}

func (s *resumeStore) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.resumes {
		if r.ID == id {
			s.resumes = append(s.resumes[:i], s.resumes[i+1:]...)
			return true
		}
	}
	return false
}
