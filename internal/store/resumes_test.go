package store

import (
	"fmt"
	"testing"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
)

func TestResumeStoreSeed(t *testing.T) {
	s := NewResumeStore()

	resume, ok := s.Get(1)
	if !ok {
		t.Fatal("store must be seeded with resume id 1")
	}
	if resume.Name != "John Doe" {
		t.Fatalf("unexpected seed resume %+v", resume)
	}
}

func TestResumeStoreCreate(t *testing.T) {
	s := NewResumeStore()

	created := s.Create(&domain.Resume{Name: "Ada Lovelace", Email: "ada@example.com", Title: "Engineer"})
	if created.ID != 2 {
		t.Fatalf("expected sequential id 2, got %d", created.ID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("timestamps must be set on create")
	}

	next := s.Create(&domain.Resume{Name: "Grace Hopper", Email: "grace@example.com", Title: "Engineer"})
	if next.ID != 3 {
		t.Fatalf("ids must keep incrementing, got %d", next.ID)
	}
}

func TestResumeStoreSearch(t *testing.T) {
	s := NewResumeStore()
	s.Create(&domain.Resume{Name: "Ada Lovelace", Email: "ada@example.com", Title: "Backend Engineer", Skills: []string{"Go", "Postgres"}})

	cases := []struct {
		name   string
		search string
		want   int
	}{
		{name: "empty_matches_all", search: "", want: 2},
		{name: "by_name", search: "ada", want: 1},
		{name: "by_title", search: "backend", want: 1},
		{name: "by_skill", search: "postgres", want: 1},
		{name: "skill_case_insensitive", search: "REACT", want: 1},
		{name: "no_match", search: "haskell", want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, total := s.List(1, 10, tc.search)
			if total != tc.want {
				t.Fatalf("search %q: expected %d matches, got %d", tc.search, tc.want, total)
			}
		})
	}
}

func TestResumeStorePagination(t *testing.T) {
	s := NewResumeStore()
	for i := 0; i < 11; i++ {
		s.Create(&domain.Resume{Name: fmt.Sprintf("Person %d", i), Email: "p@example.com", Title: "Engineer"})
	}

	page1, total := s.List(1, 5, "")
	if total != 12 || len(page1) != 5 {
		t.Fatalf("page 1: expected 5 of 12, got %d of %d", len(page1), total)
	}
	page3, _ := s.List(3, 5, "")
	if len(page3) != 2 {
		t.Fatalf("page 3: expected 2 leftovers, got %d", len(page3))
	}
	pageBeyond, _ := s.List(9, 5, "")
	if len(pageBeyond) != 0 {
		t.Fatalf("out of range page must be empty, got %d", len(pageBeyond))
	}
}

func TestResumeStoreUpdate(t *testing.T) {
	s := NewResumeStore()

	updated, ok := s.Update(1, func(r *domain.Resume) {
		r.Title = "Principal Engineer"
		r.ID = 999 // must be ignored
	})
	if !ok {
		t.Fatal("update of existing resume must succeed")
	}
	if updated.ID != 1 {
		t.Fatalf("id must be immutable, got %d", updated.ID)
	}
	if updated.Title != "Principal Engineer" {
		t.Fatalf("title not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Fatal("UpdatedAt must be refreshed")
	}

	if _, ok := s.Update(42, func(r *domain.Resume) {}); ok {
		t.Fatal("update of absent resume must fail")
	}
}

func TestResumeStoreDelete(t *testing.T) {
	s := NewResumeStore()

	if !s.Delete(1) {
		t.Fatal("delete of seeded resume must succeed")
	}
	if s.Delete(1) {
		t.Fatal("second delete must report false")
	}
	if _, total := s.List(1, 10, ""); total != 0 {
		t.Fatalf("store must be empty after delete, got %d", total)
	}
}
