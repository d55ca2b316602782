package domain

import "time"

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

type Resume struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Title      string       `json:"title"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Skills     []string     `json:"skills"`
	Education  []Education  `json:"education"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := *r
	out.Experience = append([]Experience(nil), r.Experience...)
	out.Skills = append([]string(nil), r.Skills...)
	out.Education = append([]Education(nil), r.Education...)
	return &out
}
