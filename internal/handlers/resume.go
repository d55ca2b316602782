package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
	"github.com/jorgeferrarice/resume-ai-api/internal/services"
)

type ResumeHandler struct {
	resumeService services.ResumeService
}

func NewResumeHandler(resumeService services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

// GetAllResumes handles GET /api/resume with page/limit/search query params.
func (h *ResumeHandler) GetAllResumes(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	search := c.Query("search")

	resumes, total := h.resumeService.List(page, limit, search)
	totalPages := (total + limit - 1) / limit

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    resumes,
		Pagination: &Pagination{
			Current:    page,
			Total:      totalPages,
			Count:      len(resumes),
			TotalItems: total,
		},
	})
}

// GetResumeByID handles GET /api/resume/:id.
func (h *ResumeHandler) GetResumeByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	resume, err := h.resumeService.Get(id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "Resume not found")
		return
	}
	RespondOK(c, resume, "")
}

// CreateResume handles POST /api/resume.
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var body domain.Resume
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Name == "" || body.Email == "" || body.Title == "" {
		RespondError(c, http.StatusBadRequest, "Name, email, and title are required")
		return
	}

	created := h.resumeService.Create(&body)
	RespondCreated(c, created, "Resume created successfully")
}

// UpdateResume handles PUT /api/resume/:id.
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var body domain.Resume
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.resumeService.Update(id, &body)
	if err != nil {
		RespondError(c, http.StatusNotFound, "Resume not found")
		return
	}
	RespondOK(c, updated, "Resume updated successfully")
}

// DeleteResume handles DELETE /api/resume/:id.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.resumeService.Delete(id); err != nil {
		RespondError(c, http.StatusNotFound, "Resume not found")
		return
	}
	RespondOK(c, nil, "Resume deleted successfully")
}

type analyzeRequestBody struct {
	ResumeContent   string `json:"resumeContent"`
	IndustryFocus   string `json:"industryFocus"`
	IncludeKeywords bool   `json:"includeKeywords"`
}

// AnalyzeResume handles POST /api/resume/analyze.
func (h *ResumeHandler) AnalyzeResume(c *gin.Context) {
	var body analyzeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.ResumeContent) == "" {
		RespondError(c, http.StatusBadRequest, "Resume content is required")
		return
	}

	result, err := h.resumeService.Analyze(c.Request.Context(), services.AnalyzeRequest{
		ResumeContent:   body.ResumeContent,
		IndustryFocus:   body.IndustryFocus,
		IncludeKeywords: body.IncludeKeywords,
	})
	if err != nil {
		h.respondAIError(c, err, "Failed to analyze resume")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"analysis": result.Text},
		Message: "Resume analysis completed",
		Usage:   result.Usage,
	})
}

type enhanceRequestBody struct {
	ResumeContent string   `json:"resumeContent"`
	TargetRole    string   `json:"targetRole"`
	Tone          string   `json:"tone"`
	Improvements  []string `json:"improvements"`
}

// EnhanceResume handles POST /api/resume/enhance.
func (h *ResumeHandler) EnhanceResume(c *gin.Context) {
	var body enhanceRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.ResumeContent) == "" {
		RespondError(c, http.StatusBadRequest, "Resume content is required")
		return
	}

	result, err := h.resumeService.Enhance(c.Request.Context(), services.EnhanceRequest{
		ResumeContent: body.ResumeContent,
		TargetRole:    body.TargetRole,
		Tone:          body.Tone,
		Improvements:  body.Improvements,
	})
	if err != nil {
		h.respondAIError(c, err, "Failed to enhance resume")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"enhanced": result.Text},
		Message: "Resume enhancement completed",
		Usage:   result.Usage,
	})
}

type matchJobRequestBody struct {
	ResumeContent  string   `json:"resumeContent"`
	JobDescription string   `json:"jobDescription"`
	FocusAreas     []string `json:"focusAreas"`
}

// MatchJobDescription handles POST /api/resume/match-job.
func (h *ResumeHandler) MatchJobDescription(c *gin.Context) {
	var body matchJobRequestBody
	if err := c.ShouldBindJSON(&body); err != nil ||
		strings.TrimSpace(body.ResumeContent) == "" || strings.TrimSpace(body.JobDescription) == "" {
		RespondError(c, http.StatusBadRequest, "Both resume content and job description are required")
		return
	}

	result, err := h.resumeService.MatchJob(c.Request.Context(), services.MatchJobRequest{
		ResumeContent:  body.ResumeContent,
		JobDescription: body.JobDescription,
		FocusAreas:     body.FocusAreas,
	})
	if err != nil {
		h.respondAIError(c, err, "Failed to match resume to job description")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"match": result.Text},
		Message: "Job matching analysis completed",
		Usage:   result.Usage,
	})
}

type suggestionsRequestBody struct {
	ResumeContent string   `json:"resumeContent"`
	Criteria      string   `json:"criteria"`
	Temperature   *float64 `json:"temperature"`
	MaxTokens     *int     `json:"maxTokens"`
}

// GetCustomSuggestions handles POST /api/resume/suggestions.
func (h *ResumeHandler) GetCustomSuggestions(c *gin.Context) {
	var body suggestionsRequestBody
	if err := c.ShouldBindJSON(&body); err != nil ||
		strings.TrimSpace(body.ResumeContent) == "" || strings.TrimSpace(body.Criteria) == "" {
		RespondError(c, http.StatusBadRequest, "Resume content and criteria are required")
		return
	}

	req := services.SuggestionsRequest{
		ResumeContent: body.ResumeContent,
		Criteria:      body.Criteria,
	}
	if body.Temperature != nil {
		req.Temperature = *body.Temperature
	}
	if body.MaxTokens != nil {
		req.MaxTokens = *body.MaxTokens
	}

	result, err := h.resumeService.CustomSuggestions(c.Request.Context(), req)
	if err != nil {
		h.respondAIError(c, err, "Failed to generate suggestions")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"suggestions": result.Text, "criteria": body.Criteria},
		Message: "Custom suggestions generated",
		Usage:   result.Usage,
	})
}

func (h *ResumeHandler) respondAIError(c *gin.Context, err error, fallbackMsg string) {
	if errors.Is(err, services.ErrNotConfigured) {
		RespondError(c, http.StatusServiceUnavailable, "AI provider is not configured")
		return
	}
	RespondError(c, http.StatusInternalServerError, fallbackMsg)
}

func (h *ResumeHandler) parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		RespondError(c, http.StatusBadRequest, "Valid numeric id is required")
		return 0, false
	}
	return id, true
}
