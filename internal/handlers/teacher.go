package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"joyland-backend/internal/middleware"
	"joyland-backend/internal/models"
	"joyland-backend/internal/services"
)

// TeacherHandler serves the AI planning tools. Required fields are checked
// before any model call so a bad request never spends tokens.
type TeacherHandler struct {
	educationService *services.EducationService
}

func NewTeacherHandler(educationService *services.EducationService) *TeacherHandler {
	return &TeacherHandler{educationService: educationService}
}

func (h *TeacherHandler) TermPlan(w http.ResponseWriter, r *http.Request) {
	var req models.TermPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Subject) == "" {
		fields["subject"] = "Subject is required"
	}
	if strings.TrimSpace(req.GradeLevel) == "" {
		fields["grade_level"] = "Grade level is required"
	}
	if req.Term < 1 || req.Term > 3 {
		fields["term"] = "Term must be 1, 2 or 3"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	teacherID := middleware.GetUserID(r.Context())
	objectives, cached, err := h.educationService.GenerateTermPlan(r.Context(), teacherID, req.Subject, req.GradeLevel, req.Term, req.PriorObjectives)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"objectives": objectives,
		"cached":     cached,
	})
}

func (h *TeacherHandler) Assessment(w http.ResponseWriter, r *http.Request) {
	var req models.AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Objective) == "" {
		fields["objective"] = "Objective is required"
	}
	if strings.TrimSpace(req.Type) == "" {
		fields["type"] = "Assessment type is required"
	}
	if strings.TrimSpace(req.Level) == "" {
		fields["level"] = "Level is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	teacherID := middleware.GetUserID(r.Context())
	items, cached, err := h.educationService.GenerateAssessment(r.Context(), teacherID, req.Objective, req.Type, req.Level)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assessment_items": items,
		"cached":           cached,
	})
}

func (h *TeacherHandler) Progress(w http.ResponseWriter, r *http.Request) {
	var req models.ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.StudentID) == "" {
		fields["student_id"] = "Student ID is required"
	}
	if strings.TrimSpace(req.Subject) == "" {
		fields["subject"] = "Subject is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	progress, err := h.educationService.AnalyzeStudentProgress(r.Context(), req.StudentID, req.Subject)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mastered":        progress.ObjectivesMastered,
		"growth_areas":    progress.AreasForGrowth,
		"recommendations": progress.Recommendations,
	})
}

func (h *TeacherHandler) Activities(w http.ResponseWriter, r *http.Request) {
	var req models.ActivitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Objective) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"objective": "Objective is required"}, r))
		return
	}

	activities, err := h.educationService.GenerateDifferentiatedActivities(r.Context(), req.Objective, req.ClassProfile)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"activities": activities})
}
