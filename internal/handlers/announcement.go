package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"joyland-backend/internal/models"
	"joyland-backend/internal/repository"
	"joyland-backend/internal/services"
)

const announcementTitleMax = 140

type AnnouncementHandler struct {
	repo             *repository.AnnouncementRepo
	educationService *services.EducationService
}

func NewAnnouncementHandler(repo *repository.AnnouncementRepo, educationService *services.EducationService) *AnnouncementHandler {
	return &AnnouncementHandler{repo: repo, educationService: educationService}
}

// Active lists the announcements the landing page shows: active, priority
// order, top five.
func (h *AnnouncementHandler) Active(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.repo.ActiveForLanding(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load announcements", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"announcements": announcements})
}

func (h *AnnouncementHandler) Archive(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.repo.Archive(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load archive", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"announcements": announcements})
}

func (h *AnnouncementHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.repo.ListAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load announcements", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"announcements": announcements})
}

func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.AnnouncementInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fields := validateAnnouncement(input); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	a := &models.Announcement{
		Title:    strings.TrimSpace(input.Title),
		Message:  input.Message,
		IsActive: true,
	}
	if input.IsActive != nil {
		a.IsActive = *input.IsActive
	}
	if input.Priority != nil {
		a.Priority = *input.Priority
	}

	if err := h.repo.Create(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create announcement", r))
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid announcement ID", r))
		return
	}

	a, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Announcement not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load announcement", r))
		return
	}

	var input models.AnnouncementInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if input.Title != "" {
		if len(input.Title) > announcementTitleMax {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"title": "Title must be 140 characters or fewer"}, r))
			return
		}
		a.Title = strings.TrimSpace(input.Title)
	}
	if input.Message != "" {
		a.Message = input.Message
	}
	if input.IsActive != nil {
		a.IsActive = *input.IsActive
	}
	if input.Priority != nil {
		a.Priority = *input.Priority
	}

	if err := h.repo.Update(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update announcement", r))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid announcement ID", r))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete announcement", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Announcement deleted"})
}

// Draft asks the AI for announcement copy. Nothing is persisted; the admin
// edits and submits the draft through Create.
func (h *AnnouncementHandler) Draft(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"topic": "Topic is required"}, r))
		return
	}
	audience := r.URL.Query().Get("audience")
	var keyPoints []string
	if raw := r.URL.Query().Get("key_points"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				keyPoints = append(keyPoints, p)
			}
		}
	}

	draft, err := h.educationService.DraftAnnouncement(r.Context(), topic, audience, keyPoints)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"draft": draft})
}

func validateAnnouncement(input models.AnnouncementInput) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "Title is required"
	} else if len(input.Title) > announcementTitleMax {
		fields["title"] = "Title must be 140 characters or fewer"
	}
	if strings.TrimSpace(input.Message) == "" {
		fields["message"] = "Message is required"
	}
	return fields
}
