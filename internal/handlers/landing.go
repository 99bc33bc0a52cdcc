package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"joyland-backend/internal/models"
	"joyland-backend/internal/repository"
	"joyland-backend/internal/services"
)

const (
	landingAnnouncementsKey = "landing:announcements"
	landingEventsKey        = "landing:events"
	landingCacheTTL         = 30 * time.Second
	upcomingEventsLimit     = 3
	landingMessageLimit     = 200
)

// LandingHandler assembles the public landing page payload. Announcements
// and events are cached in redis for a short window since the landing page
// takes most of the anonymous traffic.
type LandingHandler struct {
	announcementRepo *repository.AnnouncementRepo
	eventRepo        *repository.EventRepo
	presenceService  *services.PresenceService
	redis            *redis.Client
}

func NewLandingHandler(
	announcementRepo *repository.AnnouncementRepo,
	eventRepo *repository.EventRepo,
	presenceService *services.PresenceService,
	rdb *redis.Client,
) *LandingHandler {
	return &LandingHandler{
		announcementRepo: announcementRepo,
		eventRepo:        eventRepo,
		presenceService:  presenceService,
		redis:            rdb,
	}
}

func (h *LandingHandler) Landing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var announcements []models.Announcement
	if !h.fromCache(ctx, landingAnnouncementsKey, &announcements) {
		var err error
		announcements, err = h.announcementRepo.ActiveForLanding(ctx)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load landing page", r))
			return
		}
		h.toCache(ctx, landingAnnouncementsKey, announcements)
	}

	var events []models.Event
	if !h.fromCache(ctx, landingEventsKey, &events) {
		var err error
		events, err = h.eventRepo.Upcoming(ctx, upcomingEventsLimit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load landing page", r))
			return
		}
		h.toCache(ctx, landingEventsKey, events)
	}

	// The landing list carries a teaser, not the full text; the detail view
	// fetches the whole announcement.
	for i := range announcements {
		announcements[i].Message = announcements[i].ShortMessage(landingMessageLimit)
	}

	// Unread counts are cheap and audience-dependent, so they skip the cache.
	unread, err := h.announcementRepo.UnreadCounts(ctx)
	if err != nil {
		log.Printf("landing: failed to load unread counts: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"announcements": announcements,
		"events":        events,
		"unread":        unread,
		"presence":      h.presenceService.Stats(ctx),
	})
}

func (h *LandingHandler) fromCache(ctx context.Context, key string, dest interface{}) bool {
	raw, err := h.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (h *LandingHandler) toCache(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, raw, landingCacheTTL).Err(); err != nil {
		log.Printf("landing: failed to cache %s: %v", key, err)
	}
}

// PresenceHandler exposes current visitor stats.

type PresenceHandler struct {
	presenceService *services.PresenceService
}

func NewPresenceHandler(presenceService *services.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

func (h *PresenceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presenceService.Stats(r.Context()))
}
