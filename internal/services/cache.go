package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"joyland-backend/internal/models"
)

// AICache stores structured planning artifacts keyed by the semantic request
// that produced them: operation, requesting teacher, and the distinguishing
// parameters. There is no eviction beyond the TTL and no size bound; entries
// are small and scoped per teacher and request shape. Concurrent identical
// requests may both miss and both compute — the duplicate work is accepted.
type AICache struct {
	store   kvStore
	ttl     time.Duration
	enabled bool
}

func NewAICache(client *redis.Client, ttl time.Duration, enabled bool) *AICache {
	return &AICache{store: redisKV{client: client}, ttl: ttl, enabled: enabled}
}

func (c *AICache) GetTermPlan(ctx context.Context, teacherID uuid.UUID, subject, grade string, term int) ([]models.LearningObjective, bool) {
	var objectives []models.LearningObjective
	if !c.get(ctx, termPlanKey(teacherID, subject, grade, term), &objectives) {
		return nil, false
	}
	return objectives, true
}

func (c *AICache) SetTermPlan(ctx context.Context, teacherID uuid.UUID, subject, grade string, term int, objectives []models.LearningObjective) {
	c.set(ctx, termPlanKey(teacherID, subject, grade, term), objectives)
}

func (c *AICache) GetAssessment(ctx context.Context, teacherID uuid.UUID, objective, assessmentType, level string) ([]models.AssessmentItem, bool) {
	var items []models.AssessmentItem
	if !c.get(ctx, assessmentKey(teacherID, objective, assessmentType, level), &items) {
		return nil, false
	}
	return items, true
}

func (c *AICache) SetAssessment(ctx context.Context, teacherID uuid.UUID, objective, assessmentType, level string, items []models.AssessmentItem) {
	c.set(ctx, assessmentKey(teacherID, objective, assessmentType, level), items)
}

// get reports whether the key was present and decoded; a miss, a disabled
// cache, and a storage failure all look the same to the caller.
func (c *AICache) get(ctx context.Context, key string, dest any) bool {
	if !c.enabled {
		return false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, errCacheMiss) {
			log.Printf("ai cache: get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("ai cache: decode %s: %v", key, err)
		return false
	}
	return true
}

// set overwrites unconditionally; failures are logged and swallowed since a
// missed cache write only costs a recomputation later.
func (c *AICache) set(ctx context.Context, key string, value any) {
	if !c.enabled {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("ai cache: encode %s: %v", key, err)
		return
	}
	if err := c.store.Set(ctx, key, string(raw), c.ttl); err != nil {
		log.Printf("ai cache: set %s: %v", key, err)
	}
}

func termPlanKey(teacherID uuid.UUID, subject, grade string, term int) string {
	return fmt.Sprintf("ai:term_plan:%s:%s:%s:%d", teacherID, subject, grade, term)
}

func assessmentKey(teacherID uuid.UUID, objective, assessmentType, level string) string {
	return fmt.Sprintf("ai:assessment:%s:%s:%s:%s", teacherID, contentHash(objective), assessmentType, level)
}

// contentHash is a stable 128-bit FNV-1a digest of the objective text. It is
// collision-unlikely for this closed input space but not adversarial-safe,
// which is intentional: a cryptographic hash buys nothing here.
func contentHash(s string) string {
	h := fnv.New128a()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

var errCacheMiss = errors.New("cache miss")

// kvStore is the minimal slice of redis the cache needs; tests substitute an
// in-memory map.
type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisKV struct {
	client *redis.Client
}

func (r redisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errCacheMiss
	}
	return val, err
}

func (r redisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
