package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"milgapo/scholarship-matcher/internal/models"
	"milgapo/scholarship-matcher/internal/repositories"
)

const (
	// DefaultThreshold is the minimum score a record needs to qualify.
	DefaultThreshold = 3
	// DefaultLimit caps the number of matches returned to a user.
	DefaultLimit = 15
	// minQualifiers is the smallest qualifying set that keeps the threshold
	// filter; below it the threshold is discarded so the user always sees a
	// result set.
	minQualifiers = 5
)

// MatcherService scores the catalog against a user's questionnaire and keeps
// the per-user match store in sync.
type MatcherService interface {
	ComputeMatches(ctx context.Context, profile models.MatchProfile) ([]models.ScoredMatch, error)
	RefreshMatches(ctx context.Context, userID uuid.UUID, profile models.MatchProfile) ([]models.ScoredMatch, error)
}

type matcherService struct {
	notion    NotionService
	scorer    *Scorer
	matchRepo repositories.UserScholarshipRepository
	threshold int
	limit     int

	mu        sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex
}

func NewMatcherService(
	notion NotionService,
	scorer *Scorer,
	matchRepo repositories.UserScholarshipRepository,
	threshold int,
	limit int,
) MatcherService {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	return &matcherService{
		notion:    notion,
		scorer:    scorer,
		matchRepo: matchRepo,
		threshold: threshold,
		limit:     limit,
		userLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// ComputeMatches implements MatcherService. Every catalog record is scored on
// its lower-cased blob, records are ranked best first (original catalog order
// breaks ties), and the threshold-with-fallback policy selects the result
// set: all records scoring >= threshold, unless fewer than minQualifiers do —
// then the threshold is discarded and the top limit records are returned
// regardless of score.
func (m *matcherService) ComputeMatches(ctx context.Context, profile models.MatchProfile) ([]models.ScoredMatch, error) {
	catalog, err := m.notion.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]models.ScoredMatch, 0, len(catalog))
	for _, record := range catalog {
		score, reasons := m.scorer.Score(profile, strings.ToLower(record.Blob))
		scored = append(scored, models.ScoredMatch{
			Key:     record.ID,
			Title:   record.Title,
			Link:    record.URL,
			Score:   score,
			Reasons: reasons,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	qualified := make([]models.ScoredMatch, 0, len(scored))
	for _, match := range scored {
		if match.Score >= m.threshold {
			qualified = append(qualified, match)
		}
	}
	if len(qualified) < minQualifiers {
		qualified = scored
	}
	if len(qualified) > m.limit {
		qualified = qualified[:m.limit]
	}

	return qualified, nil
}

// RefreshMatches implements MatcherService: compute and persist in one pass.
// Refreshes for the same user are serialized so two concurrent requests
// cannot interleave writes on the same scholarship keys.
func (m *matcherService) RefreshMatches(ctx context.Context, userID uuid.UUID, profile models.MatchProfile) ([]models.ScoredMatch, error) {
	lock := m.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	matches, err := m.ComputeMatches(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := m.matchRepo.UpsertMatches(userID, matches); err != nil {
		return nil, err
	}

	log.Printf("✅ Refreshed %d matches for user %s\n", len(matches), userID)
	return matches, nil
}

func (m *matcherService) lockFor(userID uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.userLocks[userID] = lock
	}
	return lock
}
