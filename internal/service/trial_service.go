package service

import (
	"context"
	"sync"
	"time"

	"github.com/andy/freelancedesk/internal/domain"
	"github.com/andy/freelancedesk/internal/repository"
)

// TrialService records trial sessions against projects and prices them by
// the tiering policy: the first FreeSessions trials on a project are free,
// every one after that costs ExtraCost and is flagged as extra. Cost and
// flag are fixed at creation and never revised.
type TrialService interface {
	// Record appends a trial to the project's ledger, pricing it from the
	// number of trials the project already has.
	Record(ctx context.Context, userID, projectID string, date time.Time, notes string) (*domain.Trial, error)

	// ListByProject returns a project's trials, newest first.
	ListByProject(ctx context.Context, userID, projectID string) ([]*domain.Trial, error)

	// List returns all of the user's trials, newest first.
	List(ctx context.Context, userID string) ([]*domain.Trial, error)
}

type trialService struct {
	trialRepo   repository.TrialRepository
	projectRepo repository.ProjectRepository
	pricing     domain.TrialPricing
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-project; count-then-insert must not interleave
}

// NewTrialService creates a new trial service
func NewTrialService(
	trialRepo repository.TrialRepository,
	projectRepo repository.ProjectRepository,
	pricing domain.TrialPricing,
) TrialService {
	return &trialService{
		trialRepo:   trialRepo,
		projectRepo: projectRepo,
		pricing:     pricing,
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (s *trialService) projectLock(projectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[projectID] = lock
	}
	return lock
}

func (s *trialService) Record(ctx context.Context, userID, projectID string, date time.Time, notes string) (*domain.Trial, error) {
	// Ownership check; returns domain.ErrNotFound for missing or foreign projects
	if _, err := s.projectRepo.GetByID(ctx, userID, projectID); err != nil {
		return nil, err
	}

	lock := s.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	count, err := s.trialRepo.CountByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	cost, isExtra := s.pricing.Assess(count)

	now := s.now()
	if date.IsZero() {
		date = now
	}

	trial := &domain.Trial{
		UserID:    userID,
		ProjectID: projectID,
		Date:      date,
		Notes:     notes,
		Cost:      cost,
		IsExtra:   isExtra,
		CreatedAt: now,
	}

	if err := s.trialRepo.Create(ctx, trial); err != nil {
		return nil, err
	}

	return trial, nil
}

func (s *trialService) ListByProject(ctx context.Context, userID, projectID string) ([]*domain.Trial, error) {
	if _, err := s.projectRepo.GetByID(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.trialRepo.ListByProject(ctx, userID, projectID)
}

func (s *trialService) List(ctx context.Context, userID string) ([]*domain.Trial, error) {
	return s.trialRepo.List(ctx, userID)
}
