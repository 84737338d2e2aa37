package service

import (
	"context"
	"sync"
	"time"

	"github.com/andy/freelancedesk/internal/domain"
	"github.com/andy/freelancedesk/internal/repository"
)

// TimerService manages the per-user single-active-timer state machine.
// At most one of a user's projects has an open session at any instant:
// starting a timer force-closes whichever session was running, crediting
// its elapsed time to its own project before the new session opens.
type TimerService interface {
	// Start opens a session on the project at the current instant. Any
	// other running session for the user is closed and credited first. If
	// the target project itself was running, its open session is discarded
	// and restarted from now.
	Start(ctx context.Context, userID, projectID string) (*domain.Project, error)

	// Stop closes the project's open session. A non-nil committed duration
	// is credited instead of the wall-clock elapsed. Stopping a project
	// with no running session is a benign no-op: stopped is false and the
	// project is returned unchanged.
	Stop(ctx context.Context, userID, projectID string, committed *time.Duration) (*domain.Project, bool, error)

	// StopActive closes whichever session is running for the user, if any.
	StopActive(ctx context.Context, userID string) (*domain.Project, bool, error)

	// Active returns the user's running project, or nil if none.
	Active(ctx context.Context, userID string) (*domain.Project, error)
}

type timerService struct {
	projectRepo repository.ProjectRepository
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-user, lazily created, never evicted
}

// NewTimerService creates a new timer service
func NewTimerService(projectRepo repository.ProjectRepository) TimerService {
	return &timerService{
		projectRepo: projectRepo,
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

// userLock serializes timer mutations per user. The repository also runs
// each mutation in its own transaction; the lock keeps concurrent requests
// from interleaving their read-check-write sequences.
func (s *timerService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *timerService) Start(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.projectRepo.StartTimer(ctx, userID, projectID, s.now())
}

func (s *timerService) Stop(ctx context.Context, userID, projectID string, committed *time.Duration) (*domain.Project, bool, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.projectRepo.StopTimer(ctx, userID, projectID, s.now(), committed)
}

func (s *timerService) StopActive(ctx context.Context, userID string) (*domain.Project, bool, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.projectRepo.StopActiveTimer(ctx, userID, s.now())
}

func (s *timerService) Active(ctx context.Context, userID string) (*domain.Project, error) {
	return s.projectRepo.FindRunning(ctx, userID)
}
