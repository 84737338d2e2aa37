package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/freelancedesk/internal/domain"
)

type fakeTrialRepo struct {
	mu     sync.Mutex
	trials []*domain.Trial
}

func (f *fakeTrialRepo) Create(ctx context.Context, trial *domain.Trial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trials = append(f.trials, trial)
	return nil
}

func (f *fakeTrialRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.trials {
		if t.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTrialRepo) ListByProject(ctx context.Context, userID, projectID string) ([]*domain.Trial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Trial, 0)
	for _, t := range f.trials {
		if t.UserID == userID && t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTrialRepo) List(ctx context.Context, userID string) ([]*domain.Trial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Trial, 0)
	for _, t := range f.trials {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func newTestTrialService(trials *fakeTrialRepo, projects *fakeProjectRepo) *trialService {
	return &trialService{
		trialRepo:   trials,
		projectRepo: projects,
		pricing:     domain.DefaultTrialPricing(),
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

func TestTrialRecord_FirstThreeAreFree(t *testing.T) {
	ctx := context.Background()
	projects := newFakeProjectRepo(testProject("p1", "u1"))
	trials := &fakeTrialRepo{}
	svc := newTestTrialService(trials, projects)

	for i := 0; i < 3; i++ {
		trial, err := svc.Record(ctx, "u1", "p1", time.Time{}, "")
		if err != nil {
			t.Fatalf("trial %d: %v", i+1, err)
		}
		if !trial.Cost.IsZero() {
			t.Fatalf("trial %d: expected zero cost, got %s", i+1, trial.Cost)
		}
		if trial.IsExtra {
			t.Fatalf("trial %d: expected isExtra=false", i+1)
		}
	}
}

func TestTrialRecord_FourthCostsExtra(t *testing.T) {
	ctx := context.Background()
	projects := newFakeProjectRepo(testProject("p1", "u1"))
	trials := &fakeTrialRepo{}
	svc := newTestTrialService(trials, projects)

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(ctx, "u1", "p1", time.Time{}, ""); err != nil {
			t.Fatalf("trial %d: %v", i+1, err)
		}
	}

	trial, err := svc.Record(ctx, "u1", "p1", time.Time{}, "fourth")
	if err != nil {
		t.Fatalf("fourth trial: %v", err)
	}
	if !trial.Cost.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected cost 10, got %s", trial.Cost)
	}
	if !trial.IsExtra {
		t.Fatal("expected isExtra=true")
	}
}

func TestTrialRecord_QuotaIsPerProject(t *testing.T) {
	ctx := context.Background()
	projects := newFakeProjectRepo(testProject("p1", "u1"), testProject("p2", "u1"))
	trials := &fakeTrialRepo{}
	svc := newTestTrialService(trials, projects)

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(ctx, "u1", "p1", time.Time{}, ""); err != nil {
			t.Fatalf("p1 trial %d: %v", i+1, err)
		}
	}

	// p1 is full but p2's quota is untouched
	trial, err := svc.Record(ctx, "u1", "p2", time.Time{}, "")
	if err != nil {
		t.Fatalf("p2 trial: %v", err)
	}
	if !trial.Cost.IsZero() || trial.IsExtra {
		t.Fatalf("expected free trial on fresh project, got cost=%s isExtra=%v", trial.Cost, trial.IsExtra)
	}
}

func TestTrialRecord_UnknownProject(t *testing.T) {
	ctx := context.Background()
	projects := newFakeProjectRepo(testProject("p1", "u1"))
	svc := newTestTrialService(&fakeTrialRepo{}, projects)

	if _, err := svc.Record(ctx, "u1", "missing", time.Time{}, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTrialRecord_ForeignProject(t *testing.T) {
	ctx := context.Background()
	projects := newFakeProjectRepo(testProject("p1", "u1"))
	svc := newTestTrialService(&fakeTrialRepo{}, projects)

	if _, err := svc.Record(ctx, "u2", "p1", time.Time{}, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign project, got %v", err)
	}
}

func TestTrialRecord_DateDefaultsToNow(t *testing.T) {
	ctx := context.Background()
	projects := newFakeProjectRepo(testProject("p1", "u1"))
	svc := newTestTrialService(&fakeTrialRepo{}, projects)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	trial, err := svc.Record(ctx, "u1", "p1", time.Time{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !trial.Date.Equal(fixed) {
		t.Fatalf("expected date %v, got %v", fixed, trial.Date)
	}
}

func TestTrialListByProject_UnknownProject(t *testing.T) {
	ctx := context.Background()
	projects := newFakeProjectRepo(testProject("p1", "u1"))
	svc := newTestTrialService(&fakeTrialRepo{}, projects)

	if _, err := svc.ListByProject(ctx, "u1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
