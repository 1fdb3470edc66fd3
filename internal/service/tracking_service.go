package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/policy"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrDailyLogNotFound = errors.New("daily log not found")
	ErrMetricNotFound   = errors.New("metric not found")
)

// DailyLogInput carries the caller-supplied fields for a daily log.
type DailyLogInput struct {
	UserID               primitive.ObjectID
	PlanID               primitive.ObjectID
	Date                 time.Time
	ActualNutrition      string
	ActualExercise       string
	CompletionPercentage float64
	Notes                string
}

// MetricInput carries the caller-supplied fields for a metric.
type MetricInput struct {
	UserID     primitive.ObjectID
	Type       string
	Value      float64
	RecordedAt time.Time
}

// TrackingService covers daily logs and metrics. Neither resource carries
// a role restriction beyond authentication, and list scopes are
// unrestricted; both facts mirror the API surface this service replaces
// and are enforced through the policy engine like everything else.
type TrackingService interface {
	ListDailyLogs(ctx context.Context, principal *policy.Principal) ([]domain.DailyLog, error)
	GetDailyLog(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.DailyLog, error)
	CreateDailyLog(ctx context.Context, principal *policy.Principal, input DailyLogInput) (*domain.DailyLog, error)
	UpdateDailyLog(ctx context.Context, principal *policy.Principal, id primitive.ObjectID, input DailyLogInput) (*domain.DailyLog, error)
	DeleteDailyLog(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error

	ListMetrics(ctx context.Context, principal *policy.Principal) ([]domain.Metric, error)
	GetMetric(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.Metric, error)
	CreateMetric(ctx context.Context, principal *policy.Principal, input MetricInput) (*domain.Metric, error)
	DeleteMetric(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error
}

// --- Service Implementation ---

// trackingService implements the TrackingService interface.
type trackingService struct {
	logRepo    repository.DailyLogRepository
	metricRepo repository.MetricRepository
	engine     *policy.Engine
}

// NewTrackingService creates a new instance of trackingService.
func NewTrackingService(
	logRepo repository.DailyLogRepository,
	metricRepo repository.MetricRepository,
	engine *policy.Engine,
) TrackingService {
	return &trackingService{
		logRepo:    logRepo,
		metricRepo: metricRepo,
		engine:     engine,
	}
}

// === Daily Logs ===

func (s *trackingService) ListDailyLogs(ctx context.Context, principal *policy.Principal) ([]domain.DailyLog, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindDailyLog, policy.OpList)
	if err != nil {
		return nil, err
	}
	return s.logRepo.List(ctx, scope)
}

func (s *trackingService) GetDailyLog(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.DailyLog, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindDailyLog, policy.OpRetrieve)
	if err != nil {
		return nil, err
	}
	if scope.IsEmpty() {
		return nil, ErrDailyLogNotFound
	}

	log, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDailyLogNotFound
		}
		return nil, err
	}
	return log, nil
}

func (s *trackingService) CreateDailyLog(ctx context.Context, principal *policy.Principal, input DailyLogInput) (*domain.DailyLog, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindDailyLog, policy.OpCreate, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	log := &domain.DailyLog{
		UserID:               input.UserID,
		PlanID:               input.PlanID,
		Date:                 input.Date,
		ActualNutrition:      input.ActualNutrition,
		ActualExercise:       input.ActualExercise,
		CompletionPercentage: input.CompletionPercentage,
		Notes:                input.Notes,
	}

	logID, err := s.logRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = logID
	return log, nil
}

func (s *trackingService) UpdateDailyLog(ctx context.Context, principal *policy.Principal, id primitive.ObjectID, input DailyLogInput) (*domain.DailyLog, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindDailyLog, policy.OpUpdate, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	log, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDailyLogNotFound
		}
		return nil, err
	}

	log.Date = input.Date
	log.ActualNutrition = input.ActualNutrition
	log.ActualExercise = input.ActualExercise
	log.CompletionPercentage = input.CompletionPercentage
	log.Notes = input.Notes

	if err := s.logRepo.Update(ctx, log); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDailyLogNotFound
		}
		return nil, err
	}
	return log, nil
}

func (s *trackingService) DeleteDailyLog(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindDailyLog, policy.OpDestroy, nil)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return denied(decision.Reason)
	}

	err = s.logRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrDailyLogNotFound
	}
	return err
}

// === Metrics ===

func (s *trackingService) ListMetrics(ctx context.Context, principal *policy.Principal) ([]domain.Metric, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindMetric, policy.OpList)
	if err != nil {
		return nil, err
	}
	return s.metricRepo.List(ctx, scope)
}

func (s *trackingService) GetMetric(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.Metric, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindMetric, policy.OpRetrieve)
	if err != nil {
		return nil, err
	}
	if scope.IsEmpty() {
		return nil, ErrMetricNotFound
	}

	metric, err := s.metricRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMetricNotFound
		}
		return nil, err
	}
	return metric, nil
}

func (s *trackingService) CreateMetric(ctx context.Context, principal *policy.Principal, input MetricInput) (*domain.Metric, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindMetric, policy.OpCreate, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	metric := &domain.Metric{
		UserID:     input.UserID,
		Type:       input.Type,
		Value:      input.Value,
		RecordedAt: input.RecordedAt,
	}

	metricID, err := s.metricRepo.Create(ctx, metric)
	if err != nil {
		return nil, err
	}
	metric.ID = metricID
	return metric, nil
}

func (s *trackingService) DeleteMetric(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindMetric, policy.OpDestroy, nil)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return denied(decision.Reason)
	}

	err = s.metricRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMetricNotFound
	}
	return err
}
