package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-saas/internal/events"
	"go-saas/internal/messaging/kafka"
	"go-saas/internal/registry"
	"go-saas/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	usageCacheKeyPrefix = "usage:company:"
	usageCacheTTL       = 30 * time.Second
)

func usageCacheKey(companyID string) string {
	return usageCacheKeyPrefix + companyID
}

// Scheduler requests an aggregate refresh without waiting for it. Writers
// that change user counts or file bytes call this after commit.
type Scheduler interface {
	Schedule(ctx context.Context, companyID, reason string)
}

//go:generate mockgen -source=aggregator_service.go -destination=mock/aggregator_service_mock.go -package=mock
type Service interface {
	Scheduler

	// Refresh recomputes the usage view across public and every active
	// tenant schema. Idempotent; concurrent calls collapse into one.
	Refresh(ctx context.Context) error

	GetUsage(ctx context.Context, companyID string) (*CompanyUsage, error)
}

type service struct {
	repo         Repository
	registryRepo registry.Repository
	outbox       kafka.OutboxRepository
	rdb          *redis.Client
	sf           *singleflight.Group
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	registryRepo registry.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("aggregator.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("aggregator.service")
	}
	return &service{
		repo:         repo,
		registryRepo: registryRepo,
		outbox:       outbox,
		rdb:          rdb,
		sf:           &singleflight.Group{},
		logger:       l,
	}
}

func (s *service) Refresh(ctx context.Context) error {
	// Collapse concurrent refreshes into a single fleet scan.
	_, err, _ := s.sf.Do("refresh", func() (interface{}, error) {
		schemas, err := s.registryRepo.ListActiveTenantSchemas(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.repo.RebuildSourceView(ctx, schemas); err != nil {
			return nil, err
		}
		if err := s.repo.RefreshMaterializedView(ctx); err != nil {
			return nil, err
		}

		s.invalidateCache(ctx)

		s.logger.Info("usage aggregate refreshed", zap.Int("tenant_schemas", len(schemas)))
		return nil, nil
	})
	return err
}

// invalidateCache drops cached per-company reads after a rebuild so
// callers see the new totals before the TTL would expire. Best-effort.
func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}

	iter := s.rdb.Scan(ctx, 0, usageCacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("usage cache invalidation failed", zap.Error(err))
			return
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("usage cache scan failed", zap.Error(err))
	}
}

// Schedule enqueues a refresh request through the transactional outbox when
// one is configured; otherwise it fires the refresh on a detached goroutine.
// Either way the caller's request does not block on a fleet scan.
func (s *service) Schedule(ctx context.Context, companyID, reason string) {
	l := contextutil.GetLogger(ctx, s.logger)

	if s.outbox == nil {
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := s.Refresh(bg); err != nil {
				s.logger.Error("background usage refresh failed", zap.Error(err))
			}
		}()
		return
	}

	event := events.UsageRefreshRequestedEvent{
		EventType:  events.EventTypeUsageRefreshRequested,
		CompanyID:  companyID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		l.Error("marshal usage refresh event failed", zap.Error(err))
		return
	}

	err = s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "company_usage",
		AggregateID:   companyID,
		EventType:     events.EventTypeUsageRefreshRequested,
		Topic:         events.UsageRefreshTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		// Scheduling is best-effort; the periodic refresh catches up.
		l.Error("enqueue usage refresh failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}
}

func (s *service) GetUsage(ctx context.Context, companyID string) (*CompanyUsage, error) {
	key := usageCacheKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var usage CompanyUsage
			if err := json.Unmarshal([]byte(cached), &usage); err == nil {
				return &usage, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		usage, err := s.repo.GetUsage(ctx, companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No rows yet for this company: zero usage, not an error.
				return &CompanyUsage{CompanyID: companyID}, nil
			}
			return nil, err
		}
		return usage, nil
	})
	if err != nil {
		return nil, err
	}
	usage := v.(*CompanyUsage)

	if s.rdb != nil {
		if data, err := json.Marshal(usage); err == nil {
			if err := s.rdb.Set(ctx, key, data, usageCacheTTL).Err(); err != nil {
				s.logger.Warn("cache usage aggregate failed", zap.Error(err))
			}
		}
	}

	return usage, nil
}
