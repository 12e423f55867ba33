package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-saas/internal/aggregator"
	"go-saas/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeUsageRefresh drains usage refresh requests and runs the aggregate
// recompute. Requests arriving within the debounce window after a refresh
// are absorbed: one recompute covers every company, so replaying them would
// only repeat identical fleet scans.
func ConsumeUsageRefresh(
	ctx context.Context,
	reader *kafkago.Reader,
	aggregatorService aggregator.Service,
	debounce time.Duration,
	logger *zap.Logger,
) {
	if debounce <= 0 {
		debounce = 5 * time.Second
	}

	log := logger.Named("kafka.consumer.usage_refresh")
	log.Info("usage refresh consumer started", zap.Duration("debounce", debounce))

	var lastRefresh time.Time

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("usage refresh consumer stopped")
				return
			}
			log.Error("fetch usage refresh message failed", zap.Error(err))
			continue
		}

		var event events.UsageRefreshRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode usage refresh event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if time.Since(lastRefresh) < debounce {
			log.Debug("usage refresh absorbed by debounce",
				zap.String("company_id", event.CompanyID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := aggregatorService.Refresh(ctx); err != nil {
			// Leave the message uncommitted; the retry will recompute.
			log.Error("usage refresh failed",
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}
		lastRefresh = time.Now()

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit usage refresh message failed", zap.Error(err))
			continue
		}

		log.Info("usage aggregate refreshed from event",
			zap.String("company_id", event.CompanyID),
			zap.String("reason", event.Reason),
		)
	}
}
