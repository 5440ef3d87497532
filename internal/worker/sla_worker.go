package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nexdesk/portal-service/internal/service"
)

// StartSLAWorker schedules the periodic metrics recompute for active
// sessions. The schedule is a cron expression or an @every descriptor;
// the default poll is every 30 seconds. The returned cron must be stopped
// during shutdown.
func StartSLAWorker(schedule string, tracker *service.SLATracker, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		tracker.RecomputeActive(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Info("sla poll scheduled", zap.String("schedule", schedule))
	return c, nil
}
