package app

import (
	"context"
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/config"
	pkgcron "github.com/coderhuBypassion/BriefBank/internal/pkg/cron"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/logger"
	"go.uber.org/zap"
)

const logRetention = 14 * 24 * time.Hour

func registerJobs(sched *pkgcron.Scheduler, cfg *config.AppConfig, log *zap.Logger) {
	sched.Register(pkgcron.Job{
		Name:     "prune_logs",
		Interval: 24 * time.Hour,
		Fn: func(ctx context.Context) error {
			removed, err := logger.Prune(cfg.LogDir(), logRetention, time.Now())
			if err != nil {
				return err
			}
			if removed > 0 {
				log.Info("pruned old log files", zap.Int("removed", removed))
			}
			return nil
		},
	})
}
