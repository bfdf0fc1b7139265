package processor

import (
	"context"

	"github.com/robfig/cron/v3"

	"codeitmall/pkg/logger"
)

// AggregateReconciler пересчитывает закешированные агрегаты по журналу
type AggregateReconciler interface {
	ReconcileAggregates(ctx context.Context) (int, error)
}

// cronLogAdapter направляет логи cron в общий zerolog
type cronLogAdapter struct{}

func (cronLogAdapter) Printf(format string, v ...interface{}) {
	logger.Printf(format, v...)
}

type CronScheduler struct {
	cron       *cron.Cron
	reconciler AggregateReconciler
}

func NewCronScheduler(reconciler AggregateReconciler) *CronScheduler {
	cronLogger := cron.PrintfLogger(cronLogAdapter{})
	c := cron.New(
		cron.WithLogger(cronLogger),
		// долгая сверка не запускается повторно поверх предыдущей
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &CronScheduler{
		cron:       c,
		reconciler: reconciler,
	}
}

// Start регистрирует сверку агрегатов по расписанию (стандартный cron или @every)
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.reconcile(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	return nil
}

func (s *CronScheduler) reconcile(ctx context.Context) {
	logger.Debug().Msg("Cron job triggered: reconciling fit aggregates")

	refreshed, err := s.reconciler.ReconcileAggregates(ctx)
	if err != nil {
		logger.Error().Err(err).Int("refreshed", refreshed).Msg("Aggregate reconciliation finished with errors")
		return
	}

	logger.Info().Int("refreshed", refreshed).Msg("Aggregate reconciliation completed")
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
