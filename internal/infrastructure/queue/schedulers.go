package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/borrow/job"
	"library-backend/internal/shared"
	"library-backend/pkg/logger"
)

// Scheduler registers cron entries for recurring borrow maintenance.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires every scheduled task.
func (s *Scheduler) RegisterJobs() error {
	return s.registerOverdueSweepJob()
}

// Overdue sweep runs hourly. The read paths already flip past-due
// records lazily; this keeps statuses fresh for idle libraries too.
func (s *Scheduler) registerOverdueSweepJob() error {
	task, err := job.NewOverdueSweepTask()
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		"0 * * * *", // Hourly at minute 0
		task,
		asynq.Queue(shared.QueueBorrow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register OverdueSweep job", err)
		return err
	}

	logger.Info("✓ Registered OverdueSweep: hourly", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
