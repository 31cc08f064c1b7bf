package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/borrow/service"
	"library-backend/internal/shared"
)

// NewOverdueSweepTask builds the scheduled sweep task.
func NewOverdueSweepTask() (*asynq.Task, error) {
	payload, err := json.Marshal(shared.OverdueSweepPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(shared.TypeOverdueSweep, payload, asynq.Queue(shared.QueueBorrow)), nil
}

// OverdueSweepHandler flips past-due loans to overdue on a schedule,
// backing up the lazy sweep the read paths already perform.
type OverdueSweepHandler struct {
	borrowService service.ServiceInterface
}

func NewOverdueSweepHandler(borrowService service.ServiceInterface) *OverdueSweepHandler {
	return &OverdueSweepHandler{
		borrowService: borrowService,
	}
}

func (h *OverdueSweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	swept, err := h.borrowService.SweepOverdue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Overdue sweep failed")
		return err
	}

	log.Info().
		Int64("records", swept).
		Msg("Overdue sweep completed")

	return nil
}
