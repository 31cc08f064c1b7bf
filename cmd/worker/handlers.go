package main

import (
	"github.com/hibiken/asynq"

	borrowJob "library-backend/internal/domains/borrow/job"
	"library-backend/internal/shared"
	"library-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	overdueSweep *borrowJob.OverdueSweepHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		overdueSweep: borrowJob.NewOverdueSweepHandler(c.BorrowService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeOverdueSweep, h.overdueSweep.ProcessTask)
}
