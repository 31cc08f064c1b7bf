package shared

// Asynq task types and queue names shared between the API and the worker.
const (
	TypeOverdueSweep = "borrow:overdue_sweep"

	QueueBorrow = "borrow"
)

// Roles recognized by the auth layer.
const (
	RoleLibrarian = "librarian"
	RoleMember    = "member"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// OverdueSweepPayload is the (empty) payload for the scheduled sweep task.
type OverdueSweepPayload struct{}
