// Package autofill stamps audit columns on catalog entities before they are
// written. Callers pick the operation explicitly; nothing is resolved at
// runtime by method name.
package autofill

import "time"

// OperationType is the kind of write about to happen.
type OperationType int

const (
	Insert OperationType = iota
	Update
)

func (o OperationType) String() string {
	switch o {
	case Insert:
		return "insert"
	case Update:
		return "update"
	default:
		return "unknown"
	}
}

// Auditable is implemented by entities that embed model.Audit.
type Auditable interface {
	SetCreateTime(time.Time)
	SetUpdateTime(time.Time)
	SetCreateUser(int64)
	SetUpdateUser(int64)
}

// Apply sets create/update columns for Insert and only update columns for Update.
func Apply(e Auditable, op OperationType, userID int64, now time.Time) {
	switch op {
	case Insert:
		e.SetCreateTime(now)
		e.SetCreateUser(userID)
		e.SetUpdateTime(now)
		e.SetUpdateUser(userID)
	case Update:
		e.SetUpdateTime(now)
		e.SetUpdateUser(userID)
	}
}
