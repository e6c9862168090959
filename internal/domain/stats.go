package domain

import "time"

// StatsPeriod is the aggregation window of remote statistics.
type StatsPeriod string

// List of statistics periods
const (
	PeriodAll   StatsPeriod = "all"
	PeriodToday StatsPeriod = "today"
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
)

// Valid checks if the period is supported by the remote API.
func (p StatsPeriod) Valid() bool {
	switch p {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Statistics is the remote aggregate for the signed-in user.
type Statistics struct {
	TotalDeliveries      int         `json:"totalDeliveries"`
	CompletedDeliveries  int         `json:"completedDeliveries"`
	PendingDeliveries    int         `json:"pendingDeliveries"`
	InProgressDeliveries int         `json:"inProgressDeliveries"`
	AssignedDeliveries   int         `json:"assignedDeliveries"`
	TodayCompleted       int         `json:"todayCompleted"`
	TodayPending         int         `json:"todayPending"`
	WeekCompleted        int         `json:"weekCompleted"`
	MonthCompleted       int         `json:"monthCompleted"`
	Period               StatsPeriod `json:"period"`
}

// LocalStats is computed from the local record set.
type LocalStats struct {
	Total        int                `json:"total"`
	Active       int                `json:"active"`
	Completed    int                `json:"completed"`
	ByStatus     map[Status]int     `json:"byStatus"`
	BySyncStatus map[SyncStatus]int `json:"bySyncStatus"`
}

// SyncOutcome is the result of one remote sync attempt.
type SyncOutcome string

// List of sync outcomes
const (
	OutcomeSynced SyncOutcome = "synced"
	OutcomeFailed SyncOutcome = "failed"
)

// SyncPath names how a record reached the remote system.
type SyncPath string

// List of sync paths
const (
	PathCreate SyncPath = "create"
	PathUpdate SyncPath = "update"
	PathBatch  SyncPath = "batch"
)

// SyncEvent is the journal entry emitted after each sync attempt.
type SyncEvent struct {
	RecordID string      `json:"recordId"`
	ServerID *int64      `json:"serverId,omitempty"`
	Path     SyncPath    `json:"path"`
	Outcome  SyncOutcome `json:"outcome"`
	Status   Status      `json:"status"`
	At       time.Time   `json:"at"`
	Error    string      `json:"error,omitempty"`
}
