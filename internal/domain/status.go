package domain

type (
	// Status is the delivery lifecycle status of a request.
	Status string
	// SyncStatus is the reconciliation state of a record with the remote system.
	SyncStatus string
	// Role is the session role of the caller.
	Role string
)

// List of delivery statuses
const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// List of sync statuses
const (
	SyncOffline SyncStatus = "offline"
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

// List of session roles
const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

var allowedStatuses = [...]Status{
	StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled,
}

var allowedSyncStatuses = [...]SyncStatus{
	SyncOffline, SyncPending, SyncSynced, SyncFailed,
}

var allowedRoles = [...]Role{RoleCustomer, RoleDriver, RoleAdmin}

// Valid checks if the Status is known.
func (s Status) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the SyncStatus is known.
func (s SyncStatus) Valid() bool {
	for _, v := range allowedSyncStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Unsettled reports whether the record still awaits a confirmed remote acknowledgment.
func (s SyncStatus) Unsettled() bool {
	return s == SyncOffline || s == SyncPending || s == SyncFailed
}

// Valid checks if the Role is known.
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// AllStatuses returns every delivery status in lifecycle order.
func AllStatuses() []Status {
	return append([]Status(nil), allowedStatuses[:]...)
}

// AllSyncStatuses returns every sync status.
func AllSyncStatuses() []SyncStatus {
	return append([]SyncStatus(nil), allowedSyncStatuses[:]...)
}
