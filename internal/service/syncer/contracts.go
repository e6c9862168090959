//go:generate mockgen -source=contracts.go -destination=syncer_mocks_test.go -package=syncer

package syncer

import (
	"context"

	"delivery-sync/internal/domain"
)

type remoteAPI interface {
	CreateRequest(ctx context.Context, rec domain.DeliveryRequest) (domain.DeliveryRequest, error)
	UpdateRequest(ctx context.Context, serverID int64, upd domain.RequestUpdate) (domain.DeliveryRequest, error)
	ListRequests(ctx context.Context, q domain.ListQuery) (domain.RequestPage, error)
	ListAssignedRequests(ctx context.Context, q domain.ListQuery) (domain.RequestPage, error)
	SyncBatch(ctx context.Context, recs []domain.DeliveryRequest) ([]domain.DeliveryRequest, error)
	Statistics(ctx context.Context, period domain.StatsPeriod, role domain.Role) (domain.Statistics, error)
}

type recordStore interface {
	GetAll(ctx context.Context) []domain.DeliveryRequest
	Add(ctx context.Context, rec domain.DeliveryRequest)
	Get(ctx context.Context, id string) (domain.DeliveryRequest, bool)
	Modify(ctx context.Context, id string, fn func(*domain.DeliveryRequest) error) (domain.DeliveryRequest, error)
	Transform(ctx context.Context, fn func([]domain.DeliveryRequest) []domain.DeliveryRequest) []domain.DeliveryRequest
	GetPendingQueue(ctx context.Context) []domain.DeliveryRequest
	EnqueuePending(ctx context.Context, rec domain.DeliveryRequest) int
	RemovePending(ctx context.Context, ids ...string) int
	SaveSession(ctx context.Context, sess domain.Session)
	Session(ctx context.Context) *domain.Session
	ClearAll(ctx context.Context)
}

type connectivity interface {
	IsOnline() bool
}

type eventPublisher interface {
	Publish(ctx context.Context, ev domain.SyncEvent) error
}
