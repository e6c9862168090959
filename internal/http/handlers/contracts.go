package handlers

import (
	"context"

	"delivery-sync/internal/domain"
	"delivery-sync/internal/service/syncer"
)

type requestUsecase interface {
	List(ctx context.Context) []domain.DeliveryRequest
	Get(ctx context.Context, id string) (domain.DeliveryRequest, error)
	Create(ctx context.Context, in domain.NewRequest) (domain.DeliveryRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.DeliveryRequest, error)
	AssignPartner(ctx context.Context, id string, partnerID int64, partnerName string) (domain.DeliveryRequest, error)
	SyncOne(ctx context.Context, id string) (domain.DeliveryRequest, error)
}

type syncUsecase interface {
	SyncPending(ctx context.Context) (syncer.DrainResult, error)
	Refresh(ctx context.Context) (syncer.MergeResult, error)
	ForceSync(ctx context.Context) (syncer.ForceResult, error)
	Status(ctx context.Context) syncer.StatusReport
	Pending(ctx context.Context) []domain.DeliveryRequest
	Stats(ctx context.Context) domain.LocalStats
	RemoteStatistics(ctx context.Context, period domain.StatsPeriod) (domain.Statistics, error)
}

type sessionUsecase interface {
	SaveSession(ctx context.Context, sess domain.Session) error
	Session(ctx context.Context) *domain.Session
	Logout(ctx context.Context)
}

type connectivity interface {
	IsOnline() bool
	Set(online bool) bool
}

var (
	_ requestUsecase = (*syncer.Engine)(nil)
	_ syncUsecase    = (*syncer.Engine)(nil)
	_ sessionUsecase = (*syncer.Engine)(nil)
)
