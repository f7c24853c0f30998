package deal

import (
	"context"
	"errors"

	"github.com/trezcool/formacion/core"
)

var (
	// errors
	ErrNotFound = errors.New("deal not found")
)

type (
	// Repository reads the deals imported from the CRM.
	Repository interface {
		GetDeal(ctx context.Context, id string) (Deal, error)
		// QueryDealNotes returns the notes of a deal, newest first.
		QueryDealNotes(ctx context.Context, dealID string) ([]Note, error)
		QueryDealSessions(ctx context.Context, dealID string) ([]Session, error)
	}

	Service interface {
		Get(ctx context.Context, id string) (Deal, error)
		Notes(ctx context.Context, dealID string) ([]Note, error)
		Sessions(ctx context.Context, dealID string) ([]Session, error)
		// SyncTarget returns the session automatically chosen to receive students imported from notes.
		SyncTarget(ctx context.Context, dealID string) (Session, bool, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Get(ctx context.Context, id string) (Deal, error) {
	id = core.CleanString(id)
	if id == "" {
		return Deal{}, ErrNotFound
	}
	return svc.repo.GetDeal(ctx, id)
}

func (svc *service) Notes(ctx context.Context, dealID string) ([]Note, error) {
	return svc.repo.QueryDealNotes(ctx, core.CleanString(dealID))
}

func (svc *service) Sessions(ctx context.Context, dealID string) ([]Session, error) {
	return svc.repo.QueryDealSessions(ctx, core.CleanString(dealID))
}

func (svc *service) SyncTarget(ctx context.Context, dealID string) (Session, bool, error) {
	sessions, err := svc.Sessions(ctx, dealID)
	if err != nil {
		return Session{}, false, err
	}
	id := SelectSyncSession(sessions)
	if !id.Valid {
		return Session{}, false, nil
	}
	for _, s := range sessions {
		if s.ID == id.String {
			return s, true, nil
		}
	}
	return Session{}, false, nil
}
