package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/formacion/core/deal"
)

type dealRepository struct {
	db *dealTable
}

var _ deal.Repository = (*dealRepository)(nil)

func NewDealRepository(db *DB) *dealRepository {
	return &dealRepository{db: db.deal}
}

// SaveDeal inserts or replaces a deal, as the CRM import does.
func (repo *dealRepository) SaveDeal(dl deal.Deal) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.deals[dl.ID] = &dl
}

func (repo *dealRepository) AddNote(note deal.Note) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.notes = append(repo.db.notes, note)
}

func (repo *dealRepository) AddSession(sess deal.Session) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.sessions = append(repo.db.sessions, sess)
}

func (repo *dealRepository) GetDeal(_ context.Context, id string) (deal.Deal, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if dl, ok := repo.db.deals[id]; ok {
		return *dl, nil
	}
	return deal.Deal{}, deal.ErrNotFound
}

func (repo *dealRepository) QueryDealNotes(_ context.Context, dealID string) ([]deal.Note, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	notes := make([]deal.Note, 0)
	for _, n := range repo.db.notes {
		if n.DealID == dealID {
			notes = append(notes, n)
		}
	}
	// newest first
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes, nil
}

func (repo *dealRepository) QueryDealSessions(_ context.Context, dealID string) ([]deal.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sessions := make([]deal.Session, 0)
	for _, s := range repo.db.sessions {
		if s.DealID == dealID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}
