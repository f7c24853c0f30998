package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/formacion/core/deal"
)

type (
	dealRow struct {
		ID               string      `db:"id"`
		Title            string      `db:"title"`
		OrganizationName null.String `db:"organization_name"`
		CreatedAt        time.Time   `db:"created_at"`
		UpdatedAt        time.Time   `db:"updated_at"`
	}

	noteRow struct {
		ID        null.String `db:"id"`
		DealID    string      `db:"deal_id"`
		Content   null.String `db:"content"`
		CreatedAt time.Time   `db:"created_at"`
	}

	sessionRow struct {
		ID             string      `db:"id"`
		DealID         string      `db:"deal_id"`
		Estado         string      `db:"estado"`
		FechaInicioUTC null.Time   `db:"fecha_inicio_utc"`
		FechaFinUTC    null.Time   `db:"fecha_fin_utc"`
		NombreCache    null.String `db:"nombre_cache"`
	}
)

// dealRepository reads the deals imported from the CRM; it never writes them.
type dealRepository struct {
	db *sqlx.DB
}

var _ deal.Repository = (*dealRepository)(nil)

// NewDealRepository wraps an opened "postgres" connection.
func NewDealRepository(db *sql.DB) *dealRepository {
	return &dealRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo dealRepository) GetDeal(ctx context.Context, id string) (deal.Deal, error) {
	var row dealRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, title, organization_name, created_at, updated_at FROM deals WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return deal.Deal{}, deal.ErrNotFound
		}
		return deal.Deal{}, errors.Wrap(err, "finding deal")
	}
	return deal.Deal{
		ID:               row.ID,
		Title:            row.Title,
		OrganizationName: row.OrganizationName,
		CreatedAt:        row.CreatedAt.UTC(),
		UpdatedAt:        row.UpdatedAt.UTC(),
	}, nil
}

func (repo dealRepository) QueryDealNotes(ctx context.Context, dealID string) ([]deal.Note, error) {
	var rows []noteRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, deal_id, content, created_at FROM deal_notes WHERE deal_id = $1 ORDER BY created_at DESC, id`, dealID)
	if err != nil {
		return nil, errors.Wrap(err, "querying deal notes")
	}

	notes := make([]deal.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, deal.Note{
			ID:        r.ID,
			DealID:    r.DealID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt.UTC(),
		})
	}
	return notes, nil
}

func (repo dealRepository) QueryDealSessions(ctx context.Context, dealID string) ([]deal.Session, error) {
	var rows []sessionRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, deal_id, estado, fecha_inicio_utc, fecha_fin_utc, nombre_cache FROM sessions WHERE deal_id = $1`, dealID)
	if err != nil {
		return nil, errors.Wrap(err, "querying deal sessions")
	}

	sessions := make([]deal.Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, deal.Session{
			ID:             r.ID,
			DealID:         r.DealID,
			Estado:         r.Estado,
			FechaInicioUTC: r.FechaInicioUTC,
			FechaFinUTC:    r.FechaFinUTC,
			NombreCache:    r.NombreCache,
		})
	}
	return sessions, nil
}
