package boiledrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/drivers"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/student"
)

const (
	studentTable   = "alumnos"
	studentColumns = "id, deal_id, session_id, nombre, apellido, dni, created_at, updated_at"

	uniqueViolation = "23505"
)

var dialect = drivers.Dialect{
	LQ:                   '"',
	RQ:                   '"',
	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

type alumno struct {
	ID        string    `boil:"id"`
	DealID    string    `boil:"deal_id"`
	SessionID string    `boil:"session_id"`
	Nombre    string    `boil:"nombre"`
	Apellido  string    `boil:"apellido"`
	DNI       string    `boil:"dni"`
	CreatedAt time.Time `boil:"created_at"`
	UpdatedAt time.Time `boil:"updated_at"`
}

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

func newQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

func (repo studentRepository) unboil(a alumno) student.Student {
	return student.Student{
		ID:        a.ID,
		DealID:    a.DealID,
		SessionID: a.SessionID,
		Nombre:    a.Nombre,
		Apellido:  a.Apellido,
		DNI:       a.DNI,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// trapUniqueErr maps the (session_id, dni) unique constraint violation to student.ErrDuplicateDNI
func (repo studentRepository) trapUniqueErr(err error, msg string) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return student.ErrDuplicateDNI
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	mods := []qm.QueryMod{
		qm.Select(studentColumns),
		qm.From(studentTable),
	}
	if filter.DealID != "" {
		mods = append(mods, qm.Where("deal_id = ?", filter.DealID))
	}
	if filter.SessionID != "" {
		mods = append(mods, qm.Where("session_id = ?", filter.SessionID))
	}
	if filter.DNI != "" {
		mods = append(mods, qm.Where("dni = ?", filter.DNI))
	}

	orderList := make([]string, 0, len(ordering)+2)
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	orderList = append(orderList, "created_at ASC", "id ASC")
	mods = append(mods, qm.OrderBy(strings.Join(orderList, ", ")))

	var rows []alumno
	if err := newQuery(mods...).Bind(ctx, repo.exec, &rows); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, a := range rows {
		students = append(students, repo.unboil(a))
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}

	var a alumno
	err := newQuery(
		qm.Select(studentColumns),
		qm.From(studentTable),
		qm.Where("id = ?", id),
	).Bind(ctx, repo.exec, &a)
	if err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student")
	}
	return repo.unboil(a), nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	var a alumno
	err := queries.Raw(
		"INSERT INTO "+studentTable+" ("+studentColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING "+studentColumns,
		uuid.New().String(),
		std.DealID,
		std.SessionID,
		std.Nombre,
		std.Apellido,
		std.DNI,
		std.CreatedAt.UTC(),
		std.UpdatedAt.UTC(),
	).Bind(ctx, repo.exec, &a)
	if err != nil {
		return student.Student{}, repo.trapUniqueErr(err, "inserting student")
	}
	return repo.unboil(a), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if _, err := uuid.Parse(std.ID); err != nil {
		return student.Student{}, student.ErrNotFound
	}

	var a alumno
	err := queries.Raw(
		"UPDATE "+studentTable+" SET nombre = $1, apellido = $2, updated_at = $3 WHERE id = $4 RETURNING "+studentColumns,
		std.Nombre,
		std.Apellido,
		std.UpdatedAt.UTC(),
		std.ID,
	).Bind(ctx, repo.exec, &a)
	if err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "updating student")
	}
	return repo.unboil(a), nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return student.ErrNotFound
	}

	res, err := queries.Raw("DELETE FROM "+studentTable+" WHERE id = $1", id).ExecContext(ctx, repo.exec)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if cnt == 0 {
		return student.ErrNotFound
	}
	return nil
}
