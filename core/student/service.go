package student

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/formacion/core"
)

var (
	// errors
	ErrNotFound     = errors.New("student not found")
	ErrDuplicateDNI = errors.New("a student with this DNI already exists in the session")
)

type (
	Repository interface {
		// QueryStudents returns the students matching filter, oldest first unless ordering says otherwise.
		QueryStudents(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// CreateStudent fails with ErrDuplicateDNI when the session already has a student with that DNI.
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// UpdateStudent fails with ErrNotFound when the student no longer exists.
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	Service interface {
		QuerySessionStudents(ctx context.Context, dealID, sessionID string, ordering ...core.DBOrdering) ([]Student, error)
		Get(ctx context.Context, id string) (Student, error)
		Create(ctx context.Context, ns NewStudent) (Student, error)
		Update(ctx context.Context, id string, uu UpdateStudent) (Student, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var (
	_ Service = (*service)(nil)

	nowFunc = time.Now
)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QuerySessionStudents(ctx context.Context, dealID, sessionID string, ordering ...core.DBOrdering) ([]Student, error) {
	filter := QueryFilter{DealID: dealID, SessionID: sessionID}
	filter.Clean()
	return svc.repo.QueryStudents(ctx, filter, core.FilterOrderings(ordering, OrderingFields))
}

func (svc *service) Get(ctx context.Context, id string) (Student, error) {
	if id = core.CleanString(id); id == "" {
		return Student{}, ErrNotFound
	}
	return svc.repo.GetStudent(ctx, id)
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	now := nowFunc().UTC()
	std := Student{
		DealID:    ns.DealID,
		SessionID: ns.SessionID,
		Nombre:    ns.Nombre,
		Apellido:  ns.Apellido,
		DNI:       ns.DNI,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateStudent) (Student, error) {
	std, err := svc.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	uu.Clean()
	if uu.Nombre.Valid {
		std.Nombre = uu.Nombre.String
	}
	if uu.Apellido.Valid {
		std.Apellido = uu.Apellido.String
	}
	std.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	if id = core.CleanString(id); id == "" {
		return ErrNotFound
	}
	return svc.repo.DeleteStudent(ctx, id)
}
