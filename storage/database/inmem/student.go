package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		if std, ok := repo.db.table[id]; ok {
			students = append(students, *std)
		}
	}
	return students
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0)
	for _, std := range repo.query() {
		if filter.DealID != "" && std.DealID != filter.DealID {
			continue
		}
		if filter.SessionID != "" && std.SessionID != filter.SessionID {
			continue
		}
		if filter.DNI != "" && std.DNI != filter.DNI {
			continue
		}
		students = append(students, std)
	}

	// oldest first on ties, insertion order standing in for the id
	ordering = append(ordering[:len(ordering):len(ordering)], core.DBOrdering{Field: "created_at", Ascending: true})
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareColumn(students[i], students[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return students, nil
}

func compareColumn(a, b student.Student, column string) int {
	switch column {
	case "nombre":
		return strings.Compare(strings.ToLower(a.Nombre), strings.ToLower(b.Nombre))
	case "apellido":
		return strings.Compare(strings.ToLower(a.Apellido), strings.ToLower(b.Apellido))
	case "dni":
		return strings.Compare(a.DNI, b.DNI)
	case "created_at":
		return compareTimes(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "updated_at":
		return compareTimes(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	}
	return 0
}

func compareTimes(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, other := range repo.db.table {
		if other.SessionID == std.SessionID && other.DNI == std.DNI {
			return student.Student{}, student.ErrDuplicateDNI
		}
	}

	std.ID = uuid.New().String()
	repo.db.table[std.ID] = &std
	repo.db.order = append(repo.db.order, std.ID)
	return std, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only names may change
	orig, ok := repo.db.table[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	orig.Nombre = std.Nombre
	orig.Apellido = std.Apellido
	orig.UpdatedAt = std.UpdatedAt
	return *orig, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.table, id)
	for i, oid := range repo.db.order {
		if oid == id {
			repo.db.order = append(repo.db.order[:i], repo.db.order[i+1:]...)
			break
		}
	}
	return nil
}
