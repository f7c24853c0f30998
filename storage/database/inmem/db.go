package inmemdb

import (
	"sync"

	"github.com/trezcool/formacion/core/deal"
	"github.com/trezcool/formacion/core/student"
)

type (
	DB struct {
		deal    *dealTable
		student *studentTable
	}

	dealTable struct {
		mutex    sync.RWMutex
		deals    map[string]*deal.Deal
		notes    []deal.Note // insertion order
		sessions []deal.Session
	}

	studentTable struct {
		mutex sync.RWMutex
		table map[string]*student.Student
		order []string // ids, insertion order
	}
)

func Open() *DB {
	return &DB{
		deal:    &dealTable{deals: make(map[string]*deal.Deal)},
		student: &studentTable{table: make(map[string]*student.Student)},
	}
}
