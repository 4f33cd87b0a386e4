// Package memory provides in-process implementations of the repository
// interfaces. Every table lives behind a single mutex, so each repository call
// is atomic in the same way a Postgres transaction is.
package memory

import (
	"context"
	"sync"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
)

// DB holds all in-memory tables
type DB struct {
	mu sync.RWMutex

	seq map[string]int64

	users        map[int64]*models.User
	candidates   map[int64]*models.Candidate
	universities map[int64]*models.University
	majors       map[int64]*models.Major
	exams        map[int64]*models.Exam
	aspirations  map[int64]*models.Aspiration
	payments     map[int64]*models.Payment
}

// NewDB creates an empty in-memory database
func NewDB() *DB {
	return &DB{
		seq:          make(map[string]int64),
		users:        make(map[int64]*models.User),
		candidates:   make(map[int64]*models.Candidate),
		universities: make(map[int64]*models.University),
		majors:       make(map[int64]*models.Major),
		exams:        make(map[int64]*models.Exam),
		aspirations:  make(map[int64]*models.Aspiration),
		payments:     make(map[int64]*models.Payment),
	}
}

func (db *DB) nextID(table string) int64 {
	db.seq[table]++
	return db.seq[table]
}

// NewRepositories wires every memory repository over one DB
func NewRepositories(db *DB) *repositories.Repositories {
	return &repositories.Repositories{
		UserRepository:       NewUserRepository(db),
		CatalogRepository:    NewCatalogRepository(db),
		AspirationRepository: NewAspirationRepository(db),
		PaymentRepository:    NewPaymentRepository(db),
		Ping:                 func(context.Context) error { return nil },
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
