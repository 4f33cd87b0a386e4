package memory

import (
	"context"
	"sort"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
)

// CatalogRepository is the in-memory catalog store
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a memory CatalogRepository
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateUniversity stores a university with a unique code
func (r *CatalogRepository) CreateUniversity(_ context.Context, university *models.University) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.universities {
		if u.Code == university.Code {
			return 0, repositories.ErrDuplicate
		}
	}
	stored := clone(university)
	stored.ID = r.db.nextID("universities")
	r.db.universities[stored.ID] = stored
	return stored.ID, nil
}

// GetUniversityByID retrieves a university by ID
func (r *CatalogRepository) GetUniversityByID(_ context.Context, id int64) (*models.University, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.db.universities[id]; ok {
		return clone(u), nil
	}
	return nil, repositories.ErrNotFound
}

// GetUniversityByCode retrieves a university by code
func (r *CatalogRepository) GetUniversityByCode(_ context.Context, code string) (*models.University, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.universities {
		if u.Code == code {
			return clone(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// ListUniversities returns universities ordered by code
func (r *CatalogRepository) ListUniversities(_ context.Context, activeOnly bool) ([]*models.University, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := []*models.University{}
	for _, u := range r.db.universities {
		if activeOnly && !u.IsActive {
			continue
		}
		result = append(result, clone(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// CountUniversities counts universities, optionally only the active ones
func (r *CatalogRepository) CountUniversities(_ context.Context, activeOnly bool) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var count int64
	for _, u := range r.db.universities {
		if !activeOnly || u.IsActive {
			count++
		}
	}
	return count, nil
}

// CreateMajor stores a major, unique per university
func (r *CatalogRepository) CreateMajor(_ context.Context, major *models.Major) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.universities[major.UniversityID]; !ok {
		return 0, repositories.ErrNotFound
	}
	for _, m := range r.db.majors {
		if m.UniversityID == major.UniversityID && m.Code == major.Code {
			return 0, repositories.ErrDuplicate
		}
	}
	stored := clone(major)
	stored.ID = r.db.nextID("majors")
	r.db.majors[stored.ID] = stored
	return stored.ID, nil
}

// GetMajorByID retrieves a major by ID
func (r *CatalogRepository) GetMajorByID(_ context.Context, id int64) (*models.Major, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if m, ok := r.db.majors[id]; ok {
		return clone(m), nil
	}
	return nil, repositories.ErrNotFound
}

// ListMajorsByUniversity returns a university's majors ordered by code
func (r *CatalogRepository) ListMajorsByUniversity(_ context.Context, universityID int64) ([]*models.Major, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := []*models.Major{}
	for _, m := range r.db.majors {
		if m.UniversityID == universityID {
			result = append(result, clone(m))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// CreateExam stores an exam with a unique code
func (r *CatalogRepository) CreateExam(_ context.Context, exam *models.Exam) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, e := range r.db.exams {
		if e.Code == exam.Code {
			return 0, repositories.ErrDuplicate
		}
	}
	stored := clone(exam)
	stored.ID = r.db.nextID("exams")
	r.db.exams[stored.ID] = stored
	return stored.ID, nil
}

// GetExamByID retrieves an exam by ID
func (r *CatalogRepository) GetExamByID(_ context.Context, id int64) (*models.Exam, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if e, ok := r.db.exams[id]; ok {
		return clone(e), nil
	}
	return nil, repositories.ErrNotFound
}

// GetExamByCode retrieves an exam by code
func (r *CatalogRepository) GetExamByCode(_ context.Context, code string) (*models.Exam, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, e := range r.db.exams {
		if e.Code == code {
			return clone(e), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// GetActiveExam returns the exam currently open for registration
func (r *CatalogRepository) GetActiveExam(_ context.Context) (*models.Exam, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var latest *models.Exam
	for _, e := range r.db.exams {
		if e.Status != models.ExamActive {
			continue
		}
		if latest == nil || e.Year > latest.Year || (e.Year == latest.Year && e.ID > latest.ID) {
			latest = e
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return clone(latest), nil
}
