package memory

import (
	"context"
	"sort"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/helpers"
)

// AspirationRepository is the in-memory aspiration store
type AspirationRepository struct {
	db *DB
}

// NewAspirationRepository creates a memory AspirationRepository
func NewAspirationRepository(db *DB) *AspirationRepository {
	return &AspirationRepository{db: db}
}

func (r *AspirationRepository) detailLocked(a *models.Aspiration) *models.AspirationDetail {
	d := &models.AspirationDetail{Aspiration: *clone(a)}
	if e, ok := r.db.exams[a.ExamID]; ok {
		d.ExamCode = e.Code
	}
	if u, ok := r.db.universities[a.UniversityID]; ok {
		d.UniversityCode = u.Code
		d.UniversityName = u.Name
	}
	if m, ok := r.db.majors[a.MajorID]; ok {
		d.MajorCode = m.Code
		d.MajorName = m.Name
		d.SubjectGroup = clone(m.SubjectGroup)
	}
	return d
}

// Create stores an aspiration, rejecting a taken (candidate, exam, priority) slot
func (r *AspirationRepository) Create(_ context.Context, a *models.Aspiration) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if a.Priority < 1 || a.Priority > 10 {
		return 0, repositories.ErrPriorityRange
	}
	if _, ok := r.db.candidates[a.CandidateID]; !ok {
		return 0, repositories.ErrNotFound
	}
	if _, ok := r.db.exams[a.ExamID]; !ok {
		return 0, repositories.ErrNotFound
	}
	if _, ok := r.db.universities[a.UniversityID]; !ok {
		return 0, repositories.ErrNotFound
	}
	if _, ok := r.db.majors[a.MajorID]; !ok {
		return 0, repositories.ErrNotFound
	}
	for _, existing := range r.db.aspirations {
		if existing.CandidateID == a.CandidateID && existing.ExamID == a.ExamID && existing.Priority == a.Priority {
			return 0, repositories.ErrSlotTaken
		}
	}

	stored := clone(a)
	stored.ID = r.db.nextID("aspirations")
	r.db.aspirations[stored.ID] = stored
	return stored.ID, nil
}

// GetByID retrieves an aspiration by ID
func (r *AspirationRepository) GetByID(_ context.Context, id int64) (*models.Aspiration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if a, ok := r.db.aspirations[id]; ok {
		return clone(a), nil
	}
	return nil, repositories.ErrNotFound
}

// ListByCandidate returns a candidate's aspirations with catalog labels, by priority
func (r *AspirationRepository) ListByCandidate(_ context.Context, candidateID int64) ([]*models.AspirationDetail, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := []*models.AspirationDetail{}
	for _, a := range r.db.aspirations {
		if a.CandidateID == candidateID {
			result = append(result, r.detailLocked(a))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority < result[j].Priority
		}
		return result[i].ExamID < result[j].ExamID
	})
	return result, nil
}

// CountByCandidateExam counts a candidate's aspirations in one exam
func (r *AspirationRepository) CountByCandidateExam(_ context.Context, candidateID, examID int64) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, a := range r.db.aspirations {
		if a.CandidateID == candidateID && a.ExamID == examID {
			count++
		}
	}
	return count, nil
}

// Delete removes a pending aspiration owned by candidateID that has no payments
func (r *AspirationRepository) Delete(_ context.Context, id, candidateID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.aspirations[id]
	if !ok || a.CandidateID != candidateID {
		return repositories.ErrNotFound
	}
	if a.Status != models.AspirationPending {
		return repositories.ErrAlreadyFinalized
	}
	for _, p := range r.db.payments {
		if p.AspirationID == id {
			return repositories.ErrHasPayments
		}
	}
	delete(r.db.aspirations, id)
	return nil
}

// Reorder applies a priority plan to the candidate's aspirations all at once or not at all
func (r *AspirationRepository) Reorder(_ context.Context, candidateID int64, changes []models.PriorityChange, maxPriority int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	owned := []*models.Aspiration{}
	for _, a := range r.db.aspirations {
		if a.CandidateID == candidateID {
			owned = append(owned, a)
		}
	}

	plan, err := repositories.PlanReorder(owned, changes, maxPriority)
	if err != nil {
		return err
	}
	for id, priority := range plan {
		r.db.aspirations[id].Priority = priority
	}
	return nil
}

// Decide moves a pending aspiration to approved or rejected
func (r *AspirationRepository) Decide(_ context.Context, d models.Decision) (*models.Aspiration, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.aspirations[d.AspirationID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if a.Status != models.AspirationPending {
		return nil, repositories.ErrAlreadyFinalized
	}

	decidedAt := d.DecidedAt
	reviewer := d.ReviewerID
	a.Status = d.Status
	a.ReviewedBy = &reviewer
	a.ReviewedAt = &decidedAt
	a.Notes = clone(d.Notes)
	return clone(a), nil
}

// ListPending returns one window of the review queue, oldest first, and the queue length
func (r *AspirationRepository) ListPending(_ context.Context, offset uint64, limit int) ([]*models.PendingAspiration, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	pending := []*models.PendingAspiration{}
	for _, a := range r.db.aspirations {
		if a.Status != models.AspirationPending {
			continue
		}
		p := &models.PendingAspiration{AspirationDetail: *r.detailLocked(a)}
		if c, ok := r.db.candidates[a.CandidateID]; ok {
			p.CitizenID = c.CitizenID
			if u, ok := r.db.users[c.UserID]; ok {
				p.CandidateName = u.FullName
			}
		}
		pending = append(pending, p)
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].RegisteredAt.Equal(pending[j].RegisteredAt) {
			return pending[i].RegisteredAt.Before(pending[j].RegisteredAt)
		}
		return pending[i].ID < pending[j].ID
	})

	start, end := helpers.CalculateSliceIndices(offset, limit, len(pending))
	return pending[start:end], int64(len(pending)), nil
}

// Stats counts aspirations by state, for one candidate when candidateID is set
func (r *AspirationRepository) Stats(_ context.Context, candidateID *int64) (models.AspirationStats, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var stats models.AspirationStats
	for _, a := range r.db.aspirations {
		if candidateID != nil && a.CandidateID != *candidateID {
			continue
		}
		stats.Add(a.Status, a.PaymentStatus, 1)
	}
	return stats, nil
}
