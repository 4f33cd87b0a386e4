package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
)

// PaymentRepository is the in-memory payment store
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository creates a memory PaymentRepository
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create stores a pending payment for an unpaid aspiration
func (r *PaymentRepository) Create(_ context.Context, p *models.Payment) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.aspirations[p.AspirationID]
	if !ok || a.CandidateID != p.CandidateID {
		return 0, repositories.ErrNotFound
	}
	if a.PaymentStatus == models.PaymentStatusPaid {
		return 0, repositories.ErrAlreadyPaid
	}
	for _, existing := range r.db.payments {
		if existing.TransactionID == p.TransactionID {
			return 0, repositories.ErrDuplicate
		}
		if existing.AspirationID == p.AspirationID && existing.Status == models.TransactionCompleted {
			return 0, repositories.ErrAlreadyPaid
		}
	}

	stored := clone(p)
	stored.ID = r.db.nextID("payments")
	r.db.payments[stored.ID] = stored
	return stored.ID, nil
}

func (r *PaymentRepository) findLocked(transactionID string) *models.Payment {
	for _, p := range r.db.payments {
		if p.TransactionID == transactionID {
			return p
		}
	}
	return nil
}

// GetByTransactionID retrieves a payment by its transaction id
func (r *PaymentRepository) GetByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if p := r.findLocked(transactionID); p != nil {
		return clone(p), nil
	}
	return nil, repositories.ErrNotFound
}

// Complete marks a payment and its aspiration paid; the bool reports whether this call did it
func (r *PaymentRepository) Complete(_ context.Context, transactionID string, paidAt time.Time) (*models.Payment, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p := r.findLocked(transactionID)
	if p == nil {
		return nil, false, repositories.ErrNotFound
	}
	if p.Status == models.TransactionCompleted {
		return clone(p), false, nil
	}

	a, ok := r.db.aspirations[p.AspirationID]
	if !ok || a.PaymentStatus == models.PaymentStatusPaid {
		return nil, false, repositories.ErrAlreadyPaid
	}

	// Both rows change under the same lock
	p.Status = models.TransactionCompleted
	p.PaymentDate = &paidAt
	a.PaymentStatus = models.PaymentStatusPaid
	return clone(p), true, nil
}

// ListByCandidate returns a candidate's payments, newest first
func (r *PaymentRepository) ListByCandidate(_ context.Context, candidateID int64) ([]*models.PaymentDetail, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := []*models.PaymentDetail{}
	for _, p := range r.db.payments {
		if p.CandidateID != candidateID {
			continue
		}
		d := &models.PaymentDetail{Payment: *clone(p)}
		if a, ok := r.db.aspirations[p.AspirationID]; ok {
			d.Priority = a.Priority
			if u, ok := r.db.universities[a.UniversityID]; ok {
				d.UniversityName = u.Name
			}
			if m, ok := r.db.majors[a.MajorID]; ok {
				d.MajorName = m.Name
			}
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// CompletedTotals returns the number and summed amount of completed payments
func (r *PaymentRepository) CompletedTotals(_ context.Context) (int64, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var count, amount int64
	for _, p := range r.db.payments {
		if p.Status == models.TransactionCompleted {
			count++
			amount += p.Amount
		}
	}
	return count, amount, nil
}
