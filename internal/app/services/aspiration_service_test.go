package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/pkg/apperrors"
)

func (f *fixture) register(t *testing.T, p models.Principal, major *models.Major, priority int) *models.Aspiration {
	t.Helper()
	a, err := f.svc.Aspiration.Register(context.Background(), p, &dto.RegisterAspirationRequest{
		UniversityID: major.UniversityID,
		MajorID:      major.ID,
		Priority:     priority,
	})
	require.NoError(t, err)
	return a
}

func assertReason(t *testing.T, err error, kind apperrors.Kind, reason string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperrors.KindOf(err), err.Error())
	if reason != "" {
		assert.Equal(t, reason, apperrors.ReasonOf(err))
	}
}

func TestAspirationService_RegisterDefaults(t *testing.T) {
	f := newFixture(t, defaultPolicy())

	a := f.register(t, f.candidate, f.hustIT, 1)

	assert.NotZero(t, a.ID)
	assert.Equal(t, f.exam.ID, a.ExamID)
	assert.Equal(t, models.AspirationPending, a.Status)
	assert.Equal(t, models.PaymentStatusPending, a.PaymentStatus)
	assert.Equal(t, f.now, a.RegisteredAt)
}

func TestAspirationService_SlotTaken(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	f.register(t, f.candidate, f.hustIT, 1)

	_, err := f.svc.Aspiration.Register(ctx, f.candidate, &dto.RegisterAspirationRequest{
		UniversityID: f.neu.ID, MajorID: f.neuBA.ID, Priority: 1,
	})
	assertReason(t, err, apperrors.KindConflict, apperrors.ReasonSlotTaken)

	// another candidate may use the same priority
	f.register(t, f.other, f.hustIT, 1)
}

func TestAspirationService_RegisterValidation(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()
	closedID := f.closed.ID
	missingExam := int64(999)

	tests := []struct {
		name   string
		p      models.Principal
		req    dto.RegisterAspirationRequest
		kind   apperrors.Kind
		reason string
	}{
		{"priority zero", f.candidate, dto.RegisterAspirationRequest{UniversityID: f.hust.ID, MajorID: f.hustIT.ID, Priority: 0}, apperrors.KindValidation, ""},
		{"priority eleven", f.candidate, dto.RegisterAspirationRequest{UniversityID: f.hust.ID, MajorID: f.hustIT.ID, Priority: 11}, apperrors.KindValidation, ""},
		{"closed exam", f.candidate, dto.RegisterAspirationRequest{ExamID: &closedID, UniversityID: f.hust.ID, MajorID: f.hustIT.ID, Priority: 1}, apperrors.KindConflict, apperrors.ReasonExamNotActive},
		{"missing exam", f.candidate, dto.RegisterAspirationRequest{ExamID: &missingExam, UniversityID: f.hust.ID, MajorID: f.hustIT.ID, Priority: 1}, apperrors.KindNotFound, apperrors.ReasonExamNotFound},
		{"major of another university", f.candidate, dto.RegisterAspirationRequest{UniversityID: f.hust.ID, MajorID: f.neuBA.ID, Priority: 1}, apperrors.KindNotFound, apperrors.ReasonMajorNotFound},
		{"missing university", f.candidate, dto.RegisterAspirationRequest{UniversityID: 999, MajorID: f.hustIT.ID, Priority: 1}, apperrors.KindNotFound, apperrors.ReasonUniversityNotFound},
		{"staff cannot register", f.manager, dto.RegisterAspirationRequest{UniversityID: f.hust.ID, MajorID: f.hustIT.ID, Priority: 1}, apperrors.KindPermission, apperrors.ReasonRoleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.Aspiration.Register(ctx, tt.p, &req)
			assertReason(t, err, tt.kind, tt.reason)
		})
	}
}

func TestAspirationService_Quota(t *testing.T) {
	ctx := context.Background()

	t.Run("enforced", func(t *testing.T) {
		f := newFixture(t, AdmissionPolicy{MaxAspirationsPerExam: 2, EnforceQuota: true, MaxPriority: 10})
		f.register(t, f.candidate, f.hustIT, 1)
		f.register(t, f.candidate, f.hustEE, 2)

		_, err := f.svc.Aspiration.Register(ctx, f.candidate, &dto.RegisterAspirationRequest{
			UniversityID: f.neu.ID, MajorID: f.neuBA.ID, Priority: 3,
		})
		assertReason(t, err, apperrors.KindConflict, apperrors.ReasonQuotaExceeded)
	})

	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t, AdmissionPolicy{MaxAspirationsPerExam: 2, EnforceQuota: false, MaxPriority: 10})
		f.register(t, f.candidate, f.hustIT, 1)
		f.register(t, f.candidate, f.hustEE, 2)
		f.register(t, f.candidate, f.neuBA, 3)
	})
}

func TestAspirationService_ConcurrentRegisterSameSlot(t *testing.T) {
	f := newFixture(t, AdmissionPolicy{MaxAspirationsPerExam: 10, EnforceQuota: true, MaxPriority: 10})
	ctx := context.Background()

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	majors := []*models.Major{f.hustIT, f.hustEE, f.neuBA}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := majors[i%len(majors)]
			_, err := f.svc.Aspiration.Register(ctx, f.candidate, &dto.RegisterAspirationRequest{
				UniversityID: m.UniversityID, MajorID: m.ID, Priority: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if apperrors.ReasonOf(err) == apperrors.ReasonSlotTaken {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	list, err := f.svc.Aspiration.List(ctx, f.candidate)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAspirationService_ListOrderedAndIsolated(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	f.register(t, f.candidate, f.neuBA, 3)
	f.register(t, f.candidate, f.hustIT, 1)
	f.register(t, f.candidate, f.hustEE, 2)
	f.register(t, f.other, f.hustIT, 1)

	list, err := f.svc.Aspiration.List(ctx, f.candidate)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, a := range list {
		assert.Equal(t, i+1, a.Priority)
	}
	assert.Equal(t, "HUST", list[0].UniversityCode)
	assert.Equal(t, "EXAM_2025", list[0].ExamCode)
}

func TestAspirationService_Remove(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	mine := f.register(t, f.candidate, f.hustIT, 1)
	theirs := f.register(t, f.other, f.hustIT, 1)

	// ownership isolation
	err := f.svc.Aspiration.Remove(ctx, f.candidate, theirs.ID)
	assertReason(t, err, apperrors.KindNotFound, apperrors.ReasonAspirationNotFound)

	require.NoError(t, f.svc.Aspiration.Remove(ctx, f.candidate, mine.ID))
	err = f.svc.Aspiration.Remove(ctx, f.candidate, mine.ID)
	assertReason(t, err, apperrors.KindNotFound, apperrors.ReasonAspirationNotFound)

	// the slot is free again
	f.register(t, f.candidate, f.hustEE, 1)
}

func TestAspirationService_RemoveGuards(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	reviewed := f.register(t, f.candidate, f.hustIT, 1)
	_, err := f.svc.Approval.Approve(ctx, f.manager, reviewed.ID, nil)
	require.NoError(t, err)
	err = f.svc.Aspiration.Remove(ctx, f.candidate, reviewed.ID)
	assertReason(t, err, apperrors.KindConflict, apperrors.ReasonAlreadyFinalized)

	paying := f.register(t, f.candidate, f.hustEE, 2)
	_, err = f.svc.Payment.Create(ctx, f.candidate, paying.ID, "momo")
	require.NoError(t, err)
	err = f.svc.Aspiration.Remove(ctx, f.candidate, paying.ID)
	assertReason(t, err, apperrors.KindConflict, apperrors.ReasonHasPayments)
}

func TestAspirationService_ReorderSwap(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	a := f.register(t, f.candidate, f.hustIT, 1)
	b := f.register(t, f.candidate, f.hustEE, 2)

	list, err := f.svc.Aspiration.Reorder(ctx, f.candidate, []models.PriorityChange{
		{AspirationID: a.ID, Priority: 2},
		{AspirationID: b.ID, Priority: 1},
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}

func TestAspirationService_ReorderIsAllOrNothing(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	a := f.register(t, f.candidate, f.hustIT, 1)
	b := f.register(t, f.candidate, f.hustEE, 2)
	c := f.register(t, f.candidate, f.neuBA, 3)
	theirs := f.register(t, f.other, f.hustIT, 1)

	tests := []struct {
		name    string
		changes []models.PriorityChange
		kind    apperrors.Kind
		reason  string
	}{
		{
			name:    "collides with untouched aspiration",
			changes: []models.PriorityChange{{AspirationID: a.ID, Priority: 5}, {AspirationID: b.ID, Priority: 3}},
			kind:    apperrors.KindConflict,
			reason:  apperrors.ReasonPriorityCollision,
		},
		{
			name:    "duplicate target priority",
			changes: []models.PriorityChange{{AspirationID: a.ID, Priority: 4}, {AspirationID: b.ID, Priority: 4}},
			kind:    apperrors.KindConflict,
			reason:  apperrors.ReasonPriorityCollision,
		},
		{
			name:    "foreign aspiration",
			changes: []models.PriorityChange{{AspirationID: a.ID, Priority: 4}, {AspirationID: theirs.ID, Priority: 5}},
			kind:    apperrors.KindNotFound,
			reason:  apperrors.ReasonAspirationNotFound,
		},
		{
			name:    "out of range",
			changes: []models.PriorityChange{{AspirationID: a.ID, Priority: 4}, {AspirationID: c.ID, Priority: 11}},
			kind:    apperrors.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Aspiration.Reorder(ctx, f.candidate, tt.changes)
			assertReason(t, err, tt.kind, tt.reason)

			list, err := f.svc.Aspiration.List(ctx, f.candidate)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3}, []int{list[0].Priority, list[1].Priority, list[2].Priority})
		})
	}

	theirList, err := f.svc.Aspiration.List(ctx, f.other)
	require.NoError(t, err)
	assert.Equal(t, 1, theirList[0].Priority)
}

func TestAspirationService_SnapshotAndStats(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	a := f.register(t, f.candidate, f.hustIT, 1)
	f.register(t, f.candidate, f.hustEE, 2)

	payment, err := f.svc.Payment.Create(ctx, f.candidate, a.ID, "momo")
	require.NoError(t, err)
	_, _, err = f.svc.Payment.Verify(ctx, f.candidate, payment.TransactionID)
	require.NoError(t, err)

	stats, err := f.svc.Aspiration.Stats(ctx, f.candidate)
	require.NoError(t, err)
	assert.Equal(t, models.AspirationStats{Total: 2, Pending: 2, Paid: 1, Unpaid: 1}, stats)

	snap, err := f.svc.Aspiration.Snapshot(ctx, f.candidate, 0)
	require.NoError(t, err)
	assert.Equal(t, "candidate", snap.User.Username)
	assert.Equal(t, f.exam.ID, snap.Exam.ID)
	assert.Len(t, snap.Aspirations, 2)
	assert.Equal(t, int64(50000), snap.TotalPaid)
	assert.Equal(t, f.now, snap.GeneratedAt)
}

func TestAspirationService_SnapshotScopedToExam(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	candidate, err := f.repos.UserRepository.GetCandidateByUserID(ctx, f.candidate.UserID)
	require.NoError(t, err)

	// A row left over from last year's cycle
	old := &models.Aspiration{
		CandidateID:   candidate.ID,
		ExamID:        f.closed.ID,
		UniversityID:  f.neu.ID,
		MajorID:       f.neuBA.ID,
		Priority:      1,
		Status:        models.AspirationApproved,
		PaymentStatus: models.PaymentStatusPending,
		RegisteredAt:  f.now.AddDate(-1, 0, 0),
	}
	old.ID, err = f.repos.AspirationRepository.Create(ctx, old)
	require.NoError(t, err)

	current := f.register(t, f.candidate, f.hustIT, 1)
	f.now = f.now.Add(time.Minute)
	f.register(t, f.candidate, f.hustEE, 2)

	snap, err := f.svc.Aspiration.Snapshot(ctx, f.candidate, 0)
	require.NoError(t, err)
	require.NotNil(t, snap.Exam)
	assert.Equal(t, f.exam.ID, snap.Exam.ID)
	require.Len(t, snap.Aspirations, 2)
	assert.Equal(t, current.ID, snap.Aspirations[0].ID)
	assert.Equal(t, int64(2), snap.Stats.Total)

	snap, err = f.svc.Aspiration.Snapshot(ctx, f.candidate, f.closed.ID)
	require.NoError(t, err)
	assert.Equal(t, f.closed.ID, snap.Exam.ID)
	require.Len(t, snap.Aspirations, 1)
	assert.Equal(t, old.ID, snap.Aspirations[0].ID)
	assert.Equal(t, models.AspirationStats{Total: 1, Approved: 1, Unpaid: 1}, snap.Stats)

	_, err = f.svc.Aspiration.Snapshot(ctx, f.candidate, 999)
	assertReason(t, err, apperrors.KindNotFound, apperrors.ReasonExamNotFound)

	// No aspirations yet falls back to the open exam
	snap, err = f.svc.Aspiration.Snapshot(ctx, f.other, 0)
	require.NoError(t, err)
	assert.Equal(t, f.exam.ID, snap.Exam.ID)
	assert.Empty(t, snap.Aspirations)
}
