package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/pkg/apperrors"
)

func TestNewTransactionID(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	id, err := NewTransactionID(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TXN20250102030405[0-9a-f]{8}$`), id)

	other, err := NewTransactionID(now)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestPaymentService_Config(t *testing.T) {
	f := newFixture(t, defaultPolicy())

	cfg := f.svc.Payment.Config()
	assert.Equal(t, int64(50000), cfg.Fee)
	assert.Equal(t, "VND", cfg.Currency)
	assert.Contains(t, cfg.Methods, "momo")

	// callers cannot mutate the policy through the returned slice
	cfg.Methods[0] = "cash"
	assert.NotContains(t, f.svc.Payment.Config().Methods, "cash")
}

func TestPaymentService_CreateAndVerify(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()
	a := f.register(t, f.candidate, f.hustIT, 1)

	payment, err := f.svc.Payment.Create(ctx, f.candidate, a.ID, "momo")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionPending, payment.Status)
	assert.Equal(t, int64(50000), payment.Amount)
	assert.Equal(t, f.exam.ID, payment.ExamID)
	assert.Nil(t, payment.PaymentDate)

	f.now = f.now.Add(time.Minute)
	verified, applied, err := f.svc.Payment.Verify(ctx, f.candidate, payment.TransactionID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, models.TransactionCompleted, verified.Status)
	require.NotNil(t, verified.PaymentDate)
	assert.Equal(t, f.now, *verified.PaymentDate)

	stored, err := f.repos.AspirationRepository.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)

	// repeat verification is a no-op
	again, applied, err := f.svc.Payment.Verify(ctx, f.candidate, payment.TransactionID)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, verified.PaymentDate, again.PaymentDate)

	_, err = f.svc.Payment.Create(ctx, f.candidate, a.ID, "momo")
	assertReason(t, err, apperrors.KindConflict, apperrors.ReasonAlreadyPaid)
}

func TestPaymentService_CreateRejects(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()
	mine := f.register(t, f.candidate, f.hustIT, 1)
	theirs := f.register(t, f.other, f.hustIT, 1)

	tests := []struct {
		name         string
		p            models.Principal
		aspirationID int64
		method       string
		kind         apperrors.Kind
		reason       string
	}{
		{"unknown method", f.candidate, mine.ID, "cash", apperrors.KindValidation, ""},
		{"foreign aspiration", f.candidate, theirs.ID, "momo", apperrors.KindNotFound, apperrors.ReasonAspirationNotFound},
		{"missing aspiration", f.candidate, 999, "momo", apperrors.KindNotFound, apperrors.ReasonAspirationNotFound},
		{"staff", f.manager, mine.ID, "momo", apperrors.KindPermission, apperrors.ReasonRoleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Payment.Create(ctx, tt.p, tt.aspirationID, tt.method)
			assertReason(t, err, tt.kind, tt.reason)
		})
	}
}

func TestPaymentService_VerifyRules(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()
	a := f.register(t, f.candidate, f.hustIT, 1)

	first, err := f.svc.Payment.Create(ctx, f.candidate, a.ID, "momo")
	require.NoError(t, err)
	second, err := f.svc.Payment.Create(ctx, f.candidate, a.ID, "zalopay")
	require.NoError(t, err)

	t.Run("unknown transaction", func(t *testing.T) {
		_, _, err := f.svc.Payment.Verify(ctx, f.candidate, "TXN-missing")
		assertReason(t, err, apperrors.KindNotFound, apperrors.ReasonPaymentNotFound)
	})

	t.Run("empty transaction", func(t *testing.T) {
		_, _, err := f.svc.Payment.Verify(ctx, f.candidate, "  ")
		assertReason(t, err, apperrors.KindValidation, "")
	})

	t.Run("other candidate", func(t *testing.T) {
		_, _, err := f.svc.Payment.Verify(ctx, f.other, first.TransactionID)
		assertReason(t, err, apperrors.KindNotFound, apperrors.ReasonPaymentNotFound)
	})

	t.Run("staff may verify", func(t *testing.T) {
		_, applied, err := f.svc.Payment.Verify(ctx, f.admin, first.TransactionID)
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("second payment for a paid aspiration", func(t *testing.T) {
		_, _, err := f.svc.Payment.Verify(ctx, f.candidate, second.TransactionID)
		assertReason(t, err, apperrors.KindConflict, apperrors.ReasonAlreadyPaid)

		stored, err := f.repos.PaymentRepository.GetByTransactionID(ctx, second.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionPending, stored.Status)
	})
}

func TestPaymentService_ConcurrentVerifyAppliesOnce(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()
	a := f.register(t, f.candidate, f.hustIT, 1)
	payment, err := f.svc.Payment.Create(ctx, f.candidate, a.ID, "bank_transfer")
	require.NoError(t, err)

	const n = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applies int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, applied, err := f.svc.Payment.Verify(ctx, f.candidate, payment.TransactionID)
			assert.NoError(t, err)
			if applied {
				mu.Lock()
				applies++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applies)

	count, amount, err := f.repos.PaymentRepository.CompletedTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(50000), amount)
}

func TestPaymentService_History(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()
	a := f.register(t, f.candidate, f.hustIT, 1)
	b := f.register(t, f.candidate, f.neuBA, 2)

	_, err := f.svc.Payment.Create(ctx, f.candidate, a.ID, "momo")
	require.NoError(t, err)
	f.now = f.now.Add(time.Hour)
	_, err = f.svc.Payment.Create(ctx, f.candidate, b.ID, "momo")
	require.NoError(t, err)

	history, err := f.svc.Payment.History(ctx, f.candidate)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, b.ID, history[0].AspirationID)
	assert.Equal(t, "Quản trị kinh doanh", history[0].MajorName)
	assert.Equal(t, 1, history[1].Priority)

	empty, err := f.svc.Payment.History(ctx, f.other)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
