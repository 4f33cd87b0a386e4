package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/app/repositories/memory"
	"github.com/yigit/admission/internal/pkg/auth"
	"github.com/yigit/admission/internal/pkg/metrics"
	"github.com/yigit/admission/internal/pkg/session"
)

type fixture struct {
	repos    *repositories.Repositories
	svc      *Services
	sessions *session.Manager
	metrics  *metrics.Metrics
	now      time.Time

	candidate models.Principal
	other     models.Principal
	manager   models.Principal
	admin     models.Principal

	exam     *models.Exam
	closed   *models.Exam
	hust     *models.University
	neu      *models.University
	hustIT   *models.Major
	hustEE   *models.Major
	neuBA    *models.Major
	password string
}

func newFixture(t *testing.T, policy AdmissionPolicy) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		repos:    memory.NewRepositories(memory.NewDB()),
		metrics:  metrics.New(),
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		password: "secret123",
	}
	clock := func() time.Time { return f.now }
	f.sessions = session.NewManager(session.NewMemoryStore(0), session.DefaultTTL).WithClock(clock)

	f.svc = NewServices(Dependencies{
		Repos:     f.repos,
		Sessions:  f.sessions,
		Metrics:   f.metrics,
		Logger:    zerolog.Nop(),
		Admission: policy,
		Payment: PaymentPolicy{
			AspirationFee: 50000,
			Currency:      "VND",
			Methods:       []string{"bank_transfer", "momo", "zalopay", "credit_card"},
		},
		Clock:      clock,
		BcryptCost: bcrypt.MinCost,
	})

	hash, err := auth.HashPasswordWithCost(f.password, bcrypt.MinCost)
	require.NoError(t, err)

	f.candidate = f.addCandidate(t, "candidate", "001203004567", hash)
	f.other = f.addCandidate(t, "other", "001203009999", hash)
	f.manager = f.addStaff(t, "manager", models.RoleManager, hash)
	f.admin = f.addStaff(t, "admin", models.RoleAdmin, hash)

	catalog := f.repos.CatalogRepository
	f.exam = &models.Exam{Code: "EXAM_2025", Name: "Kỳ thi 2025", Year: 2025, Status: models.ExamActive}
	f.exam.ID, err = catalog.CreateExam(ctx, f.exam)
	require.NoError(t, err)
	f.closed = &models.Exam{Code: "EXAM_2024", Name: "Kỳ thi 2024", Year: 2024, Status: models.ExamCompleted}
	f.closed.ID, err = catalog.CreateExam(ctx, f.closed)
	require.NoError(t, err)

	f.hust = &models.University{Code: "HUST", Name: "Đại học Bách khoa Hà Nội", IsActive: true}
	f.hust.ID, err = catalog.CreateUniversity(ctx, f.hust)
	require.NoError(t, err)
	f.neu = &models.University{Code: "NEU", Name: "Đại học Kinh tế Quốc dân", IsActive: true}
	f.neu.ID, err = catalog.CreateUniversity(ctx, f.neu)
	require.NoError(t, err)

	f.hustIT = f.addMajor(t, f.hust.ID, "IT1", "Khoa học máy tính")
	f.hustEE = f.addMajor(t, f.hust.ID, "ET1", "Điện tử viễn thông")
	f.neuBA = f.addMajor(t, f.neu.ID, "BA1", "Quản trị kinh doanh")
	return f
}

func (f *fixture) addCandidate(t *testing.T, username, citizenID, hash string) models.Principal {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		FullName:     "Thí sinh " + username,
		Role:         models.RoleCandidate,
		IsActive:     true,
	}
	require.NoError(t, f.repos.UserRepository.CreateCandidateAccount(context.Background(), user, &models.Candidate{CitizenID: citizenID}))
	return user.Principal()
}

func (f *fixture) addStaff(t *testing.T, username string, role models.RoleType, hash string) models.Principal {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		FullName:     "Cán bộ " + username,
		Role:         role,
		IsActive:     true,
	}
	id, err := f.repos.UserRepository.CreateUser(context.Background(), user)
	require.NoError(t, err)
	user.ID = id
	return user.Principal()
}

func (f *fixture) addMajor(t *testing.T, universityID int64, code, name string) *models.Major {
	t.Helper()
	m := &models.Major{UniversityID: universityID, Code: code, Name: name, Quota: 100}
	id, err := f.repos.CatalogRepository.CreateMajor(context.Background(), m)
	require.NoError(t, err)
	m.ID = id
	return m
}

func defaultPolicy() AdmissionPolicy {
	return AdmissionPolicy{MaxAspirationsPerExam: 4, EnforceQuota: true, MaxPriority: 10}
}
