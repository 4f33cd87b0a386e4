package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/auth"
)

type account struct {
	username string
	password string
	fullName string
	role     models.RoleType
}

type university struct {
	code   string
	name   string
	majors []major
}

type major struct {
	code  string
	name  string
	group string
	quota int
}

var defaultAccounts = []account{
	{username: "admin", password: "admin123", fullName: "System Administrator", role: models.RoleAdmin},
	{username: "manager", password: "manager123", fullName: "Admission Manager", role: models.RoleManager},
	{username: "candidate", password: "candidate123", fullName: "Demo Candidate", role: models.RoleCandidate},
}

var defaultUniversities = []university{
	{code: "HUST", name: "Hanoi University of Science and Technology", majors: []major{
		{code: "IT1", name: "Computer Science", group: "A00", quota: 300},
		{code: "ET1", name: "Electronics and Telecommunications", group: "A00", quota: 250},
	}},
	{code: "NEU", name: "National Economics University", majors: []major{
		{code: "BA1", name: "Business Administration", group: "A01", quota: 400},
		{code: "FA1", name: "Finance and Banking", group: "D01", quota: 350},
	}},
	{code: "UET", name: "VNU University of Engineering and Technology", majors: []major{
		{code: "CS1", name: "Computer Science", group: "A00", quota: 200},
	}},
	{code: "HPU", name: "Hai Phong University", majors: []major{
		{code: "SE1", name: "Software Engineering", group: "A01", quota: 150},
	}},
}

const (
	defaultExamCode  = "EXAM_2025"
	defaultCitizenID = "001204000001"
)

// Options tunes CreateDefaultData
type Options struct {
	// BcryptCost is used for the default account passwords; zero means auth.BcryptCost.
	BcryptCost int
	Now        func() time.Time
}

// CreateDefaultData creates the default accounts, the active exam and the
// university catalog when they don't exist. It is safe to run on every start
// and works against any repository backend.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger, opts Options) error {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = auth.BcryptCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error // collect errors without stopping the process

	for _, a := range defaultAccounts {
		if err := ensureAccount(ctx, repos.UserRepository, a, opts); err != nil {
			lgr.Error().Err(err).Str("username", a.username).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := ensureExam(ctx, repos.CatalogRepository, opts.Now()); err != nil {
		lgr.Error().Err(err).Str("exam", defaultExamCode).Msg("Error creating default exam")
		finalErr = errors.Join(finalErr, err)
	}

	for _, u := range defaultUniversities {
		if err := ensureUniversity(ctx, repos.CatalogRepository, u); err != nil {
			lgr.Error().Err(err).Str("university", u.code).Msg("Error creating university catalog")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func ensureAccount(ctx context.Context, users repositories.IUserRepository, a account, opts Options) error {
	_, err := users.GetUserByUsername(ctx, a.username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPasswordWithCost(a.password, opts.BcryptCost)
	if err != nil {
		return err
	}
	now := opts.Now().UTC()
	user := &models.User{
		Username:     a.username,
		Email:        a.username + "@admission.local",
		PasswordHash: hash,
		FullName:     a.fullName,
		Role:         a.role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if a.role != models.RoleCandidate {
		_, err = users.CreateUser(ctx, user)
	} else {
		err = users.CreateCandidateAccount(ctx, user, &models.Candidate{CitizenID: defaultCitizenID, CreatedAt: now})
	}
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil
	}
	return err
}

func ensureExam(ctx context.Context, catalog repositories.ICatalogRepository, now time.Time) error {
	_, err := catalog.GetExamByCode(ctx, defaultExamCode)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)
	_, err = catalog.CreateExam(ctx, &models.Exam{
		Code:              defaultExamCode,
		Name:              "National High School Exam 2025",
		Year:              2025,
		RegistrationStart: &start,
		RegistrationEnd:   &end,
		Status:            models.ExamActive,
		CreatedAt:         now.UTC(),
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil
	}
	return err
}

func ensureUniversity(ctx context.Context, catalog repositories.ICatalogRepository, u university) error {
	existing, err := catalog.GetUniversityByCode(ctx, u.code)
	var universityID int64
	switch {
	case err == nil:
		universityID = existing.ID
	case errors.Is(err, repositories.ErrNotFound):
		universityID, err = catalog.CreateUniversity(ctx, &models.University{
			Code:      u.code,
			Name:      u.name,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
	default:
		return err
	}

	var finalErr error
	for _, m := range u.majors {
		group := m.group
		_, err := catalog.CreateMajor(ctx, &models.Major{
			UniversityID: universityID,
			Code:         m.code,
			Name:         m.name,
			SubjectGroup: &group,
			Quota:        m.quota,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil && !errors.Is(err, repositories.ErrDuplicate) {
			finalErr = errors.Join(finalErr, err)
		}
	}
	return finalErr
}
