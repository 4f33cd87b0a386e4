package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories/memory"
	"github.com/yigit/admission/internal/pkg/auth"
)

func TestCreateDefaultData_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewDB())
	opts := Options{BcryptCost: bcrypt.MinCost}

	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop(), opts))
	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop(), opts))

	universities, err := repos.CatalogRepository.ListUniversities(ctx, true)
	require.NoError(t, err)
	require.Len(t, universities, 4)

	majorCount := 0
	for _, u := range universities {
		majors, err := repos.CatalogRepository.ListMajorsByUniversity(ctx, u.ID)
		require.NoError(t, err)
		majorCount += len(majors)
	}
	assert.Equal(t, 6, majorCount)

	exam, err := repos.CatalogRepository.GetActiveExam(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EXAM_2025", exam.Code)
}

func TestCreateDefaultData_Accounts(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewDB())
	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop(), Options{BcryptCost: bcrypt.MinCost}))

	cases := []struct {
		username string
		password string
		role     models.RoleType
	}{
		{"admin", "admin123", models.RoleAdmin},
		{"manager", "manager123", models.RoleManager},
		{"candidate", "candidate123", models.RoleCandidate},
	}
	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			user, err := repos.UserRepository.GetUserByUsername(ctx, tc.username)
			require.NoError(t, err)
			assert.Equal(t, tc.role, user.Role)
			assert.True(t, user.IsActive)
			assert.True(t, auth.CheckPassword(user.PasswordHash, tc.password))
		})
	}

	user, err := repos.UserRepository.GetUserByUsername(ctx, "candidate")
	require.NoError(t, err)
	candidate, err := repos.UserRepository.GetCandidateByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, defaultCitizenID, candidate.CitizenID)
}
