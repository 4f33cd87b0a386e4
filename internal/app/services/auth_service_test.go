package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/pkg/apperrors"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	resp, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "candidate", Password: f.password})
	require.NoError(t, err)
	assert.Len(t, resp.Token.AccessToken, 64)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(86400), resp.Token.ExpiresIn)
	assert.Equal(t, f.now.Add(24*time.Hour), resp.Token.ExpiresAt)
	assert.Equal(t, models.RoleCandidate, resp.User.Role)

	principal, err := f.sessions.Verify(ctx, resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.candidate, principal)

	require.NoError(t, f.svc.Auth.Logout(ctx, resp.Token.AccessToken))
	_, err = f.sessions.Verify(ctx, resp.Token.AccessToken)
	assertReason(t, err, apperrors.KindAuth, apperrors.ReasonInvalidOrExpired)
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	_, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "candidate", Password: "wrong"})
	assertReason(t, err, apperrors.KindAuth, apperrors.ReasonInvalidCredentials)

	_, err = f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: f.password})
	assertReason(t, err, apperrors.KindAuth, apperrors.ReasonInvalidCredentials)

	_, err = f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: " ", Password: ""})
	assertReason(t, err, apperrors.KindValidation, "")
}

func TestAuthService_SessionExpiry(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()

	resp, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "manager", Password: f.password})
	require.NoError(t, err)

	f.now = f.now.Add(23*time.Hour + 59*time.Minute)
	_, err = f.sessions.Verify(ctx, resp.Token.AccessToken)
	require.NoError(t, err)

	f.now = f.now.Add(time.Minute)
	_, err = f.sessions.Verify(ctx, resp.Token.AccessToken)
	assertReason(t, err, apperrors.KindAuth, apperrors.ReasonInvalidOrExpired)
}

func TestAuthService_RegisterCandidate(t *testing.T) {
	f := newFixture(t, defaultPolicy())
	ctx := context.Background()
	phone := "0912345678"

	req := &dto.RegisterCandidateRequest{
		Username:  "nguyenvana",
		Email:     "NguyenVanA@Example.com ",
		Password:  "secret123",
		FullName:  " Nguyễn Văn A ",
		CitizenID: "001203001111",
		Phone:     &phone,
	}
	profile, err := f.svc.Auth.RegisterCandidate(ctx, req)
	require.NoError(t, err)
	assert.NotZero(t, profile.User.ID)
	assert.Equal(t, "nguyenvana@example.com", profile.User.Email)
	assert.Equal(t, "Nguyễn Văn A", profile.User.FullName)
	assert.Equal(t, models.RoleCandidate, profile.User.Role)
	assert.Equal(t, profile.User.ID, profile.Candidate.UserID)

	login, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "nguyenvana", Password: "secret123"})
	require.NoError(t, err)

	me, err := f.svc.Auth.Me(ctx, login.User.Principal())
	require.NoError(t, err)
	require.NotNil(t, me.Candidate)
	assert.Equal(t, "001203001111", me.Candidate.CitizenID)

	dup := *req
	dup.Username = "someoneelse"
	dup.Email = "else@example.com"
	_, err = f.svc.Auth.RegisterCandidate(ctx, &dup)
	assertReason(t, err, apperrors.KindConflict, apperrors.ReasonDuplicate)
}

func TestAuthService_MeForStaff(t *testing.T) {
	f := newFixture(t, defaultPolicy())

	me, err := f.svc.Auth.Me(context.Background(), f.manager)
	require.NoError(t, err)
	assert.Equal(t, "manager", me.User.Username)
	assert.Nil(t, me.Candidate)

	_, err = f.svc.Auth.Me(context.Background(), models.Principal{UserID: 999, Role: models.RoleAdmin})
	assertReason(t, err, apperrors.KindNotFound, apperrors.ReasonUserNotFound)
}
