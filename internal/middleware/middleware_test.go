package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/pkg/apperrors"
	"github.com/yigit/admission/internal/pkg/metrics"
	"github.com/yigit/admission/internal/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		reason string
	}{
		{"validation", apperrors.NewValidationError("priority", "Priority must be between 1 and 10"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, apperrors.ReasonInvalidInput},
		{"bad credentials", apperrors.NewAuthError(apperrors.ReasonInvalidCredentials, "Invalid username or password"), http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, apperrors.ReasonInvalidCredentials},
		{"expired session", apperrors.NewAuthError(apperrors.ReasonInvalidOrExpired, "Session expired"), http.StatusUnauthorized, dto.ErrorCodeInvalidToken, apperrors.ReasonInvalidOrExpired},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden, apperrors.ReasonRoleRequired},
		{"not found", apperrors.NewNotFoundError(apperrors.ReasonAspirationNotFound, "Aspiration not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, apperrors.ReasonAspirationNotFound},
		{"conflict", apperrors.NewConflictError(apperrors.ReasonSlotTaken, "taken"), http.StatusConflict, dto.ErrorCodeConflict, apperrors.ReasonSlotTaken},
		{"storage", apperrors.NewInternalError("Failed to load", errors.New("conn refused")), http.StatusInternalServerError, dto.ErrorCodeDatabaseError, apperrors.ReasonStorageFailure},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.reason, resp.Error.Reason)
		})
	}
}

func TestHandleAPIError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, apperrors.NewInternalError("Failed to load user", errors.New("password=hunter2")))

	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.Equal(t, "Failed to load user", decodeError(t, w).Error.Message)
}

func TestHandleAPIError_FieldAndDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	err := apperrors.NewConflictError(apperrors.ReasonPriorityCollision, "collide").
		WithDetails(map[string]interface{}{"aspirationId": 7})
	HandleAPIError(c, err)

	resp := decodeError(t, w)
	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 7, details["aspirationId"])
}

func newAuthRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStore(0), session.DefaultTTL)
	am := NewAuthMiddleware(sessions)

	r := gin.New()
	r.GET("/me", am.SessionAuth(), func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"username": p.Username, "token": GetSessionToken(c)})
	})
	r.GET("/staff", am.SessionAuth(), am.RoleRequired(models.RoleManager, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, sessions
}

func TestSessionAuth(t *testing.T) {
	r, sessions := newAuthRouter(t)
	sess, err := sessions.Issue(context.Background(), models.Principal{UserID: 1, Username: "candidate", Role: models.RoleCandidate})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"bearer", "Bearer " + sess.Token, http.StatusOK},
		{"raw token", sess.Token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"bare scheme", "Bearer", http.StatusUnauthorized},
		{"unknown", "Bearer deadbeef", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "invalid_or_expired", decodeError(t, w).Error.Reason)
			}
		})
	}
}

func TestRoleRequired(t *testing.T) {
	r, sessions := newAuthRouter(t)
	ctx := context.Background()
	candidate, err := sessions.Issue(ctx, models.Principal{UserID: 1, Username: "candidate", Role: models.RoleCandidate})
	require.NoError(t, err)
	manager, err := sessions.Issue(ctx, models.Principal{UserID: 2, Username: "manager", Role: models.RoleManager})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+candidate.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "role_required", decodeError(t, w).Error.Reason)

	req = httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+manager.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 2, rl.Len())
	rl.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 2, rl.Cleanup(time.Minute))
	assert.Zero(t, rl.Len())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://tuyensinh.example.vn"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://tuyensinh.example.vn")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://tuyensinh.example.vn", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(RequestID(zerolog.Nop()), RequestLogger(), Metrics(m))
	r.GET("/items/:id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/items/5", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/6", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() != "admission_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "path" && label.GetValue() == "/items/:id" {
					found = true
					assert.Equal(t, float64(2), metric.GetCounter().GetValue())
				}
			}
		}
	}
	assert.True(t, found)
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	r := gin.New()
	r.POST("/register", func(c *gin.Context) {
		var req dto.RegisterCandidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	body := `{"username":"nguyenvana","email":"a@example.com","password":"secret123","fullName":"A","citizenId":"12345"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "citizenId", resp.Error.Field)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
}
