package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name        string
		authHeader  string
		expectedErr bool
		errContains string
		wantToken   string
	}{
		{
			name:        "empty header",
			authHeader:  "",
			expectedErr: true,
			errContains: "authorization header is required",
		},
		{
			name:        "no bearer prefix",
			authHeader:  "token123",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:        "wrong prefix",
			authHeader:  "Basic token123",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:        "bearer only no token",
			authHeader:  "Bearer",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:        "valid bearer token",
			authHeader:  "Bearer mytoken123",
			expectedErr: false,
			wantToken:   "mytoken123",
		},
		{
			name:        "bearer lowercase",
			authHeader:  "bearer mytoken456",
			expectedErr: false,
			wantToken:   "mytoken456",
		},
		{
			name:        "bearer mixed case",
			authHeader:  "BEARER mytoken789",
			expectedErr: false,
			wantToken:   "mytoken789",
		},
		{
			name:        "bearer with blank token",
			authHeader:  "Bearer   ",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:        "token with spaces",
			authHeader:  "Bearer token with spaces",
			expectedErr: false,
			wantToken:   "token with spaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractTokenFromHeader(tt.authHeader)

			if tt.expectedErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestContextUserClaims(t *testing.T) {
	t.Run("WithUserClaims adds claims to context", func(t *testing.T) {
		ctx := context.Background()
		claims := &UserClaims{
			UID:         "test-uid",
			Email:       "test@example.com",
			DisplayName: "Test User",
			Picture:     "https://example.com/pic.jpg",
			Verified:    true,
		}

		newCtx := WithUserClaims(ctx, claims)

		retrievedClaims, ok := GetUserClaims(newCtx)
		require.True(t, ok)
		assert.Equal(t, claims.UID, retrievedClaims.UID)
		assert.Equal(t, claims.Email, retrievedClaims.Email)
		assert.Equal(t, claims.DisplayName, retrievedClaims.DisplayName)
		assert.Equal(t, claims.Picture, retrievedClaims.Picture)
		assert.Equal(t, claims.Verified, retrievedClaims.Verified)
	})

	t.Run("GetUserClaims returns false for empty context", func(t *testing.T) {
		ctx := context.Background()

		claims, ok := GetUserClaims(ctx)
		assert.False(t, ok)
		assert.Nil(t, claims)
	})

	t.Run("GetUserID returns UID when claims exist", func(t *testing.T) {
		ctx := context.Background()
		claims := &UserClaims{UID: "user-123"}
		ctx = WithUserClaims(ctx, claims)

		uid, ok := GetUserID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user-123", uid)
	})

	t.Run("GetUserID returns empty for empty context", func(t *testing.T) {
		ctx := context.Background()

		uid, ok := GetUserID(ctx)
		assert.False(t, ok)
		assert.Empty(t, uid)
	})
}

func TestIsPublicEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"health endpoint", "/health", true},
		{"ping endpoint", "/ping", true},
		{"scans endpoint", "/v1/scans", false},
		{"health prefix", "/health/deep", false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isPublicEndpoint(tt.path))
		})
	}
}

type fakeVerifier struct {
	tokens map[string]*UserClaims
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (*UserClaims, error) {
	if c, ok := f.tokens[token]; ok {
		return c, nil
	}
	return nil, errors.New("token expired")
}

// echoUser writes the context user ID, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	uid, ok := GetUserID(r.Context())
	if !ok {
		uid = "anonymous"
	}
	w.Write([]byte(uid))
})

func TestMiddleware(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]*UserClaims{"good": {UID: "user-1"}}}
	handler := Middleware(verifier, nil)(echoUser)

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "/v1/scans", "Bearer good", http.StatusOK, "user-1"},
		{"missing header", "/v1/scans", "", http.StatusUnauthorized, "authorization header is required"},
		{"wrong scheme", "/v1/scans", "Basic good", http.StatusUnauthorized, "must be Bearer token"},
		{"rejected token", "/v1/scans", "Bearer bad", http.StatusUnauthorized, "invalid token"},
		{"public path skips auth", "/health", "", http.StatusOK, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestLocalDevMiddleware(t *testing.T) {
	handler := LocalDevMiddleware()(echoUser)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))
	assert.Equal(t, "local-dev-user", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestDebugImpersonation(t *testing.T) {
	t.Run("header honoured when auth skipped", func(t *testing.T) {
		handler := LocalDevMiddleware()(DebugImpersonation(true)(echoUser))
		req := httptest.NewRequest(http.MethodGet, "/v1/scans", nil)
		req.Header.Set(DebugImpersonateHeader, "alice")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "alice", rec.Body.String())
	})

	t.Run("header ignored when auth enforced", func(t *testing.T) {
		handler := DebugImpersonation(false)(echoUser)
		req := httptest.NewRequest(http.MethodGet, "/v1/scans", nil)
		req.Header.Set(DebugImpersonateHeader, "alice")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("impersonated email", func(t *testing.T) {
		var got *UserClaims
		handler := DebugImpersonation(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = GetUserClaims(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/v1/scans", nil)
		req.Header.Set(DebugImpersonateHeader, "bob")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, got)
		assert.Equal(t, "bob@debug.local", got.Email)
	})
}
