package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset_dashboard/internal/api"
	"asset_dashboard/internal/feature/auth/transport/handler"
)

// mockAuthUsecase はAuthUsecaseインターフェースのモック実装です。
type mockAuthUsecase struct {
	SignupFunc func(ctx context.Context, email, password string) error
	LoginFunc  func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuthUsecase) Signup(ctx context.Context, email, password string) error {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, password)
	}
	return errors.New("SignupFunc is not implemented")
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", errors.New("LoginFunc is not implemented")
}

func performJSON(t *testing.T, uc handler.AuthUsecase, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := handler.NewAuthHandler(uc)
	r := gin.New()
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("success: 201 with message", func(t *testing.T) {
		uc := &mockAuthUsecase{
			SignupFunc: func(ctx context.Context, email, password string) error { return nil },
		}

		w := performJSON(t, uc, "/signup", `{"email":"ops@example.com","password":"longenough"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("failure: invalid email is a 400", func(t *testing.T) {
		w := performJSON(t, &mockAuthUsecase{}, "/signup", `{"email":"not-an-email","password":"longenough"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure: short password is a 400 from binding", func(t *testing.T) {
		w := performJSON(t, &mockAuthUsecase{}, "/signup", `{"email":"ops@example.com","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure: usecase error is a generic 409", func(t *testing.T) {
		uc := &mockAuthUsecase{
			SignupFunc: func(ctx context.Context, email, password string) error {
				return errors.New("email already exists")
			},
		}

		w := performJSON(t, uc, "/signup", `{"email":"ops@example.com","password":"longenough"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		// 実際の失敗理由は漏らさない
		assert.Equal(t, "signup failed", resp.Error)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success: 200 with token", func(t *testing.T) {
		uc := &mockAuthUsecase{
			LoginFunc: func(ctx context.Context, email, password string) (string, error) {
				return "signed-token", nil
			},
		}

		w := performJSON(t, uc, "/login", `{"email":"ops@example.com","password":"longenough"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp api.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("failure: bad credentials are a 401", func(t *testing.T) {
		uc := &mockAuthUsecase{
			LoginFunc: func(ctx context.Context, email, password string) (string, error) {
				return "", errors.New("invalid email or password")
			},
		}

		w := performJSON(t, uc, "/login", `{"email":"ops@example.com","password":"wrongwrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: malformed body is a 400", func(t *testing.T) {
		w := performJSON(t, &mockAuthUsecase{}, "/login", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
