package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roomtrack/backend/config"
	"github.com/roomtrack/backend/pkg/utils"
)

func loginRouter(t *testing.T, password string) *gin.Engine {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	operator := config.OperatorConfig{Email: "operator@example.com", PasswordHash: hash}
	h := NewHandler(operator, NewJWTService("test-secret", 24), zap.NewNop())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	return r
}

func postLogin(r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSuccessReturnsToken(t *testing.T) {
	r := loginRouter(t, "hunter2secret")

	w := postLogin(r, "operator@example.com", "hunter2secret")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data TokenResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Token == "" {
		t.Error("empty token")
	}
	claims, err := NewJWTService("test-secret", 24).Validate(resp.Data.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Email != "operator@example.com" {
		t.Errorf("claims email = %q", claims.Email)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r := loginRouter(t, "hunter2secret")
	if w := postLogin(r, "operator@example.com", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	r := loginRouter(t, "hunter2secret")
	if w := postLogin(r, "intruder@example.com", "hunter2secret"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	r := loginRouter(t, "hunter2secret")
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
