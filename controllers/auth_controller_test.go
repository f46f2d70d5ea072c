package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rcamargo/likert-server/models"
	"github.com/rcamargo/likert-server/utils"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	ac := NewAuthController(db)
	r := gin.New()
	r.POST("/api/auth/register", ac.Register)

	mustCreate(t, db, &models.User{Name: "Ana Costa", Email: "ana@empresa.com", Password: "x"})

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{
			name:           "valid registration",
			body:           map[string]interface{}{"name": "João Silva", "email": "joao@empresa.com", "password": "123456"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate email",
			body:           map[string]interface{}{"name": "Outra Ana", "email": "ana@empresa.com", "password": "123456"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "password too short",
			body:           map[string]interface{}{"name": "Maria", "email": "maria@empresa.com", "password": "123"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid email",
			body:           map[string]interface{}{"name": "Maria", "email": "not-an-email", "password": "123456"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveJSON(r, "POST", "/api/auth/register", jsonBody(t, tt.body))
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d. Body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.expectedStatus == http.StatusCreated {
				if strings.Contains(w.Body.String(), "password") {
					t.Error("response leaks the password field")
				}
				resp := decodeJSON(t, w)
				user := resp["user"].(map[string]interface{})
				if user["is_admin"] != false {
					t.Error("self-registered account must not be admin")
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := newTestDB(t)
	hash, err := utils.HashPassword("123456")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	mustCreate(t, db, &models.User{Name: "Ana Costa", Email: "ana@empresa.com", Password: hash, IsAdmin: true})

	ac := NewAuthController(db)
	r := gin.New()
	r.POST("/api/auth/login", ac.Login)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		wantRole       string
	}{
		{
			name:           "valid credentials",
			body:           map[string]interface{}{"email": "ana@empresa.com", "password": "123456"},
			expectedStatus: http.StatusOK,
			wantRole:       "admin",
		},
		{
			name:           "wrong password",
			body:           map[string]interface{}{"email": "ana@empresa.com", "password": "wrong"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown email",
			body:           map[string]interface{}{"email": "nobody@empresa.com", "password": "123456"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			body:           map[string]interface{}{"email": "ana@empresa.com"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveJSON(r, "POST", "/api/auth/login", jsonBody(t, tt.body))
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d. Body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			resp := decodeJSON(t, w)
			token, ok := resp["token"].(string)
			if !ok || token == "" {
				t.Fatal("response missing token")
			}
			claims, err := utils.VerifyToken(token)
			if err != nil {
				t.Fatalf("issued token does not verify: %v", err)
			}
			if claims.Role != tt.wantRole {
				t.Errorf("token role = %q, want %q", claims.Role, tt.wantRole)
			}
		})
	}
}

func TestMe(t *testing.T) {
	db := newTestDB(t)
	u := models.User{Name: "João Silva", Email: "joao@empresa.com", Password: "x"}
	mustCreate(t, db, &u)

	ac := NewAuthController(db)
	r := gin.New()
	r.GET("/api/me", asUser(u), ac.Me)

	w := serveJSON(r, "GET", "/api/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. Body: %s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	user := resp["user"].(map[string]interface{})
	if user["email"] != "joao@empresa.com" {
		t.Errorf("email = %v, want joao@empresa.com", user["email"])
	}
}
