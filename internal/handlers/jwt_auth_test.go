package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ribbitreels/learning-service/internal/models"
)

func roleContext(t *testing.T, role interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if role != nil {
		c.Set("user_role", role)
	}
	return c, rec
}

func TestRequireRoleMiddleware(t *testing.T) {
	am := NewJWTAuthMiddleware(nil)

	tests := []struct {
		name      string
		role      interface{}
		required  []models.UserRole
		wantAbort bool
	}{
		{"AdminPassesOwnGate", models.RoleAdmin, []models.UserRole{models.RoleAdmin}, false},
		{"AdminPassesOtherGate", models.RoleAdmin, []models.UserRole{models.RoleUser}, false},
		{"AdminPassesEmptyGate", models.RoleAdmin, nil, false},
		{"UserPassesOwnGate", models.RoleUser, []models.UserRole{models.RoleUser}, false},
		{"UserBlockedFromAdminGate", models.RoleUser, []models.UserRole{models.RoleAdmin}, true},
		{"UserBlockedByEmptyGate", models.RoleUser, nil, true},
		{"MissingRoleForbidden", nil, []models.UserRole{models.RoleUser}, true},
		{"WrongRoleTypeForbidden", "admin", []models.UserRole{models.RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := roleContext(t, tt.role)
			am.RequireRoleMiddleware(tt.required...)(c)

			if tt.wantAbort {
				if !c.IsAborted() || rec.Code != http.StatusForbidden {
					t.Errorf("Expected 403 abort, got aborted=%v status=%d", c.IsAborted(), rec.Code)
				}
			} else if c.IsAborted() {
				t.Errorf("Request must pass the gate, got status %d", rec.Code)
			}
		})
	}
}
