package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"glowbook/pkg/auth"
	apperrors "glowbook/pkg/errors"
)

func TestAuthenticateAndRequireCapability(t *testing.T) {
	ring := auth.NewKeyring()
	ring.Register("admin-key", auth.RolePlatformAdmin)
	ring.Register("customer-key", auth.RoleCustomer)

	router := httprouter.New()
	router.POST("/api/v1/resources", RequireCapability(auth.CapResourcesWrite, testLogger(),
		func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusCreated)
		},
	))

	handler := Authenticate(ring)(router)

	tests := []struct {
		name       string
		apiKey     string
		wantStatus int
	}{
		{
			name:       "platform admin may write resources",
			apiKey:     "admin-key",
			wantStatus: http.StatusCreated,
		},
		{
			name:       "customer may not write resources",
			apiKey:     "customer-key",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown key is forbidden",
			apiKey:     "stolen-key",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing key is forbidden",
			apiKey:     "",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", nil)
			if tt.apiKey != "" {
				req.Header.Set(APIKeyHeader, tt.apiKey)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusForbidden {
				var body struct {
					Code string `json:"code"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if body.Code != apperrors.CodeForbidden {
					t.Errorf("code = %q, want %q", body.Code, apperrors.CodeForbidden)
				}
			}
		})
	}
}
