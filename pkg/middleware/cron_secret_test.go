package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestCronSecretVerification(t *testing.T) {
	const secret = "sweep-secret"

	handler := CronSecretVerification(secret, testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{
			name:       "valid secret",
			header:     secret,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing secret",
			header:     "",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong secret",
			header:     "guess",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal/holds/sweep", nil)
			if tt.header != "" {
				req.Header.Set(CronSecretHeader, tt.header)
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
