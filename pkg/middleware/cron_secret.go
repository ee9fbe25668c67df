package middleware

import (
	"crypto/subtle"
	"net/http"

	apperrors "glowbook/pkg/errors"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
)

const CronSecretHeader = "X-Cron-Secret"

// CronSecretVerification guards scheduler-only endpoints. The caller is
// the platform cron, not a user session, so authentication is a shared
// secret compared in constant time.
func CronSecretVerification(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(CronSecretHeader)

			if provided == "" {
				logAndRejectCron(w, log, r, "Missing "+CronSecretHeader+" header")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				logAndRejectCron(w, log, r, "Invalid cron secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func logAndRejectCron(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Cron endpoint rejected",
		"request_id", requestIDFrom(r),
		"path", r.URL.Path,
		"reason", reason,
	)

	if err := httputil.WriteError(w, apperrors.Forbidden("Forbidden")); err != nil {
		log.Error("failed to write error response", "middleware", "CronSecretVerification", "error", err)
	}
}
