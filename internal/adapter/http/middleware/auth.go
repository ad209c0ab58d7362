package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "todosvc/internal/adapter/http/helper"
	"todosvc/internal/core/domain"
	"todosvc/internal/core/port"
	"todosvc/pkg/metrics"
)

// TokenVerify gates every route behind the external verification service.
// The gate is a pure pass/fail filter: no identity is propagated into the
// request context.
func TokenVerify(verifier port.TokenVerifier, logger *zap.Logger, appMetrics *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")

		if authorization == "" {
			if appMetrics != nil {
				appMetrics.RecordAuthFailure("missing_token")
			}

			SendDetail(c, http.StatusUnauthorized, "no token provided")
			return
		}

		err := verifier.Verify(c.Request.Context(), authorization)

		if err == nil {
			c.Next()
			return
		}

		if errors.Is(err, domain.ErrAuthUnavailable) {
			if appMetrics != nil {
				appMetrics.RecordAuthFailure("verifier_unavailable")
			}

			logger.Error("Verification service unreachable",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))

			SendDetail(c, http.StatusServiceUnavailable, "authentication service unavailable")
			return
		}

		if appMetrics != nil {
			appMetrics.RecordAuthFailure("invalid_token")
		}

		logger.Warn("Token rejected",
			zap.String("path", c.Request.URL.Path))

		SendDetail(c, http.StatusUnauthorized, "invalid token")
	}
}
