package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/alpha-clean/internal/auth"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextTokenID   = "tokenID"
	ContextTokenExp  = "tokenExp"
	ContextRequestID = "requestID"
)

// AuthMiddleware exige "Authorization: Bearer <jwt>" válido e não revogado.
func AuthMiddleware(issuer *auth.Issuer, revoked auth.RevocationStore, logger *logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Faça login para continuar.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Cabeçalho de autorização inválido.")
			c.Abort()
			return
		}

		claims, err := issuer.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Sessão inválida ou expirada.")
			c.Abort()
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("revocation check failed", "error", err)
				httperr.Internal(c, "internal_error", "Erro ao validar sessão.")
				c.Abort()
				return
			}
			if isRevoked {
				httperr.Unauthorized(c, "token_revoked", "Sessão encerrada. Faça login novamente.")
				c.Abort()
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextTokenID, claims.ID)
		c.Set(ContextTokenExp, claims.ExpiresAt)

		c.Next()
	}
}

// RequireRole barra com 403 quem não tiver um dos papéis.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Você não tem permissão para esta ação.")
		c.Abort()
	}
}

func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func UserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

func TokenID(c *gin.Context) string {
	return c.GetString(ContextTokenID)
}

func TokenExpiry(c *gin.Context) time.Time {
	return c.GetTime(ContextTokenExp)
}
