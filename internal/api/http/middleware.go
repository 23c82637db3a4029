package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/minhtran24/meethub/internal/auth"
	"github.com/minhtran24/meethub/internal/domain"
)

const userContextKey = "current_user"

func AuthRequired(verifier *auth.Verifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		user, err := verifier.Authenticate(ctx.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, auth.ErrUnauthorized) {
				status = http.StatusForbidden
			}
			ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}

		ctx.Set(userContextKey, user)
		ctx.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := currentUser(ctx)
		if user == nil || user.Role != domain.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		ctx.Next()
	}
}

func currentUser(ctx *gin.Context) *domain.User {
	value, ok := ctx.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil
	}
	return user
}
