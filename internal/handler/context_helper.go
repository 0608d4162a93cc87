package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-studio-api/internal/middleware"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	appErrors "github.com/noah-isme/lesson-studio-api/pkg/errors"
	"github.com/noah-isme/lesson-studio-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// requireClaims writes 401 and returns nil when the request is anonymous.
func requireClaims(c *gin.Context) *models.JWTClaims {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil
	}
	return claims
}

// canManagePlan reports whether the caller may read or change the plan.
func canManagePlan(claims *models.JWTClaims, plan *models.LessonPlan) bool {
	return claims.IsAdmin() || (claims.Role == models.RoleTeacher && plan.TeacherID == claims.UserID)
}
