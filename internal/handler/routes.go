package handler

import (
	"github.com/gin-gonic/gin"

	internalmiddleware "github.com/noah-isme/lesson-booking-api/internal/middleware"
	"github.com/noah-isme/lesson-booking-api/internal/models"
)

// Routes bundles the handlers mounted under the API prefix.
type Routes struct {
	Lessons *LessonHandler
	Periods *PeriodHandler
	Tokens  internalmiddleware.TokenValidator
}

// Register mounts the lesson and period endpoints. Reads need any valid
// token; writes need an administrator.
func Register(api gin.IRouter, routes Routes) {
	authed := api.Group("", internalmiddleware.JWT(routes.Tokens))
	admin := internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)

	lessons := authed.Group("/lessons")
	lessons.GET("", routes.Lessons.List)
	lessons.GET("/export", routes.Lessons.Export)
	lessons.POST("", admin, routes.Lessons.Create)
	lessons.PUT("/:id", admin, routes.Lessons.Update)
	lessons.DELETE("", admin, routes.Lessons.Delete)

	authed.GET("/periods", routes.Periods.List)
}
