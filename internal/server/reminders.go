package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reminderdomain "github.com/smallbiznis/subsense/internal/reminder/domain"
)

func (s *Server) GetReminderSettings(c *gin.Context) {
	settings, err := s.reminderSvc.GetSettings(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}

func (s *Server) UpdateReminderSettings(c *gin.Context) {
	var req reminderdomain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	settings, err := s.reminderSvc.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}

func (s *Server) ListUpcomingRenewals(c *gin.Context) {
	renewals, err := s.reminderSvc.Upcoming(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": renewals})
}
