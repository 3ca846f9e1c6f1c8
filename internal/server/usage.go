package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/subsense/internal/usage"
)

func (s *Server) TrackUsage(c *gin.Context) {
	var req usage.TrackGitHubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.usageSvc.TrackGitHub(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
