package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	profiledomain "github.com/smallbiznis/subsense/internal/profile/domain"
)

func (s *Server) GetProfile(c *gin.Context) {
	profile, err := s.profileSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req profiledomain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile, err := s.profileSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// DevUpgradeTier grants premium without payment. Registered outside
// production only; real checkout lives with the external billing provider.
func (s *Server) DevUpgradeTier(c *gin.Context) {
	var req struct {
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile, err := s.profileSvc.UpgradeToPremium(c.Request.Context(), req.ExpiresAt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}
