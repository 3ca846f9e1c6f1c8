package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/subsense/internal/usercontext"
)

// HeaderUser identifies the caller in single-tenant self-host mode. A
// fronting auth proxy sets it; without one, requests fall back to the
// configured default user.
const HeaderUser = "X-User-ID"

// UserContext resolves the active user and injects it into the request
// context for the service layer.
func (s *Server) UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := s.cfg.DefaultUserID
		if header := strings.TrimSpace(c.GetHeader(HeaderUser)); header != "" {
			parsed, err := strconv.ParseInt(header, 10, 64)
			if err != nil || parsed <= 0 {
				AbortWithError(c, ErrUnauthorized)
				return
			}
			userID = parsed
		}
		if userID <= 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := usercontext.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// PremiumRequired gates an endpoint on the caller's effective tier.
func (s *Server) PremiumRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		premium, err := s.profileSvc.IsPremium(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !premium {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}
