package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/talenthq/hireline/internal/reqcontext"
)

const (
	HeaderUserID     = "X-User-ID"
	contextUserIDKey = "user_id"
)

// CORS answers preflight and tags every response. The dashboard is served
// from a separate origin during development, so the policy is permissive.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// ActorContext resolves the acting user from the X-User-ID header and makes
// it available to services and the audit trail. The header is optional;
// gated routes reject requests that arrive without it.
func (s *Server) ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = reqcontext.WithIPAddress(ctx, c.ClientIP())
		ctx = reqcontext.WithUserAgent(ctx, c.Request.UserAgent())

		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if raw != "" {
			userID, err := snowflake.ParseString(raw)
			if err != nil || userID == 0 {
				AbortWithError(c, ErrForbidden)
				return
			}
			actor := reqcontext.Actor{Type: "user", ID: userID.String()}
			if user, err := s.userRepo.FindByID(ctx, s.db, userID); err == nil && user != nil {
				actor.Name = user.Name
			}
			ctx = reqcontext.WithActor(ctx, actor)
			c.Set(contextUserIDKey, userID.String())
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// authorizeAction gates a route on the actor's role.
func (s *Server) authorizeAction(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := reqcontext.ActorFromContext(c.Request.Context())
		if !ok || actor.ID == "" {
			AbortWithError(c, ErrForbidden)
			return
		}
		subject := fmt.Sprintf("%s:%s", actor.Type, actor.ID)
		if actor.Type == "system" {
			subject = "system"
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), subject, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
