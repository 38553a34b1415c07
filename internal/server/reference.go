package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListPositions(c *gin.Context) {
	positions, err := s.refRepo.ListPositions(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": positions})
}
