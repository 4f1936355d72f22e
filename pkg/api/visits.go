package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// clientAddress prefers the first X-Forwarded-For entry, then X-Real-IP,
// then the connection's remote address
func clientAddress(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return xri
	}
	return c.RemoteIP()
}

// recordVisit godoc
// @Summary Record a visit
// @Description Remembers the client address and returns the unique visitor count
// @Tags visits
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/visit [get]
func (s *Server) recordVisit(c *gin.Context) {
	n, err := s.visits.RecordVisit(c.Request.Context(), clientAddress(c))
	if err != nil {
		s.logger.Error("failed to record visit", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record visit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uniqueVisitors": n})
}

// uniqueVisits godoc
// @Summary Unique visitor count
// @Tags visits
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/unique-visits [get]
func (s *Server) uniqueVisits(c *gin.Context) {
	n, err := s.visits.UniqueVisitors(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to count visitors", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count visitors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uniqueVisitors": n})
}
