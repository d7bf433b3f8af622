package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/project-ambr/ambr/internal/pkg/logger"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createReport runs the pipeline. Concurrent requests wait for the running
// generation to finish since they share the output workbook.
func (s *Server) createReport(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, err := s.opts.Generate(c.Request.Context())
	if err != nil {
		logger.Errorf("report generation failed: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}
	s.latest = &summary

	c.JSON(http.StatusOK, summary)
}

// latestReport streams the last workbook. The read lock is held until the
// file is sent so a new generation cannot replace it mid-download.
func (s *Server) latestReport(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.latest
	if latest == nil || latest.OutputFile == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report has been generated yet"})

		return
	}

	c.FileAttachment(latest.OutputFile, filepath.Base(latest.OutputFile))
}
