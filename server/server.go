// SPDX-License-Identifier: GPL-3.0-or-later
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/feedback"
	"github.com/CrawX/go-imap-triage/log"
	"github.com/CrawX/go-imap-triage/snapshot"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	FolderInbox = "inbox"
	FolderSpam  = "spam"
)

type Corrector interface {
	Correct(subjects []string, label domain.Label) (*feedback.Result, error)
}

// Server exposes the current snapshot and accepts corrections over HTTP.
type Server struct {
	router    *gin.Engine
	snapshots *snapshot.Cache
	corrector Corrector

	l *logrus.Logger
}

func NewServer(snapshots *snapshot.Cache, corrector Corrector) *Server {
	s := &Server{
		router:    gin.New(),
		snapshots: snapshots,
		corrector: corrector,
		l:         log.Logger(log.LOG_SERVER),
	}
	s.router.Use(gin.Recovery(), requestLogger(s.l))
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	api.GET("/emails", s.emails)
	api.GET("/status", s.status)
	api.GET("/stats", s.stats)
	api.POST("/corrections", s.corrections)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) emails(c *gin.Context) {
	current := s.snapshots.Load()
	switch c.DefaultQuery("folder", FolderInbox) {
	case FolderInbox:
		c.JSON(http.StatusOK, current.Inbox)
	case FolderSpam:
		c.JSON(http.StatusOK, current.Spam)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder must be inbox or spam"})
	}
}

func (s *Server) status(c *gin.Context) {
	current := s.snapshots.Load()
	c.JSON(http.StatusOK, gin.H{
		"status":    current.Status,
		"degraded":  current.Degraded,
		"inbox":     len(current.Inbox),
		"spam":      len(current.Spam),
		"updatedAt": current.UpdatedAt,
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, snapshot.ComputeStats(s.snapshots.Load()))
}

// labelValue accepts a label as JSON number or string.
type labelValue string

func (lv *labelValue) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*lv = labelValue(str)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*lv = labelValue(number.String())
	return nil
}

type correctionRequest struct {
	Subjects []string   `json:"subjects" form:"subjects"`
	Label    labelValue `json:"label" form:"label"`
}

func (s *Server) corrections(c *gin.Context) {
	req := correctionRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label, err := domain.ParseLabel(string(req.Label))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.corrector.Correct(req.Subjects, label)
	if errors.Is(err, domain.ErrEmptyBatch) || errors.Is(err, domain.ErrInvalidLabel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.l.WithField("error", err).Error("Could not apply corrections")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not apply corrections"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func requestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("Handled request")
	}
}
