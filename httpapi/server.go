// chickguard - monitor brooder comfort from thermal footage
//  Copyright (C) 2026, The ChickGuard Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package httpapi serves comfort reports, the live stream and the
// reading history over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chickguard/chickguard/analysis"
	"github.com/chickguard/chickguard/history"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
	shutdownTimeout     = 5 * time.Second
)

// StatusFunc returns the report for a status request.
type StatusFunc func() analysis.Report

// New returns a server answering status requests with status. video
// serves the live stream and store the reading history; either may be
// nil when the feature is disabled.
func New(conf Config, status StatusFunc, video http.Handler, store history.Store) *Server {
	s := &Server{
		conf:   conf,
		status: status,
		video:  video,
		store:  store,
	}

	router := gin.New()
	router.Use(gin.Recovery(), cors())
	api := router.Group("/api")
	api.GET("/status", s.handleStatus)
	api.GET("/video", s.handleVideo)
	api.GET("/video-file", s.handleVideoFile)
	api.GET("/history", s.handleHistory)
	s.router = router
	return s
}

type Server struct {
	conf   Config
	status StatusFunc
	video  http.Handler
	store  history.Store
	router *gin.Engine
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.conf.Address,
		Handler: s.router,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", s.conf.Address)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.status())
}

func (s *Server) handleVideo(c *gin.Context) {
	if s.video == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Video stream not available",
		})
		return
	}
	s.video.ServeHTTP(c.Writer, c.Request)
}

func (s *Server) handleVideoFile(c *gin.Context) {
	if s.conf.VideoFile == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video file not found"})
		return
	}
	if info, err := os.Stat(s.conf.VideoFile); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video file not found"})
		return
	}
	c.File(s.conf.VideoFile)
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "History not enabled",
		})
		return
	}

	limit := defaultHistoryLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit should be a positive number",
			})
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	readings, err := s.store.Recent(c.Request.Context(), limit)
	if err != nil {
		log.Printf("history query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not read history",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"readings": readings,
		"count":    len(readings),
	})
}
