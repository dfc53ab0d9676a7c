package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves a compiled web frontend with SPA fallback. Unknown API
// paths always answer with a JSON 404, with or without a frontend.
func (s *Server) mountStatic() {
	index := s.frontendIndex()

	s.engine.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if index == "" || path == "/api" || strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.File(index)
	})
	if index == "" {
		return
	}

	root := filepath.Dir(index)
	s.engine.GET("/", func(c *gin.Context) { c.File(index) })
	if dirExists(filepath.Join(root, "assets")) {
		s.engine.StaticFS("/assets", gin.Dir(filepath.Join(root, "assets"), false))
	}
	if favicon := filepath.Join(root, "favicon.ico"); fileExists(favicon) {
		s.engine.StaticFile("/favicon.ico", favicon)
	}
	s.logger.Info("serving frontend", "path", root)
}

// frontendIndex returns the path of index.html in the static directory, or
// "" when there is nothing to serve.
func (s *Server) frontendIndex() string {
	dir := s.options.StaticDir
	if dir == "" {
		s.logger.Debug("static directory not configured; API only mode")
		return ""
	}
	if !dirExists(dir) {
		s.logger.Warn("static directory missing", "path", dir)
		return ""
	}
	index := filepath.Join(dir, "index.html")
	if !fileExists(index) {
		s.logger.Warn("index.html not found", "path", index)
		return ""
	}
	return index
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
