// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/docparse/internal/convert"
	"github.com/pdiddy/docparse/internal/export"
	"github.com/pdiddy/docparse/pkg/types"
)

type addRequest struct {
	URL string `json:"url"`
}

type exportRequest struct {
	Format   string `json:"format"`
	Filename string `json:"filename"`
}

// GET /papers
func (s *Server) listPapers(c *gin.Context) {
	c.JSON(http.StatusOK, s.papers.List())
}

// POST /papers
func (s *Server) addPaper(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}
	if !s.allowFiles {
		if kind, _ := convert.Classify(req.URL); kind == convert.SourceFile {
			c.JSON(http.StatusBadRequest, gin.H{"error": "local file locators are not accepted"})
			return
		}
	}

	paper, err := s.papers.Add(c.Request.Context(), req.URL)
	if err != nil {
		c.Error(err)
		var vErr *types.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, paper)
}

// GET /papers/:id
func (s *Server) getPaper(c *gin.Context) {
	id, ok := paperID(c)
	if !ok {
		return
	}
	paper, found := s.papers.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}
	c.JSON(http.StatusOK, paper)
}

// DELETE /papers/:id
func (s *Server) deletePaper(c *gin.Context) {
	id, ok := paperID(c)
	if !ok {
		return
	}
	removed, err := s.papers.Remove(id)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /export
func (s *Server) exportPapers(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export request"})
		return
	}

	if req.Filename != "" && !isPlainFileName(req.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename must be a plain file name"})
		return
	}

	format := s.exportFormat
	if req.Format != "" {
		f, err := export.ParseFormat(req.Format)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		format = f
	}

	filename, err := s.papers.Export(format, req.Filename)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "filename": filename})
}

// GET /health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "papers": s.papers.Len()})
}

// isPlainFileName reports whether name is a single path element, so an
// export cannot be written outside the export directory.
func isPlainFileName(name string) bool {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return false
	}
	return !filepath.IsAbs(name) && filepath.VolumeName(name) == ""
}

func paperID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paper id"})
		return 0, false
	}
	return id, true
}
