package ui

import (
	"html/template"
	"net/http"

	"loandash/internal/dashboard"
	appErrors "loandash/internal/errors"

	"github.com/gin-gonic/gin"
)

// indexData is what dashboard.html renders
type indexData struct {
	Page             *dashboard.Page
	SidebarHeader    string
	SidebarSubheader string
	Sidebar          template.HTML
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := appErrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  appErrors.GetCode(err),
	})
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.logger.Error("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	s.respondError(c, appErrors.InternalError("internal server error"))
}

func (s *Server) handleNotFound(c *gin.Context) {
	s.respondError(c, appErrors.NotFound("route "+c.Request.URL.Path))
}

func (s *Server) handleIndex(c *gin.Context) {
	condition, err := s.builder.ParseCondition(c.Query("condition"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	page, err := s.builder.Page(condition)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.renderTemplate(c, "dashboard.html", indexData{
		Page:             page,
		SidebarHeader:    SidebarHeader,
		SidebarSubheader: SidebarSubheader,
		Sidebar:          s.sidebar,
	})
}

func (s *Server) handleOverview(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": s.builder.Metrics()})
}

func (s *Server) handleTrends(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tabs": s.builder.Trends()})
}

func (s *Server) handlePerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"charts": s.builder.Performance()})
}

// handleCondition answers the condition selector. Each call filters the full
// table again, so switching back and forth never carries state over.
func (s *Server) handleCondition(c *gin.Context) {
	condition, err := s.builder.ParseCondition(c.Query("condition"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	view, err := s.builder.Condition(condition)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Trace("condition %s: %d loans, fingerprint %s", view.Condition, view.Loans, view.Fingerprint)

	etag := `"` + view.Fingerprint + `"`
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleHealth(c *gin.Context) {
	ds := s.builder.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"dataset_id": ds.ID().String(),
		"source":     ds.Source(),
		"records":    ds.Len(),
		"loaded_at":  ds.LoadedAt(),
	})
}
