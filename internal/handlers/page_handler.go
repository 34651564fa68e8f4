package handlers

import (
	"html/template"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tabula/internal/common"
	"github.com/ternarybob/tabula/internal/interfaces"
	"github.com/ternarybob/tabula/internal/models"
	"github.com/ternarybob/tabula/internal/templates"
)

type PageHandler struct {
	logger    arbor.ILogger
	templates *template.Template
	snapshots interfaces.SnapshotService
}

func NewPageHandler(snapshots interfaces.SnapshotService, logger arbor.ILogger) *PageHandler {
	if logger == nil {
		logger = common.GetLogger()
	}

	// Templates are embedded, so a parse failure is a build defect.
	parsed := template.Must(templates.Parse())

	return &PageHandler{
		logger:    logger,
		templates: parsed,
		snapshots: snapshots,
	}
}

// DashboardHandler serves the dashboard page on the root path.
func (h *PageHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, "GET") {
		return
	}

	data := map[string]interface{}{
		"Version":   common.GetVersion(),
		"Sections":  models.AllSections(),
		"Snapshots": h.snapshots.Len(),
	}

	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.logger.Error().
			Err(err).
			Str("template", "dashboard.html").
			Msg("Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
