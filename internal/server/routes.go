// -----------------------------------------------------------------------
// Last Modified: Wednesday, 19th August 2026 9:21:47 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	mux.HandleFunc("/", s.app.PageHandler.DashboardHandler)

	// API routes - company extraction
	mux.HandleFunc("/api/company/", s.handleCompanyRoutes)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleCompanyRoutes routes company requests to the appropriate handler:
// /api/company/{code}/{section} plus the /export and /chart subpaths.
func (s *Server) handleCompanyRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")

	switch {
	case strings.HasSuffix(path, "/export"):
		s.app.CompanyHandler.ExportHandler(w, r)
	case strings.HasSuffix(path, "/chart"):
		s.app.CompanyHandler.ChartHandler(w, r)
	default:
		s.app.CompanyHandler.DataHandler(w, r)
	}
}
