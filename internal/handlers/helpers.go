package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/tabula/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// companyPathPrefix is the route prefix carrying company extraction requests.
const companyPathPrefix = "/api/company/"

// parseCompanyPath extracts and validates the company code and section from
// a /api/company/{code}/{section}[/action] path.
func parseCompanyPath(path string) (string, models.Section, error) {
	rest := strings.Trim(strings.TrimPrefix(path, companyPathPrefix), "/")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected %s{code}/{section}", companyPathPrefix)
	}

	section := models.Section(parts[1])
	if !section.IsValid() {
		return "", "", fmt.Errorf("unknown section %q", parts[1])
	}

	req := models.ExtractRequest{CompanyCode: parts[0], Section: section}
	if err := req.Validate(); err != nil {
		return "", "", fmt.Errorf("company code must be six digits, got %q", parts[0])
	}

	return parts[0], section, nil
}

// forceParam reports whether the request asks to bypass the snapshot cache.
func forceParam(r *http.Request) bool {
	v := r.URL.Query().Get("force")
	return v == "1" || strings.EqualFold(v, "true")
}

// metricsParam returns the requested metric names from the comma-separated
// metrics query parameter, nil when none were given.
func metricsParam(r *http.Request) []string {
	raw := r.URL.Query().Get("metrics")
	if raw == "" {
		return nil
	}
	var metrics []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			metrics = append(metrics, part)
		}
	}
	return metrics
}
