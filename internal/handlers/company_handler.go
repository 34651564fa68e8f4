package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tabula/internal/common"
	"github.com/ternarybob/tabula/internal/extract"
	"github.com/ternarybob/tabula/internal/interfaces"
	"github.com/ternarybob/tabula/internal/models"
	"github.com/ternarybob/tabula/internal/services/portal"
	"github.com/ternarybob/tabula/internal/services/tokens"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// defaultChartSeries is how many metrics a chart shows when the request
// does not name any, matching the dashboard's initial selection.
const defaultChartSeries = 3

// CompanyHandler serves the per-company extraction endpoints: section data
// as JSON, xlsx downloads and rendered charts.
type CompanyHandler struct {
	tokens    interfaces.TokenService
	portal    interfaces.PortalClient
	snapshots interfaces.SnapshotService
	export    interfaces.ExportService
	charts    interfaces.ChartService
	logger    arbor.ILogger
}

// NewCompanyHandler creates a company handler backed by the given services.
func NewCompanyHandler(
	tokenService interfaces.TokenService,
	portalClient interfaces.PortalClient,
	snapshotService interfaces.SnapshotService,
	exportService interfaces.ExportService,
	chartService interfaces.ChartService,
	logger arbor.ILogger,
) *CompanyHandler {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &CompanyHandler{
		tokens:    tokenService,
		portal:    portalClient,
		snapshots: snapshotService,
		export:    exportService,
		charts:    chartService,
		logger:    logger,
	}
}

// DataHandler handles GET /api/company/{code}/{section} - returns the
// section snapshot as JSON, fetching from the portal unless a fresh
// snapshot is cached (force=1 bypasses the cache).
func (h *CompanyHandler) DataHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code, section, err := parseCompanyPath(r.URL.Path)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := models.ExtractRequest{CompanyCode: code, Section: section, Force: forceParam(r)}
	snapshot, err := h.snapshotFor(r.Context(), req)
	if err != nil {
		h.writeExtractionError(w, req, err)
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// ExportHandler handles GET /api/company/{code}/{section}/export - streams
// the section as an xlsx download. The main section supports
// shape=wide|long; report sections always export the report layout.
func (h *CompanyHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code, section, err := parseCompanyPath(r.URL.Path)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	shape := r.URL.Query().Get("shape")
	if shape == "" {
		shape = "wide"
	}
	if shape != "wide" && shape != "long" {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown shape %q", shape))
		return
	}

	req := models.ExtractRequest{CompanyCode: code, Section: section, Force: forceParam(r)}
	snapshot, err := h.snapshotFor(r.Context(), req)
	if err != nil {
		h.writeExtractionError(w, req, err)
		return
	}

	var workbook []byte
	var filename string
	switch {
	case section.IsJSON():
		workbook, err = h.export.WorkbookFromReport(snapshot.Report, section.String())
		filename = fmt.Sprintf("%s_%s.xlsx", code, section)
	case shape == "long":
		workbook, err = h.export.WorkbookFromRecords(snapshot.Records, section.String())
		filename = fmt.Sprintf("%s_%s_long.xlsx", code, section)
	default:
		workbook, err = h.export.WorkbookFromWide(snapshot.Wide, section.String())
		filename = fmt.Sprintf("%s_%s_wide.xlsx", code, section)
	}
	if err != nil {
		h.logger.Error().Err(err).Str("cmp_cd", code).Str("section", section.String()).Msg("Failed to build workbook")
		WriteError(w, http.StatusInternalServerError, "Failed to build workbook")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(workbook)
}

// ChartHandler handles GET /api/company/{code}/{section}/chart - renders
// the section as a chart HTML page. Query parameters: type=line|bar
// (default line) and metrics=a,b to pick series; without metrics the
// first three categories in sorted order are charted.
func (h *CompanyHandler) ChartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code, section, err := parseCompanyPath(r.URL.Path)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	chartType := r.URL.Query().Get("type")
	if chartType == "" {
		chartType = "line"
	}
	if chartType != "line" && chartType != "bar" {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown chart type %q", chartType))
		return
	}

	req := models.ExtractRequest{CompanyCode: code, Section: section, Force: forceParam(r)}
	snapshot, err := h.snapshotFor(r.Context(), req)
	if err != nil {
		h.writeExtractionError(w, req, err)
		return
	}

	records := chartRecords(snapshot, metricsParam(r))
	if len(records) == 0 {
		WriteError(w, http.StatusBadRequest, "no data for the requested metrics")
		return
	}

	title := fmt.Sprintf("%s %s", code, section)
	var page []byte
	if chartType == "bar" {
		page, err = h.charts.BarChart(title, records)
	} else {
		page, err = h.charts.LineChart(title, models.Pivot(records))
	}
	if err != nil {
		h.logger.Error().Err(err).Str("cmp_cd", code).Str("section", section.String()).Msg("Failed to render chart")
		WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// snapshotFor returns a cached snapshot when one is fresh, otherwise runs
// the full portal round trip for the requested section and caches the
// result.
func (h *CompanyHandler) snapshotFor(ctx context.Context, req models.ExtractRequest) (*models.Snapshot, error) {
	if !req.Force {
		if snapshot, ok := h.snapshots.Get(req.CompanyCode, req.Section); ok {
			h.logger.Debug().
				Str("cmp_cd", req.CompanyCode).
				Str("section", req.Section.String()).
				Msg("Serving cached snapshot")
			return snapshot, nil
		}
	}

	grant, err := h.tokens.Resolve(ctx, req.CompanyCode, req.Section)
	if err != nil {
		return nil, fmt.Errorf("resolving access tokens: %w", err)
	}

	snapshot := &models.Snapshot{CompanyCode: req.CompanyCode, Section: req.Section}
	if req.Section.IsJSON() {
		payload, err := h.portal.FetchReport(ctx, req.CompanyCode, req.Section, grant)
		if err != nil {
			return nil, h.portalFailure(req, err)
		}
		report, err := extract.Report(payload)
		if err != nil {
			return nil, err
		}
		snapshot.Report = report
		snapshot.Records = report.Melt()
	} else {
		document, err := h.portal.FetchMainDocument(ctx, req.CompanyCode, grant)
		if err != nil {
			return nil, h.portalFailure(req, err)
		}
		wide, records, err := extract.MainTable(document)
		if err != nil {
			return nil, err
		}
		snapshot.Wide = wide
		snapshot.Records = records
	}

	h.snapshots.Put(snapshot)
	h.logger.Info().
		Str("cmp_cd", req.CompanyCode).
		Str("section", req.Section.String()).
		Int("records", len(snapshot.Records)).
		Msg("Extraction complete")
	return snapshot, nil
}

// portalFailure drops cached grants when the portal rejects a request.
// Grants go stale server-side, so the next request re-renders the page
// instead of replaying a dead token.
func (h *CompanyHandler) portalFailure(req models.ExtractRequest, err error) error {
	var apiErr *portal.APIError
	if errors.As(err, &apiErr) {
		h.tokens.Invalidate(req.CompanyCode)
	}
	return err
}

// writeExtractionError maps pipeline errors onto HTTP statuses: malformed
// upstream responses and token failures are gateway errors, everything
// else is internal.
func (h *CompanyHandler) writeExtractionError(w http.ResponseWriter, req models.ExtractRequest, err error) {
	var apiErr *portal.APIError
	var notJSON *portal.NotJSONError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tokens.ErrTokenNotFound),
		errors.Is(err, extract.ErrTableNotFound),
		errors.Is(err, extract.ErrEmptyReport),
		errors.As(err, &apiErr),
		errors.As(err, &notJSON):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	h.logger.Error().
		Err(err).
		Str("cmp_cd", req.CompanyCode).
		Str("section", req.Section.String()).
		Msg("Extraction failed")
	WriteError(w, status, err.Error())
}

// chartRecords reshapes the snapshot's wide view into chart-ready records
// limited to the selected metrics.
func chartRecords(snapshot *models.Snapshot, metrics []string) []models.LongRecord {
	table := snapshot.Table()
	if len(metrics) == 0 {
		metrics = defaultMetrics(table)
	}

	keep := make(map[string]bool, len(metrics))
	for _, name := range metrics {
		keep[name] = true
	}

	var records []models.LongRecord
	for _, record := range extract.ReshapeForChart(table) {
		if keep[record.Category] {
			records = append(records, record)
		}
	}
	return records
}

// defaultMetrics picks the first chartable categories in sorted order.
func defaultMetrics(table *models.WideTable) []string {
	categories := append([]string(nil), table.Categories()...)
	sort.Strings(categories)
	if len(categories) > defaultChartSeries {
		categories = categories[:defaultChartSeries]
	}
	return categories
}
