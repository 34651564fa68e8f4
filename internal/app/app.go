// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 2:05:11 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tabula/internal/common"
	"github.com/ternarybob/tabula/internal/handlers"
	"github.com/ternarybob/tabula/internal/interfaces"
	"github.com/ternarybob/tabula/internal/services/charts"
	"github.com/ternarybob/tabula/internal/services/export"
	"github.com/ternarybob/tabula/internal/services/portal"
	"github.com/ternarybob/tabula/internal/services/snapshots"
	"github.com/ternarybob/tabula/internal/services/tokens"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Extraction services
	TokenService    interfaces.TokenService
	PortalClient    interfaces.PortalClient
	SnapshotService interfaces.SnapshotService
	ExportService   interfaces.ExportService
	ChartService    interfaces.ChartService

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	CompanyHandler *handlers.CompanyHandler
	PageHandler    *handlers.PageHandler
}

// New creates the application, wiring services and handlers
func New(config *common.Config) (*App, error) {
	logger := common.GetLogger()

	app := &App{
		Config: config,
		Logger: logger,
	}

	// Token service owns the headless browser used to scrape access tokens
	app.TokenService = tokens.NewService(config, logger)

	app.PortalClient = portal.NewClient(
		portal.WithBaseURL(config.Portal.BaseURL),
		portal.WithUserAgent(config.Portal.UserAgent),
		portal.WithTimeout(config.Portal.RequestTimeout()),
		portal.WithRateLimit(requestsPerSecond(config.Portal.RequestGap())),
		portal.WithLogger(logger),
	)

	app.SnapshotService = snapshots.NewService(config.Cache.SnapshotCacheTTL(), logger)
	app.ExportService = export.NewService(logger)
	app.ChartService = charts.NewService(logger)

	// Handlers
	app.APIHandler = handlers.NewAPIHandler()
	app.CompanyHandler = handlers.NewCompanyHandler(
		app.TokenService,
		app.PortalClient,
		app.SnapshotService,
		app.ExportService,
		app.ChartService,
		logger,
	)
	app.PageHandler = handlers.NewPageHandler(app.SnapshotService, logger)

	logger.Info().
		Str("portal", config.Portal.BaseURL).
		Str("snapshot_ttl", config.Cache.SnapshotCacheTTL().String()).
		Msg("Application initialization complete")

	return app, nil
}

// Close releases application resources
func (a *App) Close() error {
	if a.TokenService != nil {
		if err := a.TokenService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close token service")
		} else {
			a.Logger.Info().Msg("Token service closed")
		}
	}
	return nil
}

// requestsPerSecond converts the configured gap between portal requests
// into a limiter rate, never below one request per second.
func requestsPerSecond(gap time.Duration) int {
	if gap <= 0 {
		return portal.DefaultRateLimit
	}
	rps := int(time.Second / gap)
	if rps < 1 {
		rps = 1
	}
	return rps
}
