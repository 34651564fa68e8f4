// -----------------------------------------------------------------------
// Last Modified: Tuesday, 18th August 2026 11:42:09 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package tokens

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabula/internal/common"
	"github.com/ternarybob/tabula/internal/interfaces"
	"github.com/ternarybob/tabula/internal/models"
)

// Service resolves token grants by rendering the portal's company pages
// in a headless browser and scraping the tokens its scripts embed.
// A shared exec allocator is reused across resolutions; each resolution
// gets a fresh browser context.
type Service struct {
	config    *common.Config
	logger    arbor.ILogger
	fetchPage pageFetcher

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc

	cacheMu sync.RWMutex
	cache   map[string]cachedGrant
	ttl     time.Duration
}

type cachedGrant struct {
	grant    *models.TokenGrant
	cachedAt time.Time
}

// pageFetcher renders a URL and returns the resulting DOM. Swappable
// in tests so resolution logic can be exercised without a browser.
type pageFetcher func(ctx context.Context, url string) (string, error)

// NewService creates a token service using the configured browser settings
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}

	s := &Service{
		config: config,
		logger: logger,
		cache:  make(map[string]cachedGrant),
		ttl:    config.Browser.TokenCacheTTL(),
	}
	s.fetchPage = s.renderPage
	return s
}

// Resolve returns a token grant for the company code and section,
// reusing a cached grant when one is still fresh
func (s *Service) Resolve(ctx context.Context, companyCode string, section models.Section) (*models.TokenGrant, error) {
	pageKey := pageKeyFor(section)
	cacheKey := companyCode + "/" + pageKey

	if grant, ok := s.cached(cacheKey); ok {
		s.logger.Debug().
			Str("company", companyCode).
			Str("page", pageKey).
			Msg("Token grant served from cache")
		return grant, nil
	}

	url := fmt.Sprintf("%s/v2/company/%s.aspx?cmp_cd=%s", s.config.Portal.BaseURL, pageKey, companyCode)

	start := time.Now()
	html, err := s.fetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to render company page: %w", err)
	}

	grant, err := parseGrant(companyCode, section, html)
	if err != nil {
		s.logger.Warn().
			Str("company", companyCode).
			Str("page", pageKey).
			Msg("Company page did not expose access tokens")
		return nil, err
	}

	s.store(cacheKey, grant)

	s.logger.Info().
		Str("company", companyCode).
		Str("page", pageKey).
		Dur("elapsed", time.Since(start)).
		Msg("Token grant resolved")

	return grant, nil
}

// Invalidate drops all cached grants for the company code
func (s *Service) Invalidate(companyCode string) {
	prefix := companyCode + "/"

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	for key := range s.cache {
		if strings.HasPrefix(key, prefix) {
			delete(s.cache, key)
		}
	}
}

// Close shuts down the shared browser allocator
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCtx = nil
		s.allocCancel = nil
	}
	return nil
}

func (s *Service) cached(key string) (*models.TokenGrant, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	entry, ok := s.cache[key]
	if !ok || time.Since(entry.cachedAt) > s.ttl {
		return nil, false
	}
	return entry.grant, true
}

func (s *Service) store(key string, grant *models.TokenGrant) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache[key] = cachedGrant{grant: grant, cachedAt: time.Now()}
}

// renderPage navigates a fresh browser tab to the URL and returns the
// rendered DOM after giving the page's scripts time to settle.
func (s *Service) renderPage(ctx context.Context, url string) (string, error) {
	allocCtx, err := s.allocator()
	if err != nil {
		return "", err
	}

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	runCtx, cancelRun := context.WithTimeout(browserCtx, s.config.Browser.NavigateTimeout())
	defer cancelRun()

	// Honor caller cancellation alongside the browser timeout
	go func() {
		select {
		case <-ctx.Done():
			cancelRun()
		case <-runCtx.Done():
		}
	}()

	// Present the same User-Agent the portal client sends, so the grants
	// scraped here are issued to the identity that will spend them.
	headers := network.Headers{"User-Agent": s.config.Portal.UserAgent}

	var html string
	err = chromedp.Run(runCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.Navigate(url),
		chromedp.Sleep(s.config.Browser.RenderDelay()), // wait for scripts to inject tokens
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// allocator lazily creates the shared exec allocator
func (s *Service) allocator() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.allocCtx != nil {
		return s.allocCtx, nil
	}

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.config.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)

	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return s.allocCtx, nil
}

// Ensure Service implements the TokenService interface
var _ interfaces.TokenService = (*Service)(nil)
