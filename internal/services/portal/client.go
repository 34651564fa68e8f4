package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/tabula/internal/interfaces"
	"github.com/ternarybob/tabula/internal/models"
)

const (
	// DefaultBaseURL is the base URL of the disclosure portal.
	DefaultBaseURL = "https://navercomp.wisereport.co.kr"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 20 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 2

	// DefaultUserAgent is sent with every portal request.
	DefaultUserAgent = "Mozilla/5.0"
)

// Endpoint paths for the company documents. The statistics fragment
// lives under ajax/, the report endpoints do not.
const (
	mainDocumentPath = "/v2/company/ajax/cF1001.aspx"
	fsReportPath     = "/v2/company/cF3002.aspx"
	ratioReportPath  = "/v2/company/cF4002.aspx"
)

// Page keys used in Referer headers. The portal rejects document
// requests that do not appear to originate from its company pages.
const (
	mainRefererKey   = "c1010001"
	reportRefererKey = "c1040001"
)

// reportCodes maps a section to the portal's rpt query value.
var reportCodes = map[models.Section]string{
	models.SectionFS:     "1",
	models.SectionProfit: "1",
	models.SectionValue:  "5",
}

// presenceCookies are sent with every document request. The portal
// checks that they exist, not what they contain.
var presenceCookies = []string{"setC1010001", "setC1030001", "setC1040001"}

// Client fetches disclosure documents from the portal.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// NewClient creates a new portal client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchMainDocument retrieves the statistics page HTML fragment for the
// company. Requires a complete grant: the endpoint checks both tokens.
func (c *Client) FetchMainDocument(ctx context.Context, companyCode string, grant *models.TokenGrant) (string, error) {
	if grant == nil || !grant.Complete() {
		return "", fmt.Errorf("statistics fetch requires both encparam and id tokens")
	}

	params := url.Values{}
	params.Set("cmp_cd", companyCode)
	params.Set("fin_typ", "0")
	params.Set("freq_typ", "Y")
	params.Set("encparam", grant.EncParam)
	params.Set("id", grant.ID)

	referer := fmt.Sprintf("%s/v2/company/%s.aspx?cmp_cd=%s", c.baseURL, mainRefererKey, companyCode)

	body, err := c.fetch(ctx, mainDocumentPath, params, referer)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// FetchReport retrieves the JSON report payload for a report section.
func (c *Client) FetchReport(ctx context.Context, companyCode string, section models.Section, grant *models.TokenGrant) (*models.ReportPayload, error) {
	if !section.IsJSON() {
		return nil, fmt.Errorf("section %q has no report endpoint", section)
	}
	if grant == nil || grant.EncParam == "" {
		return nil, fmt.Errorf("report fetch requires an encparam token")
	}

	path := ratioReportPath
	if section == models.SectionFS {
		path = fsReportPath
	}

	params := url.Values{}
	params.Set("cmp_cd", companyCode)
	params.Set("frq", "0")
	params.Set("rpt", reportCodes[section])
	params.Set("finGubun", "MAIN")
	params.Set("frqTyp", "0")
	params.Set("cn", "")
	params.Set("encparam", grant.EncParam)

	referer := fmt.Sprintf("%s/v2/company/%s.aspx?cmp_cd=%s", c.baseURL, reportRefererKey, companyCode)

	body, err := c.fetch(ctx, path, params, referer)
	if err != nil {
		return nil, err
	}

	var payload models.ReportPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &NotJSONError{
			Endpoint: path,
			Snippet:  snippet(body, 500),
		}
	}

	return &payload, nil
}

// fetch performs a GET request against the portal.
func (c *Client) fetch(ctx context.Context, path string, params url.Values, referer string) ([]byte, error) {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{RetryAfter: time.Second}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/html, */*; q=0.01")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", referer)
	for _, name := range presenceCookies {
		req.AddCookie(&http.Cookie{Name: name, Value: "%5B%7B...%7D%5D"})
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Str("cmp_cd", params.Get("cmp_cd")).
			Msg("Portal request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    snippet(body, 200),
			Endpoint:   path,
		}
	}

	return body, nil
}

// snippet truncates a response body for error messages.
func snippet(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

// Ensure Client implements the PortalClient interface
var _ interfaces.PortalClient = (*Client)(nil)
