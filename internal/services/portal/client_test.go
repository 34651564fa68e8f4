package portal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tabula/internal/models"
)

func testGrant() *models.TokenGrant {
	return &models.TokenGrant{
		CompanyCode: "005930",
		EncParam:    "ENCPARAM==",
		ID:          "12345",
		FetchedAt:   time.Now(),
	}
}

func newTestClient(serverURL string) *Client {
	return NewClient(
		WithBaseURL(serverURL),
		WithRateLimit(100),
	)
}

func TestFetchMainDocument(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Write([]byte(`<table class="gHead01 all-width"></table>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	body, err := client.FetchMainDocument(context.Background(), "005930", testGrant())
	require.NoError(t, err)
	assert.Contains(t, body, "gHead01")

	require.NotNil(t, captured)
	assert.Equal(t, "/v2/company/ajax/cF1001.aspx", captured.URL.Path)

	query := captured.URL.Query()
	assert.Equal(t, "005930", query.Get("cmp_cd"))
	assert.Equal(t, "0", query.Get("fin_typ"))
	assert.Equal(t, "Y", query.Get("freq_typ"))
	assert.Equal(t, "ENCPARAM==", query.Get("encparam"))
	assert.Equal(t, "12345", query.Get("id"))

	assert.Equal(t, "application/json, text/html, */*; q=0.01", captured.Header.Get("Accept"))
	assert.Equal(t, "Mozilla/5.0", captured.Header.Get("User-Agent"))
	assert.Equal(t, "XMLHttpRequest", captured.Header.Get("X-Requested-With"))
	assert.Equal(t, server.URL+"/v2/company/c1010001.aspx?cmp_cd=005930", captured.Header.Get("Referer"))

	for _, name := range []string{"setC1010001", "setC1030001", "setC1040001"} {
		cookie, err := captured.Cookie(name)
		require.NoError(t, err, "cookie %s missing", name)
		assert.NotEmpty(t, cookie.Value)
	}
}

func TestFetchMainDocumentIncompleteGrant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the portal without a complete grant")
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchMainDocument(context.Background(), "005930", nil)
	assert.Error(t, err)

	grant := testGrant()
	grant.ID = ""
	_, err = client.FetchMainDocument(context.Background(), "005930", grant)
	assert.Error(t, err)
}

func TestFetchReportEndpoints(t *testing.T) {
	tests := []struct {
		section  models.Section
		wantPath string
		wantRpt  string
	}{
		{models.SectionFS, "/v2/company/cF3002.aspx", "1"},
		{models.SectionProfit, "/v2/company/cF4002.aspx", "1"},
		{models.SectionValue, "/v2/company/cF4002.aspx", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.section.String(), func(t *testing.T) {
			var captured *http.Request
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = r.Clone(r.Context())
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"DATA": [{"ACC_NM": "매출액", "DATA1": "100", "DATA2": "150"}],
					"YYMM": ["2023/12", "2024/12"],
					"UNIT": "억원"
				}`))
			}))
			defer server.Close()

			client := newTestClient(server.URL)

			payload, err := client.FetchReport(context.Background(), "005930", tt.section, testGrant())
			require.NoError(t, err)

			require.NotNil(t, captured)
			assert.Equal(t, tt.wantPath, captured.URL.Path)

			query := captured.URL.Query()
			assert.Equal(t, "005930", query.Get("cmp_cd"))
			assert.Equal(t, "0", query.Get("frq"))
			assert.Equal(t, tt.wantRpt, query.Get("rpt"))
			assert.Equal(t, "MAIN", query.Get("finGubun"))
			assert.Equal(t, "0", query.Get("frqTyp"))
			assert.Equal(t, "ENCPARAM==", query.Get("encparam"))
			assert.True(t, query.Has("cn"), "cn parameter must be present even when empty")

			assert.Equal(t, server.URL+"/v2/company/c1040001.aspx?cmp_cd=005930", captured.Header.Get("Referer"))

			require.Len(t, payload.Data, 1)
			assert.Equal(t, "매출액", payload.Data[0]["ACC_NM"])
			assert.Equal(t, []string{"2023/12", "2024/12"}, payload.Labels)
			assert.Equal(t, "억원", payload.Unit)
		})
	}
}

func TestFetchReportRejectsMainSection(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	_, err := client.FetchReport(context.Background(), "005930", models.SectionMain, testGrant())
	assert.Error(t, err)
}

func TestFetchReportRequiresEncParam(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	grant := testGrant()
	grant.EncParam = ""
	_, err := client.FetchReport(context.Background(), "005930", models.SectionFS, grant)
	assert.Error(t, err)
}

func TestFetchReportNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>점검 중입니다</body></html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchReport(context.Background(), "005930", models.SectionFS, testGrant())
	require.Error(t, err)

	var notJSON *NotJSONError
	require.True(t, errors.As(err, &notJSON), "expected NotJSONError, got %T", err)
	assert.Equal(t, "/v2/company/cF3002.aspx", notJSON.Endpoint)
	assert.Contains(t, notJSON.Snippet, "점검")
}

func TestFetchReportNotJSONSnippetTruncated(t *testing.T) {
	long := "<html>" + strings.Repeat("x", 2000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(long))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchReport(context.Background(), "005930", models.SectionValue, testGrant())
	require.Error(t, err)

	var notJSON *NotJSONError
	require.True(t, errors.As(err, &notJSON))
	assert.True(t, strings.HasSuffix(notJSON.Snippet, "..."), "snippet should be truncated")
	assert.LessOrEqual(t, len(notJSON.Snippet), 503)
}

func TestFetchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchMainDocument(context.Background(), "005930", testGrant())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "/v2/company/ajax/cF1001.aspx", apiErr.Endpoint)
}

func TestFetchCancelledContext(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchMainDocument(ctx, "005930", testGrant())
	assert.Error(t, err)
}
