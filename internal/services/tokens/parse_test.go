package tokens

import (
	"errors"
	"testing"

	"github.com/ternarybob/tabula/internal/models"
)

const tokenPage = `
<html><head>
<script>
	var cmp_cd = '005930';
	$.ajax({
		data: { encparam : 'aBcD1234+/wxYZ==', fin_typ: '0' }
	});
</script>
</head><body></body></html>`

func TestParseGrant(t *testing.T) {
	grant, err := parseGrant("005930", models.SectionMain, tokenPage)
	if err != nil {
		t.Fatalf("parseGrant returned error: %v", err)
	}

	if grant.EncParam != "aBcD1234+/wxYZ==" {
		t.Errorf("EncParam = %q", grant.EncParam)
	}
	if grant.ID != "005930" {
		t.Errorf("ID = %q", grant.ID)
	}
	if grant.CompanyCode != "005930" {
		t.Errorf("CompanyCode = %q", grant.CompanyCode)
	}
	if !grant.Complete() {
		t.Error("grant with both tokens should be complete")
	}
	if grant.FetchedAt.IsZero() {
		t.Error("FetchedAt should be set")
	}
}

func TestParseGrantQuoteVariants(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"single quotes", `encparam : 'QQ11=='`, "QQ11=="},
		{"double quotes", `encparam: "QQ22=="`, "QQ22=="},
		{"no quotes", `encparam:QQ33`, "QQ33"},
		{"extra spacing", `encparam   :   'QQ44'`, "QQ44"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, err := parseGrant("000660", models.SectionProfit, tt.html)
			if err != nil {
				t.Fatalf("parseGrant returned error: %v", err)
			}
			if grant.EncParam != tt.want {
				t.Errorf("EncParam = %q, want %q", grant.EncParam, tt.want)
			}
		})
	}
}

func TestParseGrantMissingTokens(t *testing.T) {
	// No tokens at all
	if _, err := parseGrant("005930", models.SectionMain, "<html></html>"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}

	// The statistics page needs the numeric ID as well
	encOnly := `<script>encparam : 'AA=='</script>`
	if _, err := parseGrant("005930", models.SectionMain, encOnly); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("main section without id: expected ErrTokenNotFound, got %v", err)
	}

	// Report sections only need encparam
	for _, section := range []models.Section{models.SectionFS, models.SectionProfit, models.SectionValue} {
		grant, err := parseGrant("005930", section, encOnly)
		if err != nil {
			t.Errorf("section %s: unexpected error %v", section, err)
			continue
		}
		if grant.EncParam != "AA==" {
			t.Errorf("section %s: EncParam = %q", section, grant.EncParam)
		}
	}
}

func TestPageKeyFor(t *testing.T) {
	tests := []struct {
		section models.Section
		want    string
	}{
		{models.SectionMain, "c1010001"},
		{models.SectionFS, "c1030001"},
		{models.SectionProfit, "c1040001"},
		{models.SectionValue, "c1040001"},
	}

	for _, tt := range tests {
		if got := pageKeyFor(tt.section); got != tt.want {
			t.Errorf("pageKeyFor(%s) = %q, want %q", tt.section, got, tt.want)
		}
	}
}
