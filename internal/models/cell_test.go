package models

import (
	"encoding/json"
	"testing"
)

func TestCellJSON(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"present", Number(1234.5), "1234.5"},
		{"zero is not missing", Number(0), "0"},
		{"missing encodes null", Missing(), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.cell)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("marshal = %s, want %s", data, tt.want)
			}

			var back Cell
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tt.cell {
				t.Errorf("round trip = %+v, want %+v", back, tt.cell)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	if got := Number(1234.5).String(); got != "1234.5" {
		t.Errorf("String() = %q, want %q", got, "1234.5")
	}
	if got := Missing().String(); got != "-" {
		t.Errorf("String() = %q, want %q", got, "-")
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request ExtractRequest
		wantErr bool
	}{
		{"valid", ExtractRequest{CompanyCode: "005930", Section: SectionMain}, false},
		{"five digits", ExtractRequest{CompanyCode: "05930", Section: SectionMain}, true},
		{"letters", ExtractRequest{CompanyCode: "00593a", Section: SectionFS}, true},
		{"empty code", ExtractRequest{CompanyCode: "", Section: SectionValue}, true},
		{"bad section", ExtractRequest{CompanyCode: "005930", Section: Section("quarterly")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
