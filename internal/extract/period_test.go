package extract

import "testing"

func TestNormalizePeriod(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2023/12", "2023"},
		{"2023.12", "2023"},
		{"2023-12", "2023"},
		{"2023-1", "2023"},
		{"202312", "2023"},
		{"2023", "2023"},
		{"2023/12(E)", "2023"},
		{"FY2024", "2024"},
		{"N/A", "N/A"},
		{"", ""},
		{"구분", "구분"},
		{"1999/12", "1999/12"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizePeriod(tt.input); got != tt.want {
				t.Errorf("NormalizePeriod(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
