package extract

import (
	"reflect"
	"testing"
)

func TestDedupeLabels(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		want   []string
	}{
		{
			name:  "repeated year",
			input: []string{"2023", "2023", "2024"},
			want:  []string{"2023", "2023_2", "2024"},
		},
		{
			name:  "already unique",
			input: []string{"2021", "2022", "2023"},
			want:  []string{"2021", "2022", "2023"},
		},
		{
			name:  "triple repeat",
			input: []string{"2023", "2023", "2023"},
			want:  []string{"2023", "2023_2", "2023_3"},
		},
		{
			name:  "interleaved repeats",
			input: []string{"a", "b", "a", "b", "a"},
			want:  []string{"a", "b", "a_2", "b_2", "a_3"},
		},
		{
			name:  "empty",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeLabels(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupeLabels(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if len(got) != len(tt.input) {
				t.Errorf("length changed: got %d, want %d", len(got), len(tt.input))
			}
		})
	}
}

func TestDedupeLabelsDeterministic(t *testing.T) {
	input := []string{"x", "x", "y", "x"}
	first := DedupeLabels(input)
	second := DedupeLabels(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls diverged: %v vs %v", first, second)
	}
}

func TestDedupeLabelsIdempotent(t *testing.T) {
	unique := []string{"2021", "2022", "2023"}
	once := DedupeLabels(unique)
	twice := DedupeLabels(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not idempotent on unique input: %v vs %v", once, twice)
	}
}
