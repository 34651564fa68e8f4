package extract

import "fmt"

// DedupeLabels makes a label sequence pairwise-unique while preserving
// order and length: the first occurrence of a label is kept verbatim, the
// Nth occurrence becomes "label_N". Deterministic, no state between calls,
// and a no-op on already-unique input.
func DedupeLabels(labels []string) []string {
	seen := make(map[string]int, len(labels))
	out := make([]string, len(labels))
	for i, label := range labels {
		seen[label]++
		if n := seen[label]; n > 1 {
			out[i] = fmt.Sprintf("%s_%d", label, n)
		} else {
			out[i] = label
		}
	}
	return out
}
