package types

import "sort"

// SizeStock maps a size label (e.g. "S", "M", "XL") to the number of units
// available in that size. Persisted as a JSON column on products.
type SizeStock map[string]int

// Total sums the per-size unit counts. A product's aggregate stock column is
// kept equal to this value by the catalog service.
func (s SizeStock) Total() int {
	total := 0
	for _, count := range s {
		total += count
	}
	return total
}

// Has reports whether the size label exists in the mapping, regardless of count.
func (s SizeStock) Has(size string) bool {
	_, ok := s[size]
	return ok
}

// Labels returns the size labels in deterministic order.
func (s SizeStock) Labels() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
