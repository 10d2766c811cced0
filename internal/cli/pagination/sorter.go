package pagination

import (
	"sort"

	"github.com/hindsight-ai/memctl/internal/client"
)

// MemoryBlockSorter sorts fetched memory blocks client-side for output
// formats where the service's ordering is not requested.
type MemoryBlockSorter struct {
	validFields map[string]bool
}

// NewMemoryBlockSorter creates a sorter with the memory-block sort fields.
func NewMemoryBlockSorter() *MemoryBlockSorter {
	return &MemoryBlockSorter{
		validFields: map[string]bool{
			"created":   true,
			"feedback":  true,
			"retrieval": true,
			"tokens":    true,
			"agent":     true,
		},
	}
}

// IsValidField reports whether field can be sorted on.
func (s *MemoryBlockSorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// ValidFields returns the sortable field names in a stable order.
func (s *MemoryBlockSorter) ValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a new slice sorted by field and order. An invalid field
// returns the input unchanged.
func (s *MemoryBlockSorter) Sort(blocks []client.MemoryBlock, field, order string) []client.MemoryBlock {
	if !s.IsValidField(field) {
		return blocks
	}

	sorted := make([]client.MemoryBlock, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		// Descending order swaps the comparison operands; stability is
		// preserved either way.
		if order == SortOrderDesc {
			i, j = j, i
		}

		switch field {
		case "created":
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		case "feedback":
			return sorted[i].FeedbackScore < sorted[j].FeedbackScore
		case "retrieval":
			return sorted[i].RetrievalCount < sorted[j].RetrievalCount
		case "tokens":
			return sorted[i].TokenCount < sorted[j].TokenCount
		case "agent":
			return sorted[i].AgentID < sorted[j].AgentID
		default:
			return false
		}
	})

	return sorted
}
