package bulk

import (
	"sort"
	"strings"

	"docgen/internal/domain"
)

// Rank orders search results: documents whose name contains the search
// phrase come first, earlier occurrences before later ones; ties and
// non-matching documents are ordered most recently updated first.
func Rank(docs []domain.Document, search string) {
	phrase := strings.ToLower(strings.TrimSpace(search))
	pos := make([]int, len(docs))
	for i := range docs {
		pos[i] = -1
		if phrase != "" {
			pos[i] = strings.Index(strings.ToLower(docs[i].Name), phrase)
		}
	}

	idx := make([]int, len(docs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := pos[idx[a]], pos[idx[b]]
		if (pa >= 0) != (pb >= 0) {
			return pa >= 0
		}
		if pa != pb {
			return pa < pb
		}
		return docs[idx[a]].UpdatedAt.After(docs[idx[b]].UpdatedAt)
	})

	sorted := make([]domain.Document, len(docs))
	for i, j := range idx {
		sorted[i] = docs[j]
	}
	copy(docs, sorted)
}
