package query

import (
	"sort"

	"github.com/librisapp/libris-server/internal/domain"
)

// CategoryCount is one classification code and the number of records that
// carry it.
type CategoryCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// ExtractCategories collects the classification codes present in the book
// list, ordered by descending count. Records without a call number, or
// whose call number does not begin with an uppercase ASCII letter, are
// excluded. Codes with equal counts keep first-seen order.
func ExtractCategories(books []domain.Book) []CategoryCount {
	counts := make(map[string]int)
	var order []string

	for _, b := range books {
		code := b.Category()
		if code == "" {
			continue
		}
		if _, seen := counts[code]; !seen {
			order = append(order, code)
		}
		counts[code]++
	}

	out := make([]CategoryCount, 0, len(order))
	for _, code := range order {
		out = append(out, CategoryCount{Code: code, Count: counts[code]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
