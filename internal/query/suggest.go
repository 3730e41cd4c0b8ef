package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/librisapp/libris-server/internal/domain"
)

// Relevance scores for suggestions. A title match always wins over an
// author-only match; a book matching on both still scores as a title
// match, the scores are not additive.
const (
	scoreTitle  = 2
	scoreAuthor = 1
)

// DefaultSuggestLimit caps the dropdown size.
const DefaultSuggestLimit = 8

// minSuggestLength is the shortest trimmed query that produces
// suggestions. Shorter input returns nothing rather than everything.
const minSuggestLength = 2

// Suggestion is one autocomplete candidate. HighlightedTitle and
// HighlightedAuthor carry the field text with the first case-insensitive
// occurrence of the query wrapped in <mark> markers.
type Suggestion struct {
	Book              domain.Book `json:"book"`
	Relevance         int         `json:"relevance"`
	HighlightedTitle  string      `json:"highlighted_title"`
	HighlightedAuthor string      `json:"highlighted_author"`
}

// Suggest scans the book list for title or author substring matches and
// returns up to limit candidates ordered by descending relevance. Equal
// scores keep store order, which is the stable tie-break the catalogue has
// always shown. A limit <= 0 uses DefaultSuggestLimit.
func Suggest(books []domain.Book, partial string, limit int) []Suggestion {
	partial = strings.TrimSpace(partial)
	if len(partial) < minSuggestLength {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	lowerQuery := strings.ToLower(partial)
	highlighter := newHighlighter(partial)

	var out []Suggestion
	for _, b := range books {
		titleMatch := strings.Contains(strings.ToLower(b.Title), lowerQuery)
		authorMatch := strings.Contains(strings.ToLower(b.Author), lowerQuery)
		if !titleMatch && !authorMatch {
			continue
		}

		score := scoreAuthor
		if titleMatch {
			score = scoreTitle
		}

		out = append(out, Suggestion{
			Book:              b,
			Relevance:         score,
			HighlightedTitle:  highlighter.apply(b.Title),
			HighlightedAuthor: highlighter.apply(b.Author),
		})
	}

	// Stable sort keeps store order among equal scores.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// highlighter wraps the first case-insensitive occurrence of the literal
// query in <mark> tags. The query is escaped before being compiled so
// input containing regexp metacharacters ("c++", "(ed.)") highlights as
// plain text instead of failing.
type highlighter struct {
	re *regexp.Regexp
}

func newHighlighter(query string) highlighter {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(query))
	if err != nil {
		// QuoteMeta output always compiles; guard anyway so a surprise
		// here degrades to no highlighting instead of a panic.
		return highlighter{}
	}
	return highlighter{re: re}
}

// apply returns s with the first match wrapped, or s unchanged when the
// query does not occur.
func (h highlighter) apply(s string) string {
	if h.re == nil {
		return s
	}
	loc := h.re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + "<mark>" + s[loc[0]:loc[1]] + "</mark>" + s[loc[1]:]
}
