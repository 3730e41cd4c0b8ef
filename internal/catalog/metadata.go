package catalog

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/librisapp/libris-server/internal/domain"
)

// MetadataSet holds the optional lookup tables the hosting page used to
// supply as globals: ebook links, author biographies and publication
// enrichment. A missing or malformed table degrades to an empty map, so
// the features it backs simply read as absent.
type MetadataSet struct {
	EbookLinks      map[string][]domain.EbookLink
	Biographies     map[string]domain.AuthorBiography
	PublicationInfo map[string]domain.PublicationInfo
}

// EmptyMetadata returns a MetadataSet with no entries.
func EmptyMetadata() *MetadataSet {
	return &MetadataSet{
		EbookLinks:      map[string][]domain.EbookLink{},
		Biographies:     map[string]domain.AuthorBiography{},
		PublicationInfo: map[string]domain.PublicationInfo{},
	}
}

// HasEbook implements query.Metadata.
func (m *MetadataSet) HasEbook(key string) bool {
	return len(m.EbookLinks[key]) > 0
}

// HasBiography implements query.Metadata.
func (m *MetadataSet) HasBiography(author string) bool {
	_, ok := m.Biographies[author]
	return ok
}

// Links returns the ebook links for a book, or nil.
func (m *MetadataSet) Links(key string) []domain.EbookLink {
	return m.EbookLinks[key]
}

// Biography returns the biography for an author, if one exists.
func (m *MetadataSet) Biography(author string) (domain.AuthorBiography, bool) {
	bio, ok := m.Biographies[author]
	return bio, ok
}

// parseEbookLinks accepts the ebook-links table. Values are either a
// single link object or a list of link objects; both shapes normalize to
// a slice.
func parseEbookLinks(data []byte) (map[string][]domain.EbookLink, error) {
	var raw map[string]jsontext.Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make(map[string][]domain.EbookLink, len(raw))
	for key, val := range raw {
		var list []domain.EbookLink
		if err := json.Unmarshal(val, &list); err == nil {
			out[key] = list
			continue
		}
		var single domain.EbookLink
		if err := json.Unmarshal(val, &single); err == nil {
			out[key] = []domain.EbookLink{single}
			continue
		}
		// Unrecognized value shape: skip the entry, keep the rest.
	}
	return out, nil
}

// parseBiographies accepts the author-biographies table and normalizes
// bio text that arrived as HTML.
func parseBiographies(data []byte) (map[string]domain.AuthorBiography, error) {
	var out map[string]domain.AuthorBiography
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for author, bio := range out {
		bio.Bio = normalizeRichText(bio.Bio)
		out[author] = bio
	}
	return out, nil
}

// parsePublicationInfo accepts the publication side table. ISBNs are
// normalized to digits-only on load.
func parsePublicationInfo(data []byte) (map[string]domain.PublicationInfo, error) {
	var out map[string]domain.PublicationInfo
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for id, info := range out {
		info.ISBN = domain.NormalizeISBN(info.ISBN)
		out[id] = info
	}
	return out, nil
}

// htmlTagPattern matches common HTML tags to detect markup in bio text.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// normalizeRichText converts HTML bio text to Markdown. Plain text passes
// through untouched. If conversion fails the tags are stripped instead so
// the caller never sees raw markup.
func normalizeRichText(s string) string {
	if s == "" || !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return stripTags(s)
	}
	return strings.TrimSpace(markdown)
}

// stripTags extracts the text content from an HTML fragment.
func stripTags(s string) string {
	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return strings.TrimSpace(sb.String())
}
