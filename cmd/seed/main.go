// Package main provides a tool to seed a catalogue directory with sample
// data for development.
//
// It writes partition files in the positional row format the loader
// expects, plus the enrichment side tables, so a server pointed at the
// output directory serves a realistic small catalogue.
//
// Usage:
//
//	go run ./cmd/seed -out ~/Libris/catalogue
//	go run ./cmd/seed -out ~/Libris/catalogue -books 500
package main

import (
	"encoding/json/v2"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
)

var (
	outDir    = flag.String("out", "catalogue", "Output directory for catalogue files")
	bookCount = flag.Int("books", 120, "Approximate number of books to generate")
)

// partition mirrors the loader's source file shape.
type partition struct {
	Name string  `json:"name"`
	Rows [][]any `json:"rows"`
}

var authors = []string{
	"Austen, Jane", "Calvin, John", "Chesterton, G.K.", "Dickens, Charles",
	"Dostoevsky, Fyodor", "Eliot, George", "Lewis, C.S.", "Melville, Herman",
	"Owen, John", "Tolkien, J.R.R.", "Warfield, B.B.", "Wodehouse, P.G.",
}

var titleWords = []string{
	"History", "Commentary", "Letters", "Collected Works", "Essays",
	"Institutes", "Confessions", "Meditations", "Sermons", "Chronicles",
	"Treatise", "Dialogues",
}

var callPrefixes = []string{"BT", "BX", "PR", "PS", "DA", "QH", "B", "BS"}

func main() {
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	rng := rand.New(rand.NewSource(42))

	partitions := map[string]*partition{
		"main-collection": {Name: "Main Collection"},
		"reference":       {Name: "Reference"},
	}
	names := []string{"main-collection", "reference"}

	ebookLinks := map[string]any{}
	biographies := map[string]any{}
	publicationInfo := map[string]any{}

	for i := range *bookCount {
		author := authors[rng.Intn(len(authors))]
		title := fmt.Sprintf("%s of %s, Volume %d",
			titleWords[rng.Intn(len(titleWords))],
			titleWords[rng.Intn(len(titleWords))],
			rng.Intn(4)+1,
		)
		id := fmt.Sprintf("bk-%04d", i+1)
		call := fmt.Sprintf("%s%d.%d", callPrefixes[rng.Intn(len(callPrefixes))], rng.Intn(9000)+100, rng.Intn(90)+10)
		year := 1500 + rng.Intn(520)
		copyNo := fmt.Sprintf("%d", rng.Intn(3)+1)

		name := names[rng.Intn(len(names))]
		p := partitions[name]
		p.Rows = append(p.Rows, []any{author, title, id, call, year, copyNo})

		// Roughly a quarter of the books get an ebook link.
		if rng.Intn(4) == 0 {
			ebookLinks[author+" - "+title] = map[string]string{
				"source": "archive",
				"url":    fmt.Sprintf("https://example.org/ebooks/%s", id),
				"format": "epub",
			}
		}

		// A tenth get publication info with an ISBN, which feeds covers.
		if rng.Intn(10) == 0 {
			publicationInfo[id] = map[string]any{
				"isbn":      fmt.Sprintf("9780%09d", rng.Intn(1_000_000_000)),
				"publisher": "Sample House",
			}
		}
	}

	for _, author := range authors {
		biographies[author] = map[string]string{
			"bio":   fmt.Sprintf("%s was a writer of note.", author),
			"dates": "fl. sometime",
		}
	}

	for name, p := range partitions {
		writeJSON(filepath.Join(*outDir, name+".json"), p)
		fmt.Printf("Wrote %s.json with %d rows\n", name, len(p.Rows))
	}
	writeJSON(filepath.Join(*outDir, "ebook-links.json"), ebookLinks)
	writeJSON(filepath.Join(*outDir, "author-biographies.json"), biographies)
	writeJSON(filepath.Join(*outDir, "publication-dates.json"), publicationInfo)

	fmt.Printf("Catalogue seeded at %s\n", *outDir)
}

func writeJSON(path string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Failed to marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
}
