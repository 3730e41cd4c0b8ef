package catalog

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Reserved sidecar file names inside the catalogue directory. Everything
// else matching *.json is treated as a partition of catalogue rows.
const (
	ebookLinksFile      = "ebook-links.json"
	biographiesFile     = "author-biographies.json"
	publicationInfoFile = "publication-dates.json"
)

// Loader reads catalogue source files from a directory and builds stores.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader for the given catalogue directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, logger: logger}
}

// partitionFile is the on-disk shape of one catalogue partition: an
// optional display name and the positional rows. A bare JSON array of
// rows is also accepted for single-table catalogues.
type partitionFile struct {
	Name string  `json:"name"`
	Rows [][]any `json:"rows"`
}

// Load reads every partition file plus the metadata sidecars and builds a
// fresh Store. Partition files load in lexical order so reloads are
// deterministic. A malformed metadata sidecar degrades to an empty table;
// a malformed partition file fails the load, since without its rows the
// catalogue would silently shrink.
func (l *Loader) Load() (*Store, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read catalogue dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		switch e.Name() {
		case ebookLinksFile, biographiesFile, publicationInfoFile:
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no catalogue files in %s", l.dir)
	}

	meta := l.loadMetadata()

	var partitions []Partition
	for _, name := range names {
		p, err := l.loadPartition(name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		partitions = append(partitions, p)
	}

	store := NewStore(partitions, meta)
	l.logger.Info("catalogue loaded",
		"books", store.Len(),
		"partitions", len(partitions),
		"ebook_links", len(meta.EbookLinks),
		"biographies", len(meta.Biographies),
	)
	return store, nil
}

// loadPartition parses one catalogue file. The partition name defaults to
// the file name without extension when the file does not declare one.
func (l *Loader) loadPartition(name string) (Partition, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name)) //#nosec G304 -- catalogue dir comes from config
	if err != nil {
		return Partition{}, err
	}

	var pf partitionFile
	if err := json.Unmarshal(data, &pf); err != nil {
		// Fall back to a bare array of rows.
		if arrErr := json.Unmarshal(data, &pf.Rows); arrErr != nil {
			return Partition{}, err
		}
	}

	partition := Partition{Name: pf.Name}
	if partition.Name == "" {
		partition.Name = strings.TrimSuffix(name, ".json")
	}

	for i, raw := range pf.Rows {
		row, err := ParseRow(raw)
		if err != nil {
			return Partition{}, fmt.Errorf("row %d: %w", i, err)
		}
		partition.Rows = append(partition.Rows, row)
	}
	return partition, nil
}

// loadMetadata reads the three optional sidecars. Each one degrades
// independently: a missing file is normal, a malformed one logs a warning
// and leaves that table empty.
func (l *Loader) loadMetadata() *MetadataSet {
	meta := EmptyMetadata()

	if data, err := os.ReadFile(filepath.Join(l.dir, ebookLinksFile)); err == nil { //#nosec G304
		links, perr := parseEbookLinks(data)
		if perr != nil {
			l.logger.Warn("malformed ebook links table, ignoring", "error", perr)
		} else {
			meta.EbookLinks = links
		}
	}

	if data, err := os.ReadFile(filepath.Join(l.dir, biographiesFile)); err == nil { //#nosec G304
		bios, perr := parseBiographies(data)
		if perr != nil {
			l.logger.Warn("malformed biographies table, ignoring", "error", perr)
		} else {
			meta.Biographies = bios
		}
	}

	if data, err := os.ReadFile(filepath.Join(l.dir, publicationInfoFile)); err == nil { //#nosec G304
		info, perr := parsePublicationInfo(data)
		if perr != nil {
			l.logger.Warn("malformed publication info table, ignoring", "error", perr)
		} else {
			meta.PublicationInfo = info
		}
	}

	return meta
}
