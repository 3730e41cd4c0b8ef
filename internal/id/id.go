// Package id generates the identifiers used for stored records.
package id

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "list-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly and compact (21 characters vs UUID's 36).
//
// Returns an error if the system has insufficient entropy for secure
// random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only when failure should crash the program, such as during
// initialization.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Timestamped creates a prefixed ID derived from the current time with a
// short random suffix to break ties between calls in the same
// millisecond. Saved searches use these so their IDs sort by creation
// time.
func Timestamped(prefix string) (string, error) {
	suffix, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 6)
	if err != nil {
		return "", fmt.Errorf("generate nanoid suffix: %w", err)
	}
	ms := time.Now().UnixMilli()
	return prefix + "-" + strconv.FormatInt(ms, 10) + "-" + suffix, nil
}
