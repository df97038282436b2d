package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	keyPattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/_.-]*$`)
)

const maxSlugLength = 48

// Slug lowercases name and replaces every run of other characters with a
// single dash.
func Slug(name string) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return "site"
	}
	return slug
}

// SiteContentKey builds a unique object key for a site's content document.
func SiteContentKey(siteID int64, name string) string {
	file := fmt.Sprintf("%s_%s.json", Slug(name), uuid.New().String()[:8])
	return path.Join("sites", fmt.Sprint(siteID), file)
}

// ValidateKey rejects empty keys, absolute paths and parent references.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("object key %q is not allowed", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return fmt.Errorf("object key %q is not allowed", key)
		}
	}
	return nil
}

// ValidateSize checks that a document fits within MaxObjectSize.
func ValidateSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("object size must be greater than 0")
	}
	if sizeBytes > MaxObjectSize {
		return fmt.Errorf("object size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, MaxObjectSize)
	}
	return nil
}
