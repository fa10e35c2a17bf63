package storage

import (
	"fmt"
	"strconv"
	"time"
)

// MaxListCap is the largest page size a List call accepts.
const MaxListCap int32 = 5000

// BlobMeta describes a stored blob.
type BlobMeta struct {
	Key           string    `json:"key"`
	ContentType   string    `json:"content_type"`
	ContentLength int64     `json:"content_length"`
	LastModified  time.Time `json:"last_modified"`
}

// BlobList is one page of a List call. NextMarker is empty on the last page.
type BlobList struct {
	Blobs      []BlobMeta `json:"blobs"`
	NextMarker string     `json:"next_marker,omitempty"`
}

// ParseMaxResults parses a max_results query value. Empty input yields
// fallback; values above MaxListCap are clamped.
func ParseMaxResults(s string, fallback int32) (int32, error) {
	if s == "" {
		return fallback, nil
	}

	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid max_results %q: must be a positive integer", s)
	}

	return min(int32(n), MaxListCap), nil
}
