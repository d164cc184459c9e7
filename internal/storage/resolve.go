package storage

import (
	"net/url"
	"strings"
)

// ObjectRef names a stored object by bucket and key.
type ObjectRef struct {
	Bucket string
	Key    string
}

const (
	publicObjectMarker  = "/storage/v1/object/public/"
	privateObjectMarker = "/storage/v1/object/"
)

// ResolveObjectURL recognises the two URL shapes a stored media reference may
// take: the legacy public layout `.../storage/v1/object/public/<bucket>/<key>`
// and the private layout `.../storage/v1/object/<bucket>/<key>`. The key is
// URL-decoded. References matching neither shape return false and are used by
// callers as-is, without re-signing.
func ResolveObjectURL(raw string) (ObjectRef, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ObjectRef{}, false
	}

	// The public shape must be tested first: its prefix contains the private
	// marker, and matching the private shape would yield bucket "public".
	if idx := strings.Index(trimmed, publicObjectMarker); idx >= 0 {
		return splitBucketKey(trimmed[idx+len(publicObjectMarker):])
	}
	if idx := strings.Index(trimmed, privateObjectMarker); idx >= 0 {
		return splitBucketKey(trimmed[idx+len(privateObjectMarker):])
	}
	return ObjectRef{}, false
}

func splitBucketKey(rest string) (ObjectRef, bool) {
	rest = strings.TrimLeft(rest, "/")
	// Drop any query string (signed URLs carry their token there).
	if q := strings.IndexByte(rest, '?'); q >= 0 {
		rest = rest[:q]
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ObjectRef{}, false
	}
	key := parts[1]
	if decoded, err := url.PathUnescape(key); err == nil {
		key = decoded
	}
	return ObjectRef{Bucket: parts[0], Key: key}, true
}
