package navigator

import (
	"errors"
	"fmt"
	"strings"
)

// Scheme is the prefix of a node id.
type Scheme string

// Node id schemes.
const (
	SchemeDB     Scheme = "db"
	SchemeFolder Scheme = "folder"
	SchemeFS     Scheme = "fs"
)

const schemeSep = "://"

// ErrInvalidNodeID is returned by ParseNodeID for malformed ids.
var ErrInvalidNodeID = errors.New("invalid node id")

// NodeID is a parsed node id.
type NodeID struct {
	Scheme Scheme
	Path   []string
}

// ParseNodeID parses a node id. The scheme is matched case-insensitively and
// a trailing slash is ignored, so "DB://local/" parses like "db://local".
func ParseNodeID(raw string) (NodeID, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(raw), schemeSep)
	if !ok {
		return NodeID{}, fmt.Errorf("%w %q: missing scheme", ErrInvalidNodeID, raw)
	}

	id := NodeID{Scheme: Scheme(strings.ToLower(scheme))}
	switch id.Scheme {
	case SchemeDB, SchemeFolder, SchemeFS:
	default:
		return NodeID{}, fmt.Errorf("%w %q: unknown scheme %q", ErrInvalidNodeID, raw, scheme)
	}

	rest = strings.TrimSuffix(rest, "/")
	if rest == "" {
		return NodeID{}, fmt.Errorf("%w %q: empty path", ErrInvalidNodeID, raw)
	}
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" {
			return NodeID{}, fmt.Errorf("%w %q: empty path segment", ErrInvalidNodeID, raw)
		}
		id.Path = append(id.Path, seg)
	}
	return id, nil
}

// String returns the canonical form of the id.
func (id NodeID) String() string {
	return string(id.Scheme) + schemeSep + strings.Join(id.Path, "/")
}

// DBNodeID builds a canonical db:// id from its segments.
func DBNodeID(segments ...string) string {
	return NodeID{Scheme: SchemeDB, Path: segments}.String()
}

// ValidSegment reports whether s can be used as a node id segment,
// e.g. as a connection name.
func ValidSegment(s string) bool {
	return s != "" && !strings.ContainsAny(s, "/\\") && !strings.Contains(s, schemeSep) && strings.TrimSpace(s) == s
}
