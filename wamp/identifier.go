package wamp

import (
	"regexp"
)

// IDs are integers between (inclusive) 0 and 2^53 (9007199254740992)
type ID uint64

// URIs are dot-separated identifiers, where each component *should* only
// contain letters, numbers or underscores.
//
// See the documentation for specifics:
// https://github.com/wamp-proto/wamp-proto/blob/master/rfc/text/basic/bp_identifiers.md#uris-uris
type URI string

// URI check regular expressions
var (
	// loose URI check disallowing empty URI components
	looseURINonEmpty = regexp.MustCompile(`^([^\s\.#]+\.)*([^\s\.#]+)$`)
	// strict URI check disallowing empty URI components
	strictURINonEmpty = regexp.MustCompile(`^([0-9a-z_]+\.)*([0-9a-z_]+)$`)
)

// ValidURI returns true if the URI complies with formatting rules determined
// by the strict flag. Only exact-match URIs are accepted: pattern-based
// (prefix/wildcard) registration and subscription are out of scope.
func (u URI) ValidURI(strict bool) bool {
	if strict {
		return strictURINonEmpty.MatchString(string(u))
	}
	return looseURINonEmpty.MatchString(string(u))
}
