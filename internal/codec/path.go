package codec

import (
	"errors"
	"strings"
)

// ErrInvalidPath is returned for any component path that could escape a
// virtual root: empty segments, "..", absolute prefixes, or backslashes.
var ErrInvalidPath = errors.New("codec: invalid component path")

// ValidatePath normalizes and validates p per spec §3.1 / §4.1. It mirrors
// the teacher's storage/prefixeduuid.go discipline of treating paths as
// opaque strings with a strict, explicit grammar rather than delegating to
// filepath.Clean (which is host-OS-dependent and would accept backslashes on
// some platforms).
func ValidatePath(p string) error {
	if p == "" {
		return ErrInvalidPath
	}
	if strings.Contains(p, "\\") {
		return ErrInvalidPath
	}
	if strings.HasPrefix(p, "/") {
		return ErrInvalidPath
	}
	segments := strings.Split(p, "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return ErrInvalidPath
		}
	}
	return nil
}
