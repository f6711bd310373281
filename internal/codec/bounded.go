package codec

import (
	"errors"
	"io"
)

// ErrLimitExceeded is returned the moment a bounded read would exceed its
// configured budget. It is never returned after allocating beyond the limit.
var ErrLimitExceeded = errors.New("codec: byte budget exceeded")

// ReadBounded reads from src until EOF or until limit bytes have been read,
// whichever comes first. If more than limit bytes are available it returns
// ErrLimitExceeded without having buffered more than limit+1 bytes at any
// point (the +1 is the byte that proves the budget was exceeded).
func ReadBounded(src io.Reader, limit int64) ([]byte, error) {
	if limit < 0 {
		return nil, ErrLimitExceeded
	}
	// Read one byte past the limit so an exact-fit input of size == limit
	// succeeds while limit+1 bytes of input fails, without ever holding more
	// than limit+1 bytes in memory.
	lr := io.LimitReader(src, limit+1)
	buf, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > limit {
		return nil, ErrLimitExceeded
	}
	return buf, nil
}

// CheckedSize validates that a declared size (e.g. from an archive entry
// header) does not overflow when added to an accumulator, and does not
// exceed limit. Integer overflow is treated as ErrLimitExceeded rather than
// silently wrapping, per spec §4.1's edge policy.
func CheckedSize(accumulated, add, limit int64) (int64, error) {
	if add < 0 || accumulated < 0 {
		return 0, ErrLimitExceeded
	}
	sum := accumulated + add
	if sum < accumulated { // overflow
		return 0, ErrLimitExceeded
	}
	if sum > limit {
		return 0, ErrLimitExceeded
	}
	return sum, nil
}
