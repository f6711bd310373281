package codec

import "errors"

// ErrRatioExceeded is returned when an archive entry's uncompressed-to-
// compressed size ratio would exceed the configured ceiling (zip-bomb
// defense, spec §4.1 / §8.3 scenario 5).
var ErrRatioExceeded = errors.New("codec: decompression ratio exceeds policy")

// CheckCompressionRatio implements spec §4.1's check_compression_ratio:
// compressed == 0 means the entry is stored (not compressed), in which case
// the absolute uncompressed size is checked against maxFileSize directly.
// Zero-uncompressed entries are always Ok, regardless of compressed size.
func CheckCompressionRatio(compressed, uncompressed, maxRatio, maxFileSize int64) error {
	if uncompressed == 0 {
		return nil
	}
	if compressed == 0 {
		if uncompressed > maxFileSize {
			return ErrRatioExceeded
		}
		return nil
	}
	if maxRatio <= 0 {
		return nil
	}
	// First compare the integer quotient, which cannot overflow.
	if uncompressed/compressed > maxRatio {
		return ErrRatioExceeded
	}
	// Catch cases where integer division rounds the ratio down just under
	// the ceiling but the true ratio is still over it.
	if compressed != 0 && uncompressed > maxRatio*compressed {
		return ErrRatioExceeded
	}
	return nil
}
