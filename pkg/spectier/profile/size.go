package profile

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// bytesPerMB is the size of one megabyte as reported by device memory APIs
// (binary, 1 MiB).
const bytesPerMB = 1024 * 1024

// ErrInvalidSize indicates that a memory size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// sizePattern matches memory sizes like "3680", "4G", "512M", "3.5GiB".
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ParseMegabytes parses a memory size and returns it in megabytes.
// A plain number is already in megabytes. Suffixed values use binary units:
//   - Kilobytes: "512K", "512KB", "512KiB"
//   - Megabytes: "1024M", "1024MB", "1024MiB"
//   - Gigabytes: "4G", "4GB", "3.5GiB"
//   - Terabytes: "1T", "1TB", "1TiB"
//
// Fractional megabytes are truncated.
func ParseMegabytes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: %q", ErrNegativeValue, s)
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var perMB float64
	switch suffix {
	case "", "M":
		perMB = 1
	case "K":
		perMB = 1.0 / 1024
	case "G":
		perMB = 1024
	case "T":
		perMB = 1024 * 1024
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int(value * perMB), nil
}

// FormatMegabytes renders a megabyte count as a human-readable IEC size
// (e.g. 3680 -> "3.6 GiB").
func FormatMegabytes(mb int) string {
	if mb <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(mb) * bytesPerMB)
}
