package display

import (
	"fmt"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatReduction builds the batch summary line for the given byte totals:
// human-readable before/after sizes and the reduction factor before/after.
// When after is zero (empty batch or all-empty outputs) no factor can be
// computed and the line says so instead of dividing by zero.
func FormatReduction(before, after int64) string {
	if after == 0 {
		return fmt.Sprintf("Reduced size %s -> %s, no reduction computable",
			FormatBytes(before), FormatBytes(after))
	}
	factor := float64(before) / float64(after)
	return fmt.Sprintf("Reduced size %s -> %s, %.1fx",
		FormatBytes(before), FormatBytes(after), factor)
}
