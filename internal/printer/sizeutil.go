package printer

import "fmt"

var byteUnits = []string{"KB", "MB", "GB"}

// FormatBytes returns a human-readable byte size string.
// Examples: "0 B", "512 B", "1.5 KB", "2.0 MB".
func FormatBytes(bytes int64) string {
	if bytes < 1024 {
		if bytes < 0 {
			bytes = 0
		}
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes) / 1024
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", size, byteUnits[unit])
}
