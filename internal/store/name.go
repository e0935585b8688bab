package store

import (
	"strings"
	"time"
)

const (
	// stampLayout orders snapshots lexicographically by capture time, so the
	// store never depends on filesystem timestamps.
	stampLayout = "20060102-150405"
	patchExt    = ".patch"
)

// FileName builds the snapshot file name for a capture instant.
// Format: YYYYMMDD-HHMMSS[-label].patch, the label appended verbatim.
func FileName(takenAt time.Time, label string) string {
	name := takenAt.Format(stampLayout)
	if label != "" {
		name += "-" + label
	}
	return name + patchExt
}

// ParseName recovers the capture time and label from a snapshot file name.
// Files that do not follow the snapshot naming scheme report ok=false and are
// ignored by the store.
func ParseName(name string) (takenAt time.Time, label string, ok bool) {
	base, found := strings.CutSuffix(name, patchExt)
	if !found || len(base) < len(stampLayout) {
		return time.Time{}, "", false
	}

	takenAt, err := time.ParseInLocation(stampLayout, base[:len(stampLayout)], time.Local)
	if err != nil {
		return time.Time{}, "", false
	}

	rest := base[len(stampLayout):]
	if rest == "" {
		return takenAt, "", true
	}
	if !strings.HasPrefix(rest, "-") {
		return time.Time{}, "", false
	}
	return takenAt, rest[1:], true
}
