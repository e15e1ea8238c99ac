// Package fileutil provides small file helpers shared by the tailer
// and the watcher's startup validation.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Size returns the current size of the file in bytes.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// IsReadable reports whether the file can be opened for reading.
func IsReadable(path string) bool {
	f, err := os.Open(path) // #nosec G304 - operator-supplied path
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Validate partitions the requested paths into readable ones and
// warnings for the rest. It errors only when no path is usable.
func Validate(paths []string) ([]string, []string, error) {
	var valid []string
	var warnings []string

	for _, path := range paths {
		if IsReadable(path) {
			valid = append(valid, path)
		} else {
			warnings = append(warnings, fmt.Sprintf("file not readable: %s", path))
		}
	}

	if len(valid) == 0 {
		return nil, warnings, fmt.Errorf("no valid files to watch: %s", strings.Join(warnings, ", "))
	}

	return valid, warnings, nil
}

// HumanSize formats a byte count using binary units.
func HumanSize(size int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(size)
	idx := 0

	for value >= 1024 && idx < len(units)-1 {
		value /= 1024
		idx++
	}

	if idx == 0 {
		return fmt.Sprintf("%d %s", size, units[idx])
	}
	return fmt.Sprintf("%.1f %s", value, units[idx])
}

// Basename returns the final element of the path, or "unknown" when
// the path has no usable name.
func Basename(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return "unknown"
	}
	return name
}
