package xci

import (
	"path/filepath"
	"strings"
)

const (
	fullToken        = " (Full XCI)"
	initialAreaToken = " (Initial Area)"
	defaultToken     = " (Default XCI)"
)

// FullName derives the FullXCI file name from a Default image path
func FullName(defaultPath string) string {
	ext := filepath.Ext(defaultPath)
	return strings.TrimSuffix(defaultPath, ext) + fullToken + ext
}

// SplitNames derives the Initial Area and Default image paths produced by
// truncating fullPath. A trailing "(Full XCI)" token is dropped first.
func SplitNames(fullPath string) (initialArea, defaultImage string) {
	dir := filepath.Dir(fullPath)
	base := strings.TrimSuffix(filepath.Base(fullPath), filepath.Ext(fullPath))
	base = strings.TrimSuffix(base, fullToken)

	return filepath.Join(dir, base+initialAreaToken+".bin"),
		filepath.Join(dir, base+defaultToken+".xci")
}
