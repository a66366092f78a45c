package util

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	bytesInMegabyte = 1024 * 1024
)

// TitleDir returns the per-title directory under the destination root.
func TitleDir(root, id string) string {
	return filepath.Join(root, id)
}

// PackagePath returns the local path of a downloaded package file.
func PackagePath(root, id, filename string) string {
	return filepath.Join(TitleDir(root, id), filename)
}

// FilenameFromURL returns the final path segment of rawURL. The query string is ignored.
func FilenameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("cannot parse url %q: %w", rawURL, err)
	}

	if strings.HasSuffix(u.Path, "/") {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}

	return name, nil
}

// ParseSize parses a manifest byte count. Fractional values are truncated.
func ParseSize(size string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(size), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse size %q: %w", size, err)
	}

	if f < 0 {
		return 0, fmt.Errorf("negative size %q", size)
	}

	return int64(f), nil
}

// BytesToMegabytes formats a byte count as megabytes with two decimals.
func BytesToMegabytes(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/bytesInMegabyte)
}
