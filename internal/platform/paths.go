package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// unixProtectedRoots are system paths that must never be used as scan roots.
// Scanning, and later moving files out of, these would damage the system.
var unixProtectedRoots = []string{
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/lib",
	"/lib64",
	"/proc",
	"/run",
	"/sbin",
	"/sys",
	"/usr",
	"/var",
}

// windowsProtectedRoots are the Windows equivalents, compared case-insensitively
var windowsProtectedRoots = []string{
	`C:\`,
	`C:\Windows`,
	`C:\Program Files`,
	`C:\Program Files (x86)`,
}

// IsProtectedRoot reports whether path is a protected system root.
// Only exact matches (after cleaning) are protected; directories beneath
// a protected root, such as /var/tmp/staging, are fine.
func IsProtectedRoot(path string) bool {
	cleaned := NormalizePath(path)

	if runtime.GOOS == "windows" {
		for _, root := range windowsProtectedRoots {
			if strings.EqualFold(cleaned, filepath.Clean(root)) {
				return true
			}
		}
		return false
	}

	for _, root := range unixProtectedRoots {
		if cleaned == root {
			return true
		}
	}
	return false
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// IsAbsolute checks if a path is absolute
func IsAbsolute(path string) bool {
	if IsUNCPath(path) {
		return true
	}
	return filepath.IsAbs(path)
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" {
		invalidChars := []string{"<", ">", "\"", "|", "?", "*"}
		for _, char := range invalidChars {
			if strings.Contains(path, char) && !IsUNCPath(path) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
