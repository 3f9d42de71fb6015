package scan

import (
	"path/filepath"
	"strings"
)

// shouldExclude checks if a relative path matches any exclude pattern.
// Patterns support:
//   - Basename globs: *.tmp, Thumbs.db
//   - Directory patterns: .git/, node_modules/
//   - Path patterns: build/*, **/cache/*
func shouldExclude(relativePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalizedPath := filepath.ToSlash(relativePath)
	baseName := filepath.Base(relativePath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		normalizedPattern := filepath.ToSlash(pattern)

		// Directory patterns end with /
		if strings.HasSuffix(normalizedPattern, "/") {
			dirPattern := strings.TrimSuffix(normalizedPattern, "/")
			if normalizedPath == dirPattern ||
				strings.HasPrefix(normalizedPath, dirPattern+"/") ||
				strings.Contains(normalizedPath, "/"+dirPattern+"/") ||
				strings.HasSuffix(normalizedPath, "/"+dirPattern) {
				return true
			}
			continue
		}

		// ** matches at any depth
		if strings.HasPrefix(normalizedPattern, "**/") {
			suffix := strings.TrimPrefix(normalizedPattern, "**/")
			if matchGlob(baseName, suffix) {
				return true
			}
			if normalizedPath == suffix || strings.HasSuffix(normalizedPath, "/"+suffix) {
				return true
			}
			if matchGlobAnySegment(normalizedPath, suffix) {
				return true
			}
			continue
		}

		if strings.Contains(normalizedPattern, "/") {
			// Pattern applies to the full relative path
			if matchGlob(normalizedPath, normalizedPattern) {
				return true
			}
			if strings.HasSuffix(normalizedPath, normalizedPattern) {
				return true
			}
		} else {
			// Pattern applies to the basename only
			if matchGlob(baseName, normalizedPattern) {
				return true
			}
		}
	}

	return false
}

// matchGlob performs glob matching on a single path component
func matchGlob(name, pattern string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}

// matchGlobAnySegment checks if any component of the path matches the pattern
func matchGlobAnySegment(path, pattern string) bool {
	for _, part := range strings.Split(path, "/") {
		if matchGlob(part, pattern) {
			return true
		}
	}
	return false
}
