package rules

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Kind distinguishes the two supported pattern kinds
type Kind string

const (
	// KindExtension matches on file extension, case-insensitively
	KindExtension Kind = "extension"
	// KindExactFilename matches the whole filename, case-sensitively
	KindExactFilename Kind = "exactFilename"
)

// Rule maps a filename pattern to a destination subdirectory template.
// Rules are evaluated in declaration order; the first match wins. There is
// no specificity scoring, a deliberate predictability trade-off.
type Rule struct {
	Kind        Kind
	Pattern     string
	Destination string
}

// Load reads an ordered rule catalog from a pipe-delimited file.
// Each line is `pattern|destination`; '#' comments and blank lines are
// ignored. A pattern of the form `*.ext` becomes an extension rule,
// anything else an exact-filename rule.
func Load(path string) ([]Rule, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer file.Close()

	var rules []Rule
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("rules file %s line %d: expected 'pattern|destination'", path, lineNo)
		}

		pattern := strings.TrimSpace(parts[0])
		dest := strings.TrimSpace(parts[1])
		if pattern == "" || dest == "" {
			return nil, fmt.Errorf("rules file %s line %d: empty pattern or destination", path, lineNo)
		}

		rules = append(rules, parse(pattern, dest))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	return rules, nil
}

// parse classifies one pattern line into a Rule
func parse(pattern, dest string) Rule {
	if strings.HasPrefix(pattern, "*.") && len(pattern) > 2 {
		return Rule{
			Kind:        KindExtension,
			Pattern:     strings.ToLower(strings.TrimPrefix(pattern, "*")),
			Destination: dest,
		}
	}
	return Rule{
		Kind:        KindExactFilename,
		Pattern:     pattern,
		Destination: dest,
	}
}

// Defaults returns the built-in rule catalog
func Defaults() []Rule {
	lines := []struct{ pattern, dest string }{
		{"*.pdf", "Documents"},
		{"*.doc", "Documents"},
		{"*.docx", "Documents"},
		{"*.odt", "Documents"},
		{"*.txt", "Documents"},
		{"*.md", "Documents"},
		{"*.xls", "Documents/Spreadsheets"},
		{"*.xlsx", "Documents/Spreadsheets"},
		{"*.csv", "Documents/Spreadsheets"},
		{"*.ppt", "Documents/Presentations"},
		{"*.pptx", "Documents/Presentations"},
		{"*.jpg", "Pictures"},
		{"*.jpeg", "Pictures"},
		{"*.png", "Pictures"},
		{"*.gif", "Pictures"},
		{"*.bmp", "Pictures"},
		{"*.heic", "Pictures"},
		{"*.raw", "Pictures/Raw"},
		{"*.svg", "Pictures/Vector"},
		{"*.mp3", "Music"},
		{"*.flac", "Music"},
		{"*.ogg", "Music"},
		{"*.wav", "Music"},
		{"*.m4a", "Music"},
		{"*.mp4", "Videos"},
		{"*.mkv", "Videos"},
		{"*.avi", "Videos"},
		{"*.mov", "Videos"},
		{"*.zip", "Archives"},
		{"*.tar", "Archives"},
		{"*.gz", "Archives"},
		{"*.7z", "Archives"},
		{"*.rar", "Archives"},
		{"*.iso", "Archives/Images"},
		{"*.exe", "Software"},
		{"*.msi", "Software"},
		{"*.dmg", "Software"},
		{"*.deb", "Software"},
		{"*.epub", "Books"},
		{"*.mobi", "Books"},
	}

	rules := make([]Rule, 0, len(lines))
	for _, l := range lines {
		rules = append(rules, parse(l.pattern, l.dest))
	}
	return rules
}
