package rules

import (
	"path/filepath"
	"testing"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

func resolveFor(t *testing.T, rules []Rule, path string) string {
	t.Helper()
	resolver := NewResolver(rules)
	return resolver.Resolve(models.FileRecord{AbsolutePath: path}, "/target")
}

// ============== Resolver Tests ==============

func TestResolver_Resolve(t *testing.T) {
	rules := []Rule{
		{Kind: KindExactFilename, Pattern: "budget.xlsx", Destination: "Finance"},
		{Kind: KindExtension, Pattern: ".xlsx", Destination: "Documents/Spreadsheets"},
		{Kind: KindExtension, Pattern: ".jpg", Destination: "Pictures"},
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"ExtensionMatch", "/src/photo.jpg", "/target/Pictures/photo.jpg"},
		{"ExtensionCaseInsensitive", "/src/HOLIDAY.JPG", "/target/Pictures/HOLIDAY.JPG"},
		{"ExactBeforeExtension", "/src/budget.xlsx", "/target/Finance/budget.xlsx"},
		{"ExtensionFallthrough", "/src/report.xlsx", "/target/Documents/Spreadsheets/report.xlsx"},
		{"NoMatchFlatPlacement", "/src/weird.xyz", "/target/weird.xyz"},
		{"NoExtension", "/src/Makefile", "/target/Makefile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveFor(t, rules, tt.path)
			want := filepath.FromSlash(tt.want)
			if got != want {
				t.Errorf("Resolve(%s) = %s, want %s", tt.path, got, want)
			}
		})
	}
}

func TestResolver_DeclarationOrderWins(t *testing.T) {
	// With the exact rule listed second, the broader extension rule
	// shadows it; ordering is the whole precedence model.
	rules := []Rule{
		{Kind: KindExtension, Pattern: ".xlsx", Destination: "Documents/Spreadsheets"},
		{Kind: KindExactFilename, Pattern: "budget.xlsx", Destination: "Finance"},
	}

	got := resolveFor(t, rules, "/src/budget.xlsx")
	want := filepath.FromSlash("/target/Documents/Spreadsheets/budget.xlsx")
	if got != want {
		t.Errorf("Resolve() = %s, want %s", got, want)
	}
}

func TestResolver_ExactFilenameCaseSensitive(t *testing.T) {
	rules := []Rule{
		{Kind: KindExactFilename, Pattern: "README.md", Destination: "Docs"},
	}

	got := resolveFor(t, rules, "/src/readme.md")
	want := filepath.FromSlash("/target/readme.md")
	if got != want {
		t.Errorf("Resolve() = %s, want flat placement %s for non-matching case", got, want)
	}
}

func TestResolver_NoRules(t *testing.T) {
	got := resolveFor(t, nil, "/src/anything.pdf")
	want := filepath.FromSlash("/target/anything.pdf")
	if got != want {
		t.Errorf("Resolve() = %s, want %s", got, want)
	}
}
