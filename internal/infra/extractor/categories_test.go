package extractor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCategories_EmptyPathUsesDefaults(t *testing.T) {
	got := LoadCategories("")
	if len(got) != len(defaultCategories) {
		t.Fatalf("LoadCategories(\"\") returned %d categories, want %d", len(got), len(defaultCategories))
	}
	if !containsFold(got, GeneralCategory) {
		t.Errorf("default categories missing %q", GeneralCategory)
	}
}

func TestLoadCategories_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	data := "categories:\n  - Robotics\n  - Marine Biology\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	got := LoadCategories(path)
	if !containsFold(got, "Robotics") || !containsFold(got, "Marine Biology") {
		t.Errorf("LoadCategories() = %v, want file entries present", got)
	}
	// The fallback bucket is appended even when the file omits it.
	if !containsFold(got, GeneralCategory) {
		t.Errorf("LoadCategories() = %v, want %q appended", got, GeneralCategory)
	}
}

func TestLoadCategories_MissingFileFallsBack(t *testing.T) {
	got := LoadCategories(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if len(got) != len(defaultCategories) {
		t.Errorf("LoadCategories() with missing file returned %d categories, want defaults", len(got))
	}
}

func TestLoadCategories_MalformedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte("categories: {not: [valid"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := LoadCategories(path)
	if len(got) != len(defaultCategories) {
		t.Errorf("LoadCategories() with malformed file returned %d categories, want defaults", len(got))
	}
}

func TestLoadCategories_EmptyListFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte("categories:\n  - \"  \"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := LoadCategories(path)
	if len(got) != len(defaultCategories) {
		t.Errorf("LoadCategories() with empty list returned %d categories, want defaults", len(got))
	}
}

func TestNormalizeCategory(t *testing.T) {
	known := []string{"Education", "Research", GeneralCategory}

	tests := []struct {
		in   string
		want string
	}{
		{"Education", "Education"},
		{"education", "Education"},
		{"  Research  ", "Research"},
		{"Cooking", GeneralCategory},
		{"", GeneralCategory},
	}

	for _, tt := range tests {
		if got := NormalizeCategory(tt.in, known); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
