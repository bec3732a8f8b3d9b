package extractor

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GeneralCategory is the fallback bucket for candidates whose category does
// not match the known list.
const GeneralCategory = "General Opportunities"

// defaultCategories is the compiled-in category list, used when no
// CATEGORY_FILE is configured or the file cannot be read.
var defaultCategories = []string{
	"Education",
	"Research",
	"Technology",
	"Engineering",
	"Health & Medicine",
	"Arts & Culture",
	"Business & Entrepreneurship",
	"Social Impact",
	"Environment",
	GeneralCategory,
}

// categoryFile is the YAML shape of a category list file:
//
//	categories:
//	  - Education
//	  - Research
type categoryFile struct {
	Categories []string `yaml:"categories"`
}

// LoadCategories returns the known category list. A configured file that is
// missing or malformed falls back to the defaults with a warning; startup
// never fails over a category list.
func LoadCategories(path string) []string {
	if path == "" {
		return defaultCategories
	}

	cats, err := readCategoryFile(path)
	if err != nil {
		slog.Warn("Failed to load category file, using defaults",
			slog.String("path", path),
			slog.Any("error", err))
		return defaultCategories
	}
	return cats
}

func readCategoryFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category file: %w", err)
	}

	var file categoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse category file: %w", err)
	}

	var cats []string
	for _, c := range file.Categories {
		c = strings.TrimSpace(c)
		if c != "" {
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("category file lists no categories")
	}

	// The fallback bucket is always part of the list.
	if !containsFold(cats, GeneralCategory) {
		cats = append(cats, GeneralCategory)
	}
	return cats, nil
}

// NormalizeCategory maps a model-provided category onto the known list,
// case-insensitively; anything unknown falls back to GeneralCategory.
func NormalizeCategory(category string, known []string) string {
	category = strings.TrimSpace(category)
	for _, k := range known {
		if strings.EqualFold(category, k) {
			return k
		}
	}
	return GeneralCategory
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
