package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
)

var (
	defaultCategories = []string{
		"Groceries", "Utilities", "Entertainment", "Travel", "Housing", "Transportation",
		"Clothing", "Healthcare", "Education", "Dining", "Technology", "Other",
	}
	defaultSources = []string{
		"Salary", "Freelance", "Investment", "Gift", "Bonus", "Rental", "Side Hustle", "Other",
	}
)

// Taxonomy is a fixed list of expense categories and income sources.
type Taxonomy struct {
	categories []string
	sources    []string
}

func NewTaxonomy(categories, sources []string) *Taxonomy {
	return &Taxonomy{categories: dedupe(categories), sources: dedupe(sources)}
}

// NewTaxonomyFromFiles reads seed_categories.txt and seed_sources.txt from
// base. Missing or empty files fall back to the built-in lists.
func NewTaxonomyFromFiles(base string) *Taxonomy {
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	srcs := readLines(filepath.Join(base, "seed_sources.txt"))
	if len(cats) == 0 {
		cats = defaultCategories
	}
	if len(srcs) == 0 {
		srcs = defaultSources
	}
	return NewTaxonomy(cats, srcs)
}

func (t *Taxonomy) ListTaxonomy(context.Context) ([]string, []string, error) {
	cats := append([]string(nil), t.categories...)
	srcs := append([]string(nil), t.sources...)
	return cats, srcs, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, preserving input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
