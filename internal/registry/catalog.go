package registry

import (
	"fmt"
	"os"

	"footprint/pkg/domain"

	"github.com/goccy/go-yaml"
)

// Categories used by the built-in catalog.
const (
	CategoryTech         = "tech"
	CategorySocial       = "social"
	CategoryProfessional = "professional"
	CategoryForum        = "forum"
	CategoryMedia        = "media"
	CategoryBlog         = "blog"
	CategoryDesign       = "design"
)

// DefaultTargets returns the built-in catalog in probe order.
func DefaultTargets() []domain.Target {
	return []domain.Target{
		{ID: "github.com", URLTemplate: "https://github.com/{}", Category: CategoryTech},
		{ID: "twitter.com", URLTemplate: "https://twitter.com/{}", Category: CategorySocial},
		{ID: "instagram.com", URLTemplate: "https://instagram.com/{}", Category: CategorySocial},
		{ID: "linkedin.com", URLTemplate: "https://linkedin.com/{}", Category: CategoryProfessional},
		{ID: "medium.com", URLTemplate: "https://medium.com/{}", Category: CategoryBlog},
		{ID: "youtube.com", URLTemplate: "https://youtube.com/{}", Category: CategoryMedia},
		{ID: "reddit.com", URLTemplate: "https://reddit.com/{}", Category: CategoryForum},
		{ID: "pinterest.com", URLTemplate: "https://pinterest.com/{}", Category: CategorySocial},
		{ID: "behance.net", URLTemplate: "https://behance.net/{}", Category: CategoryDesign},
		{ID: "dribbble.com", URLTemplate: "https://dribbble.com/{}", Category: CategoryDesign},
	}
}

// Default returns a Registry over DefaultTargets.
func Default() *Registry {
	r, err := New(DefaultTargets()...)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}

	return r
}

// catalogFile is the on-disk shape of a catalog.
type catalogFile struct {
	Targets []domain.Target `yaml:"targets"`
}

// Parse builds a Registry from a YAML catalog document.
func Parse(data []byte) (*Registry, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("could not decode catalog: %w", err)
	}
	if len(f.Targets) == 0 {
		return nil, fmt.Errorf("catalog has no targets")
	}

	return New(f.Targets...)
}

// Load reads a YAML catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read catalog: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	return r, nil
}
