package seed

import (
	"context"
	_ "embed"
	"fmt"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"gopkg.in/yaml.v3"
)

//go:embed groups.yaml
var defaultGroupsYAML []byte

// DefaultGroups parses the embedded group definitions.
func DefaultGroups() ([]models.Group, error) {
	return ParseGroups(defaultGroupsYAML)
}

// ParseGroups decodes a YAML list of groups and validates each entry.
func ParseGroups(raw []byte) ([]models.Group, error) {
	var groups []models.Group
	if err := yaml.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	seen := make(map[string]struct{}, len(groups))
	for i, g := range groups {
		if err := validation.ValidateGroup(g); err != nil {
			return nil, fmt.Errorf("group %d (%q): %w", i, g.Slug, err)
		}
		if _, dup := seen[g.Slug]; dup {
			return nil, fmt.Errorf("group %d: duplicate slug %q", i, g.Slug)
		}
		seen[g.Slug] = struct{}{}
	}
	return groups, nil
}

// Groups upserts the default groups. Running it twice leaves one row per slug.
func Groups(ctx context.Context, repo repository.GroupRepository) error {
	groups, err := DefaultGroups()
	if err != nil {
		return err
	}
	return repo.Upsert(ctx, groups)
}
