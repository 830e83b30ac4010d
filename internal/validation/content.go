package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"yatube/internal/models"
)

var groupSlugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var reservedGroupSlugs = map[string]struct{}{
	"new":     {},
	"edit":    {},
	"create":  {},
	"api":     {},
	"ws":      {},
	"swagger": {},
}

// ErrEmptyText is returned for a post body that is blank after trimming.
var ErrEmptyText = errors.New("text must not be empty")

// ValidatePostText requires a non-blank body of at most models.MaxPostTextLength characters.
func ValidatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(text) > models.MaxPostTextLength {
		return fmt.Errorf("text must not exceed %d characters", models.MaxPostTextLength)
	}
	return nil
}

// ValidateGroupSlug validates group slug format and reserved names.
func ValidateGroupSlug(slug string) error {
	if slug == "" {
		return errors.New("slug is required")
	}
	if len(slug) > models.MaxGroupSlugLength {
		return fmt.Errorf("slug must not exceed %d characters", models.MaxGroupSlugLength)
	}
	if !groupSlugRegex.MatchString(slug) {
		return errors.New("slug can only contain letters, numbers, underscores, and hyphens")
	}
	if _, reserved := reservedGroupSlugs[strings.ToLower(slug)]; reserved {
		return errors.New("slug is reserved")
	}
	return nil
}

// ValidateGroup checks title and slug of a group definition.
func ValidateGroup(g models.Group) error {
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(g.Title) > models.MaxGroupTitleLength {
		return fmt.Errorf("title must not exceed %d characters", models.MaxGroupTitleLength)
	}
	return ValidateGroupSlug(g.Slug)
}
