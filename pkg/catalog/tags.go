package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// RefreshTags recomputes the global tag set by scanning every content row's
// tags, dropping blanks and collapsing duplicates (case-sensitive). A full
// recompute after each content mutation is cheaper to get right than an
// incremental index at this data scale.
func (s *service) RefreshTags(ctx context.Context) ([]string, error) {
	tagLists, err := s.repository.ListContentTags(ctx)
	if err != nil {
		return nil, &EntityError{Entity: "content", ID: uuid.Nil, Op: "refresh_tags", Err: err}
	}
	return flattenTags(tagLists), nil
}

// flattenTags merges per-row tag slices into one sorted, de-duplicated set.
func flattenTags(lists [][]string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, tags := range lists {
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			result = append(result, tag)
		}
	}
	slices.Sort(result)
	return result
}

// normalizeTags trims, drops blank entries, and collapses duplicates while
// preserving the caller's ordering.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
