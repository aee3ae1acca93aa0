package tags

import (
	"sort"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// BuildIndex aggregates posts into per-tag groups. Tags appear in first-seen
// order across the input collection, and each group keeps the posts in the
// order they were provided, so an already date-sorted input yields
// date-sorted groups. Tag names compare exactly: "JS" and "js" are distinct.
func BuildIndex(posts []interfaces.Post) []interfaces.TagInfo {
	index := make(map[string]int)
	var groups []interfaces.TagInfo

	for _, post := range posts {
		for _, tag := range post.Tags {
			position, seen := index[tag]
			if !seen {
				position = len(groups)
				index[tag] = position
				groups = append(groups, interfaces.TagInfo{Name: tag})
			}
			groups[position].Posts = append(groups[position].Posts, post)
			groups[position].Count++
		}
	}

	return groups
}

// SortByCount orders groups by descending post count. The sort is stable so
// groups with equal counts keep their first-seen order.
func SortByCount(groups []interfaces.TagInfo) []interfaces.TagInfo {
	sorted := make([]interfaces.TagInfo, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

// Lookup returns the group for an exact tag name.
func Lookup(groups []interfaces.TagInfo, name string) (interfaces.TagInfo, bool) {
	for _, group := range groups {
		if group.Name == name {
			return group, true
		}
	}
	return interfaces.TagInfo{}, false
}

// Filter returns the posts carrying an exact tag, preserving input order.
func Filter(posts []interfaces.Post, name string) []interfaces.Post {
	var matched []interfaces.Post
	for _, post := range posts {
		for _, tag := range post.Tags {
			if tag == name {
				matched = append(matched, post)
				break
			}
		}
	}
	return matched
}
