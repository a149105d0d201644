package model

import (
	"strings"
	"unicode/utf8"
)

// Tag limits enforced by the record store.
const (
	MaxTagLength = 64 // characters
	MaxTags      = 64
)

// ParseTags splits form input on single spaces.
// Empty tokens are kept, so "" yields [""] and "a  b" yields ["a" "" "b"].
func ParseTags(input string) []string {
	return strings.Split(input, " ")
}

// UniqueTags returns every tag across links once, in first-seen order.
func UniqueTags(links []Link) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, l := range links {
		for _, tag := range l.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// ClampTag shortens tag to at most MaxTagLength characters.
func ClampTag(tag string) string {
	if utf8.RuneCountInString(tag) <= MaxTagLength {
		return tag
	}
	return string([]rune(tag)[:MaxTagLength])
}
