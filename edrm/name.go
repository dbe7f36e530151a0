package edrm

import "strings"

// maxNameLength caps effective names so staged paths stay within file-system
// component limits.
const maxNameLength = 128

// SanitizeName converts a raw display name into a name safe to use as a path
// segment. Characters illegal in path segments are replaced with underscores,
// leading and trailing dots and spaces are trimmed, and the result is capped
// at maxNameLength runes. Sanitation never fails: if nothing usable remains,
// fallback (normally the entry id) is returned.
func SanitizeName(raw, fallback string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r < 0x20, r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	name := strings.Trim(b.String(), ". ")
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
		name = strings.Trim(name, ". ")
	}
	if name == "" {
		return fallback
	}
	return name
}

// sanitizeXMLContent strips characters that are not valid in XML 1.0 text
// content. Markup characters are left alone; the serializer escapes those.
func sanitizeXMLContent(s string) string {
	clean := true
	for _, r := range s {
		if !validXMLChar(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if validXMLChar(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
