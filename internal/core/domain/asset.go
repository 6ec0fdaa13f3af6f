package domain

import "strings"

// AssetName is the declared name of an image asset, taken from its
// container directory with the container suffix stripped (e.g. "Home_Icon").
type AssetName string

// Identifier is the lowerCamelCase form of an AssetName as referenced
// from source code (e.g. "homeIcon").
type Identifier string

// Pattern returns the member-access reference searched for in project files.
func (id Identifier) Pattern() string {
	return "." + string(id)
}

// ExtensionFilter lists lowercase file extensions without the leading dot.
// An empty filter matches every file.
type ExtensionFilter []string

// ParseExtensions builds a filter from a comma separated list such as "swift,m".
// Surrounding spaces and a leading dot are removed, values are lowercased and
// empty items are dropped.
func ParseExtensions(s string) ExtensionFilter {
	var filter ExtensionFilter
	for _, part := range strings.Split(s, ",") {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if ext == "" {
			continue
		}
		filter = append(filter, ext)
	}
	return filter
}

// Matches reports whether a file with the given extension passes the filter.
// ext is compared case-insensitively and may carry a leading dot.
func (f ExtensionFilter) Matches(ext string) bool {
	if len(f) == 0 {
		return true
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range f {
		if allowed == ext {
			return true
		}
	}
	return false
}

// String renders the filter the way users type it.
func (f ExtensionFilter) String() string {
	return strings.Join(f, ",")
}
