// Package prompt provides the template repository and variable substitution
// used to assemble LLM prompts.
package prompt

import (
	"regexp"
	"strings"
)

// placeholder matches both supported delimiter styles: {{name}} and {name}.
// The double-brace alternative is listed first so it wins over the single
// brace reading of the same text.
var placeholder = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}|\{([A-Za-z0-9_]+)\}`)

// Render substitutes vars into text. Both {name} and {{name}} delimiter
// styles are interchangeable so templates from different sources can be used
// unmodified. Placeholders with no matching variable are left verbatim.
func Render(text string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.Trim(match, "{}")
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// ScanVariables returns the distinct placeholder names appearing in text, in
// order of first appearance. Used to derive the declared variable list for
// plain-text template files.
func ScanVariables(text string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}
