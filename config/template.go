package config

import (
	"fmt"
	"regexp"
	"strconv"
)

// placeholder matches {node} and zero-padded {node:02d}.
var placeholder = regexp.MustCompile(`\{node(?::0(\d+)d)?\}`)

// anyBrace catches placeholders that are not understood, e.g. {core}.
var anyBrace = regexp.MustCompile(`\{[^}]*\}`)

// CheckTemplate verifies that a file template holds exactly one node
// placeholder and nothing else in braces.
func CheckTemplate(tmpl string) error {
	if tmpl == "" {
		return fmt.Errorf("%w: empty file template", ErrInvalidConfig)
	}

	n := len(placeholder.FindAllString(tmpl, -1))
	if n != 1 {
		return fmt.Errorf("%w: template %q has %d {node} placeholders, want 1",
			ErrInvalidConfig, tmpl, n)
	}

	if len(anyBrace.FindAllString(tmpl, -1)) != n {
		return fmt.Errorf("%w: template %q has unknown placeholders",
			ErrInvalidConfig, tmpl)
	}

	return nil
}

// ExpandTemplate substitutes the node id into a template.
func ExpandTemplate(tmpl string, node int) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		if sub[1] == "" {
			return strconv.Itoa(node)
		}

		width, _ := strconv.Atoi(sub[1])

		return fmt.Sprintf("%0*d", width, node)
	})
}

// RewritePlaceholder replaces the node placeholder with another name while
// keeping its format, e.g. {node:02d} becomes {core:02d}.
func RewritePlaceholder(tmpl, name string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		if sub[1] == "" {
			return "{" + name + "}"
		}

		return "{" + name + ":0" + sub[1] + "d}"
	})
}
