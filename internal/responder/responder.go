package responder

import (
	"fmt"
	"strings"
)

// Responder produces the assistant's reply for a submitted message.
// Implementations must be pure: no side effects, same input same output.
type Responder interface {
	Reply(input string) string
}

// Rule pairs a predicate over the normalized input with a canned template.
type Rule struct {
	Name     string
	Match    func(normalized string) bool
	Template string
}

// Canned evaluates an ordered rule list, first match wins, with a fallback
// template that interpolates the submitted text.
type Canned struct {
	rules    []Rule
	fallback string
}

// NewCanned returns the default assistant rule table.
func NewCanned() *Canned {
	return &Canned{rules: defaultRules(), fallback: fallbackTemplate}
}

// NewCannedWithRules builds a responder from a custom ordered rule list.
func NewCannedWithRules(rules []Rule, fallback string) *Canned {
	return &Canned{rules: append([]Rule(nil), rules...), fallback: fallback}
}

// Reply implements Responder.
func (c *Canned) Reply(input string) string {
	trimmed := strings.TrimSpace(input)
	normalized := strings.ToLower(trimmed)
	for _, rule := range c.rules {
		if rule.Match(normalized) {
			return rule.Template
		}
	}
	return fmt.Sprintf(c.fallback, trimmed)
}

// ContainsAny reports whether the input contains any of the given substrings.
func ContainsAny(words ...string) func(string) bool {
	return func(normalized string) bool {
		for _, word := range words {
			if strings.Contains(normalized, word) {
				return true
			}
		}
		return false
	}
}

// HasAnyWord matches on whole words only. Used for short greetings where
// substring matching would fire on words like "which" or "this".
func HasAnyWord(words ...string) func(string) bool {
	return func(normalized string) bool {
		for _, field := range strings.FieldsFunc(normalized, isWordBoundary) {
			for _, word := range words {
				if field == word {
					return true
				}
			}
		}
		return false
	}
}

func isWordBoundary(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
}
