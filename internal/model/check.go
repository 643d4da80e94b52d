package model

import (
	"fmt"
	"regexp"
	"strings"
)

// CheckKind is the closed set of behavioral check variants. The kind is decided once,
// when the task is generated, so grading never has to interpret free text.
type CheckKind string

const (
	// CheckKindTitle passes when the page title contains the target text.
	CheckKindTitle CheckKind = "title"
	// CheckKindScript passes when a script or stylesheet whose URL contains the target is included.
	CheckKindScript CheckKind = "script"
	// CheckKindElement passes when an element with the target id exists.
	CheckKindElement CheckKind = "element"
	// CheckKindDelegated is scored by another check family (license, readme) and passes here.
	CheckKindDelegated CheckKind = "delegated"
	// CheckKindGeneric has no automated validation and passes.
	CheckKindGeneric CheckKind = "generic"
)

// Valid returns true if the kind is one of the known kinds.
func (k CheckKind) Valid() bool {
	switch k {
	case CheckKindTitle, CheckKindScript, CheckKindElement, CheckKindDelegated, CheckKindGeneric:
		return true
	}
	return false
}

// Check is a single check description of a task.
type Check struct {
	Text   string
	Kind   CheckKind
	Target string
}

// Validate validates the check.
func (c Check) Validate() error {
	if c.Text == "" {
		return fmt.Errorf("check text is required: %w", ErrNotValid)
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("unknown check kind %q: %w", c.Kind, ErrNotValid)
	}
	switch c.Kind {
	case CheckKindTitle, CheckKindScript, CheckKindElement:
		if c.Target == "" {
			return fmt.Errorf("check %q of kind %s requires a target: %w", c.Text, c.Kind, ErrNotValid)
		}
	}
	return nil
}

var (
	elementIDRegexp  = regexp.MustCompile(`#([A-Za-z][\w-]*)`)
	quotedTextRegexp = regexp.MustCompile(`'([^']+)'`)
	pageScriptAssets = []string{"marked", "highlight"}
)

// ClassifyCheck assigns a kind and target to a free text check. It is used when a
// template does not declare them explicitly. Rules are tried in order: title,
// bootstrap, element id, page scripts, license and readme.
func ClassifyCheck(text string) Check {
	lower := strings.ToLower(text)
	c := Check{Text: text, Kind: CheckKindGeneric}

	switch {
	case strings.Contains(lower, "title"):
		if m := quotedTextRegexp.FindStringSubmatch(text); m != nil {
			c.Kind = CheckKindTitle
			c.Target = m[1]
		}
	case strings.Contains(lower, "bootstrap"):
		c.Kind = CheckKindScript
		c.Target = "bootstrap"
	case elementIDRegexp.MatchString(text):
		c.Kind = CheckKindElement
		c.Target = elementIDRegexp.FindStringSubmatch(text)[1]
	case containsAny(lower, pageScriptAssets):
		c.Kind = CheckKindScript
		for _, asset := range pageScriptAssets {
			if strings.Contains(lower, asset) {
				c.Target = asset
				break
			}
		}
	case strings.Contains(lower, "license"), strings.Contains(lower, "readme"):
		c.Kind = CheckKindDelegated
	}

	return c
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
