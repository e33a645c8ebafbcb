package schema

import (
	"fmt"
	"regexp"
)

const (
	IssueEmptyComponents = "empty-components"
	IssueDuplicateID     = "duplicate-id"
	IssueMissingID       = "missing-id"
	IssueOutOfRange      = "out-of-range"
	IssueInvalidColor    = "invalid-color"
)

// Issue is a non-fatal finding about a document. Callers decide whether an
// issue blocks saving.
type Issue struct {
	Code        string `json:"code"`
	ComponentID string `json:"component_id,omitempty"`
	Field       string `json:"field,omitempty"`
	Message     string `json:"message"`
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Validate reports every issue found in doc. It never fails; an empty
// result means the document is clean.
func Validate(doc TemplateDocument) []Issue {
	issues := []Issue{}

	if len(doc.Components) == 0 {
		issues = append(issues, Issue{Code: IssueEmptyComponents, Message: "template has no components"})
	}

	for _, slot := range []string{SlotPrimary, SlotSecondary, SlotSuccess, SlotBackground} {
		c, _ := doc.Layout.Colors.Slot(slot)
		if !IsHexColor(c) {
			issues = append(issues, Issue{
				Code:    IssueInvalidColor,
				Field:   slot,
				Message: fmt.Sprintf("color %s is not a hex color: %q", slot, c),
			})
		}
	}

	seen := make(map[string]bool, len(doc.Components))
	for i, c := range doc.Components {
		if c.ID == "" {
			issues = append(issues, Issue{
				Code:    IssueMissingID,
				Message: fmt.Sprintf("component %d (%s) has no id", i, c.Type),
			})
		} else if seen[c.ID] {
			issues = append(issues, Issue{
				Code:        IssueDuplicateID,
				ComponentID: c.ID,
				Message:     fmt.Sprintf("id %q is used by more than one component", c.ID),
			})
		}
		seen[c.ID] = true

		fields := []struct {
			name string
			v    float64
		}{
			{FieldX, c.Position.X},
			{FieldY, c.Position.Y},
			{FieldWidth, c.Size.Width},
			{FieldHeight, c.Size.Height},
		}
		for _, f := range fields {
			if f.v < 0 || f.v > 100 {
				issues = append(issues, Issue{
					Code:        IssueOutOfRange,
					ComponentID: c.ID,
					Field:       f.name,
					Message:     fmt.Sprintf("%s = %g is outside [0,100]", f.name, f.v),
				})
			}
		}
	}
	return issues
}
