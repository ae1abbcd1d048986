package model

import "strings"

// Style rule names shared by the view tree and the stylesheet
const (
	StyleDepositContext = "depositContext"
	StyleNavLink        = "navLink"
)

// Declaration is a single CSS property assignment
type Declaration struct {
	Property string
	Value    string
}

// StyleRule is a named set of declarations
type StyleRule struct {
	Name         string
	Declarations []Declaration
}

// Value returns the value assigned to property in this rule
func (r StyleRule) Value(property string) (string, bool) {
	for _, d := range r.Declarations {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Stylesheet holds style rules in declaration order
type Stylesheet struct {
	rules []StyleRule
}

// NewStylesheet creates a stylesheet from the given rules
func NewStylesheet(rules ...StyleRule) *Stylesheet {
	return &Stylesheet{rules: rules}
}

// DefaultStylesheet returns the panel rules. depositContext is declared but
// not referenced by the current panel layout.
func DefaultStylesheet() *Stylesheet {
	return NewStylesheet(
		StyleRule{
			Name:         StyleDepositContext,
			Declarations: []Declaration{{Property: "flex", Value: "1"}},
		},
		StyleRule{
			Name:         StyleNavLink,
			Declarations: []Declaration{{Property: "text-decoration", Value: "none"}},
		},
	)
}

// Rule looks up a rule by name
func (s *Stylesheet) Rule(name string) (StyleRule, bool) {
	for _, r := range s.rules {
		if r.Name == name {
			return r, true
		}
	}
	return StyleRule{}, false
}

// Rules returns all rules in declaration order
func (s *Stylesheet) Rules() []StyleRule {
	return s.rules
}

// Underlined reports whether a node with the given styles shows a link
// underline. Links are underlined unless a rule removes the decoration.
func (s *Stylesheet) Underlined(styles []string) bool {
	underlined := true
	for _, name := range styles {
		rule, ok := s.Rule(name)
		if !ok {
			continue
		}
		if v, ok := rule.Value("text-decoration"); ok {
			underlined = strings.Contains(v, "underline")
		}
	}
	return underlined
}

// CSS renders the stylesheet with each rule name used as a class selector
func (s *Stylesheet) CSS() string {
	var b strings.Builder
	for _, r := range s.rules {
		b.WriteString(".")
		b.WriteString(r.Name)
		b.WriteString(" {\n")
		for _, d := range r.Declarations {
			b.WriteString("  ")
			b.WriteString(d.Property)
			b.WriteString(": ")
			b.WriteString(d.Value)
			b.WriteString(";\n")
		}
		b.WriteString("}\n")
	}
	return b.String()
}
