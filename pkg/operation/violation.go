package operation

import "strings"

// Constraint is one named rule a field value violated.
type Constraint struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ValidationError describes why one property of an operation failed validation.
// Compound fields report nested failures through Children.
type ValidationError struct {
	Property    string             `json:"property"`
	Value       any                `json:"value,omitempty"`
	Constraints []Constraint       `json:"constraints,omitempty"`
	Children    []*ValidationError `json:"children,omitempty"`
}

// Error renders the violation rooted at its own property.
func (e *ValidationError) Error() string {
	return e.Render("")
}

// Render formats the violation with its path qualified by parent.
//
// The first line is `Validation of "<path>" failed!`, followed by one indented
// line per constraint and then each child rendered with this path as parent.
// A violation without constraints or children still renders its header line.
func (e *ValidationError) Render(parent string) string {
	path := e.Property
	if parent != "" {
		path = parent + "." + e.Property
	}

	var sb strings.Builder
	sb.WriteString(`Validation of "`)
	sb.WriteString(path)
	sb.WriteString(`" failed!`)

	for _, c := range e.Constraints {
		sb.WriteString("\n  \"")
		sb.WriteString(c.Name)
		sb.WriteString("\": ")
		sb.WriteString(c.Message)
		sb.WriteString(".")
	}

	for _, child := range e.Children {
		if child == nil {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(child.Render(path))
	}

	return sb.String()
}

// ValidationErrors bundles every violation found for one operation instance.
// It is a multi-cause error: Unwrap exposes each violation in order.
type ValidationErrors []*ValidationError

// Error joins the rendering of every violation with newlines.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		if e == nil {
			continue
		}
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// Unwrap returns the violations as individual errors.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, e := range v {
		if e == nil {
			continue
		}
		errs = append(errs, e)
	}
	return errs
}

// mergeViolations folds src into dst so that each property has one node
// carrying every constraint reported for it. Children merge recursively.
func mergeViolations(dst, src []*ValidationError) []*ValidationError {
	for _, v := range src {
		if v == nil {
			continue
		}
		node := findOrAppend(&dst, v.Property)
		if node.Value == nil {
			node.Value = v.Value
		}
		node.Constraints = append(node.Constraints, v.Constraints...)
		node.Children = mergeViolations(node.Children, v.Children)
	}
	return dst
}
