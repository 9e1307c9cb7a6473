package ax

import "strings"

// Predicate decides whether an element is a search match. Attribute-read
// failures inside a predicate must yield false, not an error.
type Predicate func(Element) bool

// RoleIn matches elements whose role is one of the given values.
func RoleIn(roles ...string) Predicate {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return func(el Element) bool {
		role, err := el.Role()
		if err != nil {
			return false
		}
		_, ok := set[role]
		return ok
	}
}

// IdentifierPrefix matches elements whose identifier starts with prefix.
func IdentifierPrefix(prefix string) Predicate {
	return func(el Element) bool {
		id, err := el.Identifier()
		if err != nil {
			return false
		}
		return strings.HasPrefix(id, prefix)
	}
}

// FindElement walks the tree rooted at root depth-first, pre-order, and
// returns the first element matching pred. A node whose children cannot be
// read is treated as a leaf; the search continues with its siblings. Returns
// nil when nothing matches.
func FindElement(root Element, pred Predicate) Element {
	if root == nil {
		return nil
	}
	if pred(root) {
		return root
	}
	children, err := root.Children()
	if err != nil {
		return nil
	}
	for _, child := range children {
		if found := FindElement(child, pred); found != nil {
			return found
		}
	}
	return nil
}
