package ax

import (
	"errors"
	"testing"

	"github.com/bannerpin/bannerpin/internal/geometry"
)

// fakeElement is a minimal in-memory tree node for search tests.
type fakeElement struct {
	id          string
	role        string
	children    []Element
	childrenErr error
	roleErr     error
	idErr       error
}

func (f *fakeElement) Position() (geometry.Point, error) { return geometry.Point{}, nil }
func (f *fakeElement) Size() (geometry.Size, error)      { return geometry.Size{}, nil }
func (f *fakeElement) SetPosition(geometry.Point) error  { return nil }
func (f *fakeElement) Title() (string, error)            { return "", nil }

func (f *fakeElement) Identifier() (string, error) {
	if f.idErr != nil {
		return "", f.idErr
	}
	return f.id, nil
}

func (f *fakeElement) Role() (string, error) {
	if f.roleErr != nil {
		return "", f.roleErr
	}
	return f.role, nil
}

func (f *fakeElement) Children() ([]Element, error) {
	if f.childrenErr != nil {
		return nil, f.childrenErr
	}
	return f.children, nil
}

func TestFindElement_MatchAtDepthRegardlessOfSiblingOrder(t *testing.T) {
	target := &fakeElement{id: "banner", role: "notification"}
	deep := &fakeElement{role: "group", children: []Element{
		&fakeElement{role: "group", children: []Element{target}},
	}}

	// Target subtree first and last.
	orders := [][]Element{
		{deep, &fakeElement{role: "group"}, &fakeElement{role: "normal"}},
		{&fakeElement{role: "normal"}, &fakeElement{role: "group"}, deep},
	}

	for _, siblings := range orders {
		root := &fakeElement{role: "root", children: siblings}
		found := FindElement(root, RoleIn("notification"))
		if found != Element(target) {
			t.Fatalf("expected target at depth 3, got %v", found)
		}
	}
}

func TestFindElement_PreOrderChecksNodeBeforeChildren(t *testing.T) {
	inner := &fakeElement{id: "inner", role: "notification"}
	outer := &fakeElement{id: "outer", role: "notification", children: []Element{inner}}

	found := FindElement(outer, RoleIn("notification"))
	if found != Element(outer) {
		t.Fatalf("expected outer match to win, got %v", found)
	}
}

func TestFindElement_UnreadableChildrenSkippedNotFatal(t *testing.T) {
	target := &fakeElement{id: "widget-stack", role: "group"}
	root := &fakeElement{role: "root", children: []Element{
		&fakeElement{role: "group", childrenErr: errors.New("window gone")},
		target,
	}}

	found := FindElement(root, IdentifierPrefix("widget-"))
	if found != Element(target) {
		t.Fatalf("expected match after unreadable branch, got %v", found)
	}
}

func TestFindElement_NoMatchReturnsNil(t *testing.T) {
	root := &fakeElement{role: "root", children: []Element{
		&fakeElement{role: "group", childrenErr: errors.New("unreadable")},
		&fakeElement{role: "normal", roleErr: errors.New("unreadable")},
	}}

	if found := FindElement(root, RoleIn("notification")); found != nil {
		t.Fatalf("expected no match, got %v", found)
	}
	if found := FindElement(nil, RoleIn("notification")); found != nil {
		t.Fatalf("expected nil root to yield no match, got %v", found)
	}
}

func TestPredicates_AttributeErrorsYieldFalse(t *testing.T) {
	el := &fakeElement{roleErr: errors.New("gone"), idErr: errors.New("gone")}
	if RoleIn("notification")(el) {
		t.Fatalf("role predicate should be false on read error")
	}
	if IdentifierPrefix("widget-")(el) {
		t.Fatalf("identifier predicate should be false on read error")
	}
}
