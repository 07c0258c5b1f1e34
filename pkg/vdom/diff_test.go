package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDiff_TextNodes(t *testing.T) {
	tests := []struct {
		name     string
		prev     *VNode
		next     *VNode
		expected []Patch
	}{
		{
			name: "text content change",
			prev: NewText("Hello"),
			next: NewText("World"),
			expected: []Patch{
				{Op: OpReplaceText, Value: "World"},
			},
		},
		{
			name: "text content unchanged",
			prev: NewText("Same"),
			next: NewText("Same"),
		},
		{
			name: "text to element",
			prev: NewText("Text"),
			next: NewElement("div", nil),
			expected: []Patch{
				{Op: OpReplaceNode, Node: NewElement("div", nil)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patches := Diff(tt.prev, tt.next)
			if diff := cmp.Diff(tt.expected, patches, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiff_ElementNodes(t *testing.T) {
	tests := []struct {
		name     string
		prev     *VNode
		next     *VNode
		expected []Patch
	}{
		{
			name: "different tags",
			prev: NewElement("div", nil),
			next: NewElement("span", nil),
			expected: []Patch{
				{Op: OpReplaceNode, Node: NewElement("span", nil)},
			},
		},
		{
			name: "add attribute",
			prev: NewElement("div", nil),
			next: NewElement("div", Props{"class": "active"}),
			expected: []Patch{
				{Op: OpSetAttribute, Key: "class", Value: "active"},
			},
		},
		{
			name: "remove attribute",
			prev: NewElement("div", Props{"class": "active"}),
			next: NewElement("div", nil),
			expected: []Patch{
				{Op: OpRemoveAttribute, Key: "class"},
			},
		},
		{
			name: "numeric attribute unchanged",
			prev: NewElement("input", Props{"value": 42.0}),
			next: NewElement("input", Props{"value": "42"}),
		},
		{
			name: "multiple attribute changes",
			prev: NewElement("div", Props{"class": "old", "id": "test"}),
			next: NewElement("div", Props{"class": "new", "data-attr": "value"}),
			expected: []Patch{
				{Op: OpRemoveAttribute, Key: "id"},
				{Op: OpSetAttribute, Key: "class", Value: "new"},
				{Op: OpSetAttribute, Key: "data-attr", Value: "value"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patches := Diff(tt.prev, tt.next)
			if diff := cmp.Diff(tt.expected, patches, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiff_Children(t *testing.T) {
	list := func(items ...string) *VNode {
		kids := make([]*VNode, len(items))
		for i, s := range items {
			kids[i] = NewElement("li", nil, NewText(s))
		}
		return NewElement("ul", nil, kids...)
	}

	t.Run("nested text change uses path", func(t *testing.T) {
		patches := Diff(list("a", "b"), list("a", "c"))
		want := []Patch{{Op: OpReplaceText, Path: []int{1, 0}, Value: "c"}}
		if diff := cmp.Diff(want, patches); diff != "" {
			t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("trailing removals run backwards", func(t *testing.T) {
		patches := Diff(list("a", "b", "c"), list("a"))
		want := []Patch{
			{Op: OpRemoveNode, Path: []int{2}},
			{Op: OpRemoveNode, Path: []int{1}},
		}
		if diff := cmp.Diff(want, patches); diff != "" {
			t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("appended children are inserted", func(t *testing.T) {
		next := list("a", "b")
		patches := Diff(list("a"), next)
		want := []Patch{{Op: OpInsertNode, Path: []int{1}, Node: &next.Kids[1]}}
		if diff := cmp.Diff(want, patches); diff != "" {
			t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDiff_NilPrevReplacesRoot(t *testing.T) {
	next := NewElement("div", nil)
	patches := Diff(nil, next)
	if len(patches) != 1 || patches[0].Op != OpReplaceNode || patches[0].Node != next {
		t.Errorf("Expected a single root replacement, got %v", patches)
	}
}

func TestPatch_String(t *testing.T) {
	p := Patch{Op: OpSetAttribute, Path: []int{0, 2}, Key: "style", Value: "width:50%"}
	want := `SetAttribute(/0/2, key="style", value="width:50%")`
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestVNode_FindAndText(t *testing.T) {
	tree := NewElement("div", nil,
		NewElement("span", Props{"class": "title"}, NewText("A")),
		NewElement("button", nil, NewText("Go")),
	)

	btn := tree.Find(func(n *VNode) bool { return n.Tag == "button" })
	if btn == nil {
		t.Fatal("Expected to find button")
	}
	if got := btn.TextContent(); got != "Go" {
		t.Errorf("Expected text Go, got %q", got)
	}
	if got := tree.TextContent(); got != "AGo" {
		t.Errorf("Expected text AGo, got %q", got)
	}
	if got := tree.Kids[0].Attr("class"); got != "title" {
		t.Errorf("Expected class title, got %q", got)
	}
}
