package vdom

import (
	"fmt"
	"strings"
)

// PatchOp represents the type of patch operation
type PatchOp uint8

const (
	// OpReplaceText replaces text node content
	OpReplaceText PatchOp = 0x01
	// OpSetAttribute sets or replaces an attribute
	OpSetAttribute PatchOp = 0x02
	// OpRemoveNode removes a node
	OpRemoveNode PatchOp = 0x03
	// OpInsertNode inserts a new node at the index given by the last path element
	OpInsertNode PatchOp = 0x04
	// OpRemoveAttribute removes an attribute
	OpRemoveAttribute PatchOp = 0x06
	// OpReplaceNode swaps a node for a freshly rendered one
	OpReplaceNode PatchOp = 0x08
)

// Patch is a single mutation addressed by a child-index path from the root
// of the tree that was diffed. An empty path addresses the root.
type Patch struct {
	Op    PatchOp
	Path  []int
	Key   string // attribute key for set/remove attribute
	Value string // text content or attribute value
	Node  *VNode // for insert/replace
}

// String returns a human-readable representation of the patch
func (p Patch) String() string {
	path := pathString(p.Path)
	switch p.Op {
	case OpReplaceText:
		return fmt.Sprintf("ReplaceText(%s, text=%q)", path, p.Value)
	case OpSetAttribute:
		return fmt.Sprintf("SetAttribute(%s, key=%q, value=%q)", path, p.Key, p.Value)
	case OpRemoveAttribute:
		return fmt.Sprintf("RemoveAttribute(%s, key=%q)", path, p.Key)
	case OpRemoveNode:
		return fmt.Sprintf("RemoveNode(%s)", path)
	case OpInsertNode:
		return fmt.Sprintf("InsertNode(%s)", path)
	case OpReplaceNode:
		return fmt.Sprintf("ReplaceNode(%s)", path)
	default:
		return fmt.Sprintf("Unknown(op=%d)", p.Op)
	}
}

func pathString(path []int) string {
	if len(path) == 0 {
		return "/"
	}
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = fmt.Sprint(idx)
	}
	return "/" + strings.Join(parts, "/")
}

// Diff computes the patches needed to transform prev into next.
// A nil prev yields a single root replacement.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diffNode(&patches, nil, prev, next)
	return patches
}

// childPath copies path so patches never share backing arrays
func childPath(path []int, idx int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = idx
	return out
}

func diffNode(patches *[]Patch, path []int, prev, next *VNode) {
	switch {
	case prev == nil && next == nil:
		return
	case prev == nil:
		*patches = append(*patches, Patch{Op: OpReplaceNode, Path: path, Node: next})
		return
	case next == nil:
		*patches = append(*patches, Patch{Op: OpRemoveNode, Path: path})
		return
	}

	if prev.Kind != next.Kind || prev.Tag != next.Tag {
		*patches = append(*patches, Patch{Op: OpReplaceNode, Path: path, Node: next})
		return
	}

	if prev.Kind == KindText {
		if prev.Text != next.Text {
			*patches = append(*patches, Patch{Op: OpReplaceText, Path: path, Value: next.Text})
		}
		return
	}

	diffProps(patches, path, prev.Props, next.Props)
	diffChildren(patches, path, prev.Kids, next.Kids)
}

// diffProps emits attribute changes in key order so output is stable
func diffProps(patches *[]Patch, path []int, prev, next Props) {
	for _, key := range prev.SortedKeys() {
		if _, ok := next[key]; !ok {
			*patches = append(*patches, Patch{Op: OpRemoveAttribute, Path: path, Key: key})
		}
	}
	for _, key := range next.SortedKeys() {
		nextVal := PropString(next[key])
		if prevVal, ok := prev[key]; ok && PropString(prevVal) == nextVal {
			continue
		}
		*patches = append(*patches, Patch{Op: OpSetAttribute, Path: path, Key: key, Value: nextVal})
	}
}

// diffChildren matches children by index. Extra old children are removed
// from the end backwards so earlier indexes stay valid while applying.
func diffChildren(patches *[]Patch, path []int, prev, next []VNode) {
	common := min(len(prev), len(next))

	for i := 0; i < common; i++ {
		diffNode(patches, childPath(path, i), &prev[i], &next[i])
	}

	for i := len(prev) - 1; i >= common; i-- {
		*patches = append(*patches, Patch{Op: OpRemoveNode, Path: childPath(path, i)})
	}

	for i := common; i < len(next); i++ {
		*patches = append(*patches, Patch{Op: OpInsertNode, Path: childPath(path, i), Node: &next[i]})
	}
}
