package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/recera/nodeditor/pkg/controls"
)

func TestNode_AddControl(t *testing.T) {
	node := NewNode("A")
	progress := controls.NewProgressControl(0)
	button := controls.NewButtonControl("Randomize", nil)

	if err := node.AddControl("progress", progress); err != nil {
		t.Fatalf("AddControl failed: %v", err)
	}
	if err := node.AddControl("button", button); err != nil {
		t.Fatalf("AddControl failed: %v", err)
	}

	if got, ok := node.Control("progress"); !ok || got != progress {
		t.Errorf("Expected to find progress control, got %v", got)
	}
	if got, ok := node.ControlByID(button.ID()); !ok || got != button {
		t.Errorf("Expected to find button by id, got %v", got)
	}
	if _, ok := node.Control("missing"); ok {
		t.Error("Expected missing control lookup to fail")
	}

	if diff := cmp.Diff([]string{"progress", "button"}, node.ControlKeys()); diff != "" {
		t.Errorf("Control keys mismatch (-want +got):\n%s", diff)
	}
}

func TestNode_DuplicateKeys(t *testing.T) {
	node := NewNode("A")
	socket := NewSocket("socket")

	if err := node.AddOutput("a", socket, ""); err != nil {
		t.Fatalf("AddOutput failed: %v", err)
	}
	if err := node.AddOutput("a", socket, ""); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Different port kinds have separate key spaces
	if err := node.AddInput("a", socket, ""); err != nil {
		t.Errorf("Expected input 'a' to be allowed, got %v", err)
	}

	if err := node.AddControl("x", controls.NewProgressControl(0)); err != nil {
		t.Fatalf("AddControl failed: %v", err)
	}
	if err := node.AddControl("x", controls.NewProgressControl(0)); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestNodeEditor_SignalsInOrder(t *testing.T) {
	ed := New(nil)

	var seen []string
	record := func(name string) Plugin {
		return PluginFunc(func(_ context.Context, sig Signal) error {
			seen = append(seen, name+":"+sig.Type.String())
			return nil
		})
	}
	ed.Use(record("area"))
	ed.Use(record("render"))

	ctx := context.Background()
	node := NewNode("A")
	if err := ed.AddNode(ctx, node); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := ed.RemoveNode(ctx, node.ID); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	if err := ed.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	want := []string{
		"area:nodecreate", "render:nodecreate",
		"area:nodecreated", "render:nodecreated",
		"area:noderemoved", "render:noderemoved",
		"area:cleared", "render:cleared",
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("Signal order mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeEditor_VetoAdd(t *testing.T) {
	ed := New(nil)
	veto := errors.New("not today")
	ed.Use(PluginFunc(func(_ context.Context, sig Signal) error {
		if sig.Type == NodeCreate {
			return veto
		}
		return nil
	}))

	err := ed.AddNode(context.Background(), NewNode("A"))
	if !errors.Is(err, veto) {
		t.Errorf("Expected veto error, got %v", err)
	}
	if len(ed.GetNodes()) != 0 {
		t.Errorf("Expected no nodes after veto, got %d", len(ed.GetNodes()))
	}
}

func TestNodeEditor_Errors(t *testing.T) {
	ed := New(nil)
	ctx := context.Background()
	node := NewNode("A")

	if err := ed.AddNode(ctx, node); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := ed.AddNode(ctx, node); !errors.Is(err, ErrNodeExists) {
		t.Errorf("Expected ErrNodeExists, got %v", err)
	}
	if err := ed.RemoveNode(ctx, "nope"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Expected ErrNodeNotFound, got %v", err)
	}

	got, ok := ed.GetNode(node.ID)
	if !ok || got != node {
		t.Errorf("Expected GetNode to return the added node")
	}
}
