package builder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/recera/nodeditor/pkg/vdom"
)

func TestElementBuilder_Build(t *testing.T) {
	got := Div().
		Class("node", "", "selected").
		Data("control-id", "abc").
		Children(Span().Text("A").Build()).
		Build()

	want := vdom.NewElement("div", vdom.Props{
		"class":           "node selected",
		"data-control-id": "abc",
	}, vdom.NewElement("span", nil, vdom.NewText("A")))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestElementBuilder_BooleanAttributes(t *testing.T) {
	on := Input().Disabled(true).ReadOnly(true).Build()
	if on.Props["disabled"] != true || on.Props["readonly"] != true {
		t.Errorf("Expected boolean attributes set, got %v", on.Props)
	}

	off := Input().Disabled(false).ReadOnly(false).Build()
	if off.Props != nil {
		t.Errorf("Expected no props, got %v", off.Props)
	}
}
