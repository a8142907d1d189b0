package app

import (
	"context"
	"encoding/json"
	"testing"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/selection"
)

func TestNodesCarryStates(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)
	c, err := svc.Select(ctx, SelectionRequest{Select: []string{"5.1"}})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	nodes := Nodes(c, clause.LangEN)
	if len(nodes) != 2 {
		t.Fatalf("expected two roots, got %d", len(nodes))
	}
	five := nodes[0]
	if five.State != selection.True || five.Depth != 1 || five.Leaf() {
		t.Fatalf("unexpected 5: %+v", five)
	}
	if !five.Children[1].Informative || five.Children[1].State != selection.True {
		t.Fatalf("informative leaf should mirror its parent: %+v", five.Children[1])
	}

	data, err := json.Marshal(nodes[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["state"] != "false" {
		t.Fatalf("state should marshal as aria text, got %v", decoded["state"])
	}
}
