package graph

import (
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestBuilderDedupesEdges(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("a", "b")
	b.AddEdge("a", "c")
	if len(b.Edges()) != 2 {
		t.Fatalf("expected 2 deduped edges, got %d", len(b.Edges()))
	}
	if len(b.Nodes()) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(b.Nodes()))
	}
}

func TestBuilderCollapsesReverseEdgeToBidirectional(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("b", "a")
	edges := b.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected reverse edge collapsed into 1, got %d", len(edges))
	}
	if !edges[0].Bidirectional {
		t.Fatal("expected surviving edge marked bidirectional")
	}
	if edges[0].From != 0 || edges[0].To != 1 {
		t.Fatalf("expected original direction preserved, got %+v", edges[0])
	}
}

func TestBuilderEdgeOrderIsInsertionOrder(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("c", "d")
	b.AddEdge("a", "d")
	edges := b.Edges()
	want := []Edge{{From: 0, To: 1}, {From: 2, To: 3}, {From: 0, To: 3}}
	for i, w := range want {
		if edges[i].From != w.From || edges[i].To != w.To {
			t.Fatalf("edge %d = %+v, want %+v", i, edges[i], w)
		}
	}
}

func TestBuilderIgnoresSelfLoops(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "a")
	if len(b.Edges()) != 0 {
		t.Fatalf("expected no self-loop edges, got %d", len(b.Edges()))
	}
}

func TestLayoutSingleNode(t *testing.T) {
	nodes := Layout([]string{"only"}, nil)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].X != 50 || nodes[0].Y != 25 {
		t.Fatalf("expected fixed single-node position, got (%v,%v)", nodes[0].X, nodes[0].Y)
	}
}

func TestLayoutSpreadsNodesApart(t *testing.T) {
	titles := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	edges := []Edge{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}}
	nodes := Layout(titles, edges)
	if len(nodes) != len(titles) {
		t.Fatalf("expected %d nodes, got %d", len(titles), len(nodes))
	}
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			dx := nodes[i].X - nodes[j].X
			dy := nodes[i].Y - nodes[j].Y
			distSq := dx*dx + dy*dy
			if distSq < 1 {
				t.Fatalf("nodes %d and %d ended up effectively overlapping", i, j)
			}
		}
	}
}

func TestLayoutWithOptionsFewerIterationsStillPositions(t *testing.T) {
	titles := []string{"a", "b", "c"}
	edges := []Edge{{From: 0, To: 1}}
	nodes := LayoutWithOptions(titles, edges, Options{AspectRatio: 1.5, Iterations: 10})
	if len(nodes) != len(titles) {
		t.Fatalf("expected %d nodes, got %d", len(titles), len(nodes))
	}
}

func TestLayoutZeroOptionsFallBackToDefaults(t *testing.T) {
	titles := []string{"a", "b", "c"}
	nodes := LayoutWithOptions(titles, nil, Options{})
	if len(nodes) != len(titles) {
		t.Fatalf("expected %d nodes, got %d", len(titles), len(nodes))
	}
}

func TestLayoutEmpty(t *testing.T) {
	nodes := Layout(nil, nil)
	if len(nodes) != 0 {
		t.Fatalf("expected 0 nodes, got %d", len(nodes))
	}
}

// TestLayoutVarianceIsNonDegenerate checks the cooling/repulsion
// schedule didn't collapse every node onto the same point: a real
// spread has non-zero variance in both axes.
func TestLayoutVarianceIsNonDegenerate(t *testing.T) {
	titles := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	nodes := Layout(titles, []Edge{{From: 0, To: 1}, {From: 2, To: 3}, {From: 4, To: 5}})

	xs := make([]float64, len(nodes))
	ys := make([]float64, len(nodes))
	for i, n := range nodes {
		xs[i] = n.X
		ys[i] = n.Y
	}
	if varX := stat.Variance(xs, nil); varX < 1 {
		t.Fatalf("expected non-degenerate X spread, variance=%v", varX)
	}
	if varY := stat.Variance(ys, nil); varY < 1 {
		t.Fatalf("expected non-degenerate Y spread, variance=%v", varY)
	}
}
