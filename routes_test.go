package sfcmap

import (
	"testing"
)

func TestKShortestPathsLine(t *testing.T) {
	ns := mustNetwork(t, lineTopo())
	rt := CreateKSPRouter(ns)

	paths := rt.KShortestPaths(0, 2, 3)
	if len(paths) != 1 {
		t.Fatalf("got %d paths want 1", len(paths))
	}
	if !paths[0].Equal(Path{0, 1, 2}) {
		t.Errorf("got path %v want [0 1 2]", paths[0])
	}

	self := rt.KShortestPaths(1, 1, 3)
	if len(self) != 1 || !self[0].Equal(Path{1}) {
		t.Errorf("got %v for src==dst want [[1]]", self)
	}

	if none := rt.KShortestPaths(0, 2, 0); len(none) != 0 {
		t.Errorf("got %v for k=0 want none", none)
	}
	if none := rt.KShortestPaths(0, 9, 3); len(none) != 0 {
		t.Errorf("got %v for unknown node want none", none)
	}
}

func TestKShortestPathsSquare(t *testing.T) {
	ns := mustNetwork(t, squareTopo())
	rt := CreateKSPRouter(ns)

	paths := rt.KShortestPaths(0, 2, 5)
	if len(paths) != 2 {
		t.Fatalf("got %d paths want 2", len(paths))
	}
	viaB, viaD := false, false
	for _, p := range paths {
		switch {
		case p.Equal(Path{0, 1, 2}):
			viaB = true
		case p.Equal(Path{0, 3, 2}):
			viaD = true
		default:
			t.Errorf("unexpected path %v", p)
		}
	}
	if !viaB || !viaD {
		t.Errorf("got %v want both paths around the square", paths)
	}

	// neighbouring nodes: the direct link first, then the long way round
	adjacent := rt.KShortestPaths(0, 1, 2)
	if len(adjacent) != 2 || !adjacent[0].Equal(Path{0, 1}) || !adjacent[1].Equal(Path{0, 3, 2, 1}) {
		t.Errorf("got %v want [[0 1] [0 3 2 1]]", adjacent)
	}
}

func TestKShortestPathsStable(t *testing.T) {
	ns := mustNetwork(t, squareTopo())
	first := CreateKSPRouter(ns).KShortestPaths(0, 2, 2)
	for trial := 0; trial < 20; trial++ {
		again := CreateKSPRouter(ns).KShortestPaths(0, 2, 2)
		for idx := range first {
			if !first[idx].Equal(again[idx]) {
				t.Fatalf("trial %d: got %v want %v", trial, again, first)
			}
		}
	}
}

func TestConnected(t *testing.T) {
	tc := lineTopo()
	if !CreateKSPRouter(mustNetwork(t, tc)).Connected() {
		t.Errorf("line reported disconnected")
	}

	tc.AddNode("island", 10, 10)
	ns := mustNetwork(t, tc)
	rt := CreateKSPRouter(ns)
	if rt.Connected() {
		t.Errorf("network with an island reported connected")
	}
	island := mustNode(t, ns, "island")
	if paths := rt.KShortestPaths(0, island.ID, 3); len(paths) != 0 {
		t.Errorf("got %v to unreachable node want none", paths)
	}
	if paths := rt.KShortestPaths(island.ID, island.ID, 3); len(paths) != 1 {
		t.Errorf("got %v from island to itself want one single-node path", paths)
	}
}
