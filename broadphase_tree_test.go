package kinetic2d

import "testing"

// checkEnclosure walks every internal node and asserts its AABB encloses
// both children's AABBs, the tree-enclosure invariant.
func checkEnclosure(t *testing.T, tree *DynamicTree, id int) {
	if id == nullNode {
		return
	}
	node := &tree.nodes[id]
	if node.isLeaf() {
		return
	}
	c1 := tree.nodes[node.child1].aabb
	c2 := tree.nodes[node.child2].aabb
	if !node.aabb.Contains(c1) {
		t.Errorf("node %d does not enclose child1 aabb %v", id, c1)
	}
	if !node.aabb.Contains(c2) {
		t.Errorf("node %d does not enclose child2 aabb %v", id, c2)
	}
	checkEnclosure(t, tree, node.child1)
	checkEnclosure(t, tree, node.child2)
}

func TestDynamicTreeEnclosure(t *testing.T) {
	tree := NewDynamicTree()
	for i := 0; i < 30; i++ {
		x := float64(i % 6)
		y := float64(i / 6)
		aabb := AABB{Lower: Vec2{x, y}, Upper: Vec2{x + 1, y + 1}}
		tree.CreateProxy(aabb, i)
	}
	checkEnclosure(t, tree, tree.root)
}

func TestDynamicTreeQueryCompleteness(t *testing.T) {
	tree := NewDynamicTree()
	ids := make(map[int]AABB)
	for i := 0; i < 20; i++ {
		x := float64(i)
		aabb := AABB{Lower: Vec2{x, 0}, Upper: Vec2{x + 0.5, 0.5}}
		id := tree.CreateProxy(aabb, i)
		ids[id] = tree.GetFatAABB(id)
	}

	query := AABB{Lower: Vec2{5, -1}, Upper: Vec2{10, 1}}

	expected := make(map[int]bool)
	for id, fat := range ids {
		if Overlap(fat, query) {
			expected[id] = true
		}
	}

	got := make(map[int]bool)
	tree.Query(query, func(id int) bool {
		got[id] = true
		return true
	})

	if len(got) != len(expected) {
		t.Fatalf("Query returned %d leaves, want %d", len(got), len(expected))
	}
	for id := range expected {
		if !got[id] {
			t.Errorf("Query missed leaf %d whose fat AABB overlaps the query", id)
		}
	}
}

func TestDynamicTreeMoveProxyAvoidsReinsertWithinFatAABB(t *testing.T) {
	tree := NewDynamicTree()
	aabb := AABB{Lower: Vec2{0, 0}, Upper: Vec2{1, 1}}
	id := tree.CreateProxy(aabb, nil)

	moved := tree.MoveProxy(id, AABB{Lower: Vec2{0.01, 0.01}, Upper: Vec2{1.01, 1.01}}, Vec2{0.01, 0.01})
	if moved {
		t.Error("a tiny displacement within the fattened AABB should not force reinsertion")
	}
}

func TestDynamicTreeDestroyProxyRemovesLeaf(t *testing.T) {
	tree := NewDynamicTree()
	a := tree.CreateProxy(AABB{Lower: Vec2{0, 0}, Upper: Vec2{1, 1}}, "a")
	b := tree.CreateProxy(AABB{Lower: Vec2{10, 10}, Upper: Vec2{11, 11}}, "b")
	tree.DestroyProxy(a)

	seen := make(map[int]bool)
	tree.Query(AABB{Lower: Vec2{-100, -100}, Upper: Vec2{100, 100}}, func(id int) bool {
		seen[id] = true
		return true
	})
	if seen[a] {
		t.Error("destroyed proxy still reachable via Query")
	}
	if !seen[b] {
		t.Error("surviving proxy should still be reachable via Query")
	}
}

func TestDynamicTreeRebuildPreservesLeafCount(t *testing.T) {
	tree := NewDynamicTree()
	n := 15
	for i := 0; i < n; i++ {
		x := float64(i)
		tree.CreateProxy(AABB{Lower: Vec2{x, 0}, Upper: Vec2{x + 1, 1}}, i)
	}
	tree.Rebuild()
	checkEnclosure(t, tree, tree.root)

	count := 0
	tree.Query(AABB{Lower: Vec2{-100, -100}, Upper: Vec2{100, 100}}, func(id int) bool {
		count++
		return true
	})
	if count != n {
		t.Errorf("after Rebuild, Query found %d leaves, want %d", count, n)
	}
}
