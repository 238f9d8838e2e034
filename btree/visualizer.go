package btree

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	internalKey = color.New(color.FgCyan, color.Bold).SprintFunc()
	leafKey     = color.New(color.FgGreen).SprintFunc()
)

// Visualizer renders a tree one level per line, nodes in brackets.
// Separator keys of internal nodes and keys of leaves are coloured
// differently unless color.NoColor is set.
type Visualizer[K, V any] struct {
	Tree *Tree[K, V]
	// Format renders a key, fmt.Sprint when nil.
	Format func(K) string
}

func (v *Visualizer[K, V]) format(key K) string {
	if v.Format != nil {
		return v.Format(key)
	}
	return fmt.Sprint(key)
}

// Visualize returns the rendering, e.g. for a degree 2 tree holding
// 5, 6, 10 and 20:
//
//	L0: [10]
//	L1: [5 6] [10 20]
func (v *Visualizer[K, V]) Visualize() string {
	var sb strings.Builder
	for depth, level := range v.Tree.levels() {
		fmt.Fprintf(&sb, "L%d:", depth)
		for _, n := range level {
			paint := internalKey
			if n.leaf {
				paint = leafKey
			}
			keys := make([]string, len(n.keys))
			for i, k := range n.keys {
				keys[i] = paint(v.format(k))
			}
			fmt.Fprintf(&sb, " [%s]", strings.Join(keys, " "))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// levels returns the nodes of the tree grouped by depth, left to right.
func (t *Tree[K, V]) levels() [][]*node[K, V] {
	var out [][]*node[K, V]
	for level := []*node[K, V]{t.root}; len(level) > 0; {
		out = append(out, level)
		var next []*node[K, V]
		for _, n := range level {
			next = append(next, n.children...)
		}
		level = next
	}
	return out
}

// Nodes returns the number of nodes in the tree.
func (t *Tree[K, V]) Nodes() int {
	count := 0
	for _, level := range t.levels() {
		count += len(level)
	}
	return count
}
