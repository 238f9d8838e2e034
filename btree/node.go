package btree

import "github.com/cockroachdb/errors"

// node is either a leaf, holding keys paired with values, or an internal
// node whose children partition the key space around its keys.
//
// Slices are allocated one slot larger than the node capacity so that the
// transient overflow right before a split never reallocates.
type node[K, V any] struct {
	leaf     bool
	keys     []K
	values   []V           // leaves only
	children []*node[K, V] // internal nodes only, len(keys)+1 of them
}

func newLeaf[K, V any](degree int) *node[K, V] {
	return &node[K, V]{
		leaf:   true,
		keys:   make([]K, 0, 2*degree),
		values: make([]V, 0, 2*degree),
	}
}

func newInternal[K, V any](degree int) *node[K, V] {
	return &node[K, V]{
		keys:     make([]K, 0, 2*degree),
		children: make([]*node[K, V], 0, 2*degree+1),
	}
}

// search returns the position of key in n, or where it would be inserted.
func (n *node[K, V]) search(key K, cmp func(a, b K) int) (int, bool) {
	low, high := 0, len(n.keys)
	for low < high {
		mid := int(uint(low+high) >> 1)
		c := cmp(key, n.keys[mid])
		switch {
		case c > 0:
			low = mid + 1
		case c < 0:
			high = mid
		default:
			return mid, true
		}
	}
	return low, false
}

// childIndex picks the smallest i with key < keys[i], or the last child when
// key is greater than or equal to every key of n.
func (n *node[K, V]) childIndex(key K, cmp func(a, b K) int) int {
	pos, found := n.search(key, cmp)
	if found {
		return pos + 1
	}
	return pos
}

func (n *node[K, V]) child(i int) *node[K, V] {
	if i < 0 || i >= len(n.children) || n.children[i] == nil {
		panic(errors.AssertionFailedf(
			"btree: descending into absent child %d of node with %d keys and %d children",
			i, len(n.keys), len(n.children)))
	}
	return n.children[i]
}

// helper method to insert a key/value pair at an arbitrary position of a leaf
func (n *node[K, V]) insertItemAt(pos int, key K, val V) {
	n.keys = append(n.keys, key)
	copy(n.keys[pos+1:], n.keys[pos:len(n.keys)-1])
	n.keys[pos] = key

	n.values = append(n.values, val)
	copy(n.values[pos+1:], n.values[pos:len(n.values)-1])
	n.values[pos] = val
}

// helper method to insert a separator key at an arbitrary position of an internal node
func (n *node[K, V]) insertKeyAt(pos int, key K) {
	n.keys = append(n.keys, key)
	copy(n.keys[pos+1:], n.keys[pos:len(n.keys)-1])
	n.keys[pos] = key
}

// helper method to insert child pointer at an arbitrary position of an internal node
func (n *node[K, V]) insertChildAt(pos int, child *node[K, V]) {
	n.children = append(n.children, child)
	copy(n.children[pos+1:], n.children[pos:len(n.children)-1])
	n.children[pos] = child
}

/*
split is called on a node that overflowed to 2*degree keys. n keeps the
lower half and a new right sibling takes the upper half. The returned key
must be inserted into the parent right before the sibling.

A leaf keeps keys [0, degree) and the sibling takes [degree, 2*degree); the
first key of the sibling is promoted and stays in the sibling, since values
only live in leaves.

An internal node keeps keys [0, degree) with children [0, degree], the key at
degree moves up to the parent, and the sibling takes the remaining keys with
children [degree+1, 2*degree].
*/
func (n *node[K, V]) split(degree int) (K, *node[K, V]) {
	if len(n.keys) != 2*degree {
		panic(errors.AssertionFailedf("btree: splitting node with %d keys, want %d", len(n.keys), 2*degree))
	}

	if n.leaf {
		right := newLeaf[K, V](degree)
		right.keys = append(right.keys, n.keys[degree:]...)
		right.values = append(right.values, n.values[degree:]...)

		// drop references held by the vacated slots
		clear(n.keys[degree:])
		clear(n.values[degree:])
		n.keys = n.keys[:degree]
		n.values = n.values[:degree]
		return right.keys[0], right
	}

	mid := n.keys[degree]
	right := newInternal[K, V](degree)
	right.keys = append(right.keys, n.keys[degree+1:]...)
	right.children = append(right.children, n.children[degree+1:]...)

	clear(n.keys[degree:])
	clear(n.children[degree+1:])
	n.keys = n.keys[:degree]
	n.children = n.children[:degree+1]
	return mid, right
}

func (n *node[K, V]) ascend(fn func(key K, val V) bool) bool {
	if n.leaf {
		for i := range n.keys {
			if !fn(n.keys[i], n.values[i]) {
				return false
			}
		}
		return true
	}
	for _, c := range n.children {
		if !c.ascend(fn) {
			return false
		}
	}
	return true
}
