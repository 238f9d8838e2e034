package btree

import (
	"cmp"
	"fmt"

	"github.com/cockroachdb/errors"
)

/*
Tree only keeps a pointer to root node of the tree.
A tree is made up of nodes. Leaves hold the key/value pairs, internal nodes
route lookups to the leaf that owns a key.
*/
type Tree[K, V any] struct {
	root   *node[K, V]
	cmp    func(a, b K) int
	degree int
	length int
	height int
}

// New returns an empty tree of the given degree ordering keys by their
// natural order.
func New[K cmp.Ordered, V any](degree int) *Tree[K, V] {
	return NewFunc[K, V](degree, cmp.Compare[K])
}

// NewFunc returns an empty tree of the given degree ordering keys with
// compare, which must return a negative number, zero or a positive number
// when a sorts before, equal to or after b. It panics if degree is below
// MinDegree.
func NewFunc[K, V any](degree int, compare func(a, b K) int) *Tree[K, V] {
	if degree < MinDegree {
		panic(errors.Newf("btree: degree %d below minimum %d", degree, MinDegree))
	}
	return &Tree[K, V]{
		root:   newLeaf[K, V](degree),
		cmp:    compare,
		degree: degree,
		height: 1,
	}
}

// Len returns the number of keys in the tree.
func (t *Tree[K, V]) Len() int { return t.length }

// Height returns the number of levels, 1 for a tree whose root is a leaf.
func (t *Tree[K, V]) Height() int { return t.height }

// Degree returns M, the minimum branching factor the tree was built with.
func (t *Tree[K, V]) Degree() int { return t.degree }

func (t *Tree[K, V]) String() string {
	return fmt.Sprintf("btree(degree=%d len=%d height=%d)", t.degree, t.length, t.height)
}

// findLeaf descends from the root to the leaf whose key range contains key.
// A fresh tree's root is an empty leaf and is returned as is.
func (t *Tree[K, V]) findLeaf(key K) *node[K, V] {
	n := t.root
	for !n.leaf {
		n = n.child(n.childIndex(key, t.cmp))
	}
	return n
}

// Get returns the value stored under key and whether it was found.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	n := t.findLeaf(key)
	if pos, found := n.search(key, t.cmp); found {
		return n.values[pos], true
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (t *Tree[K, V]) Has(key K) bool {
	_, ok := t.Get(key)
	return ok
}

/*
Insert stores val under key, overwriting the value of an existing key.
It returns true if the key was added, false if an existing value was replaced.

When the root splits, a new root is created. The existing root becomes its
left child and the node split off becomes its right child.
*/
func (t *Tree[K, V]) Insert(key K, val V) bool {
	added, sep, right := t.insert(t.root, key, val)
	if right != nil {
		newRoot := newInternal[K, V](t.degree)
		newRoot.keys = append(newRoot.keys, sep)
		newRoot.children = append(newRoot.children, t.root, right)
		t.root = newRoot
		t.height++
	}
	if added {
		t.length++
	}
	return added
}

/*
insert descends to the leaf owning key and stores the pair there. On the way
back up, a child that split hands its promoted key and new right sibling to
n, which links them in and may overflow in turn. A non-nil right tells the
caller that n itself split around sep.
*/
func (t *Tree[K, V]) insert(n *node[K, V], key K, val V) (added bool, sep K, right *node[K, V]) {
	if n.leaf {
		pos, found := n.search(key, t.cmp)
		// The key already exists, so just update its value.
		if found {
			n.values[pos] = val
			return false, sep, nil
		}
		n.insertItemAt(pos, key, val)
		added = true
	} else {
		i := n.childIndex(key, t.cmp)
		var childSep K
		var sibling *node[K, V]
		added, childSep, sibling = t.insert(n.child(i), key, val)
		if sibling == nil {
			return added, sep, nil
		}
		n.insertKeyAt(i, childSep)
		n.insertChildAt(i+1, sibling)
	}

	if len(n.keys) <= maxKeys(t.degree) {
		return added, sep, nil
	}
	sep, right = n.split(t.degree)
	return added, sep, right
}

// Ascend calls fn for every key/value pair in ascending key order until fn
// returns false.
func (t *Tree[K, V]) Ascend(fn func(key K, val V) bool) {
	t.root.ascend(fn)
}

// Min returns the smallest key and its value, false if the tree is empty.
func (t *Tree[K, V]) Min() (key K, val V, ok bool) {
	n := t.root
	for !n.leaf {
		n = n.child(0)
	}
	if len(n.keys) == 0 {
		return key, val, false
	}
	return n.keys[0], n.values[0], true
}

// Max returns the largest key and its value, false if the tree is empty.
func (t *Tree[K, V]) Max() (key K, val V, ok bool) {
	n := t.root
	for !n.leaf {
		n = n.child(len(n.children) - 1)
	}
	if len(n.keys) == 0 {
		return key, val, false
	}
	last := len(n.keys) - 1
	return n.keys[last], n.values[last], true
}
