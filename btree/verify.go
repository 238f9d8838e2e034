package btree

import "github.com/cockroachdb/errors"

// Verify walks the whole tree and reports the first broken structural
// invariant: key ordering within and across nodes, node capacity, child
// counts, leaf depth and the cached length. A nil result means the tree is
// well formed.
func (t *Tree[K, V]) Verify() error {
	if t.root == nil {
		return errors.AssertionFailedf("btree: nil root")
	}
	v := verifier[K, V]{tree: t}
	if err := v.walk(t.root, 1, nil, nil); err != nil {
		return err
	}
	if v.count != t.length {
		return errors.AssertionFailedf("btree: %d keys in leaves, length says %d", v.count, t.length)
	}
	return nil
}

type verifier[K, V any] struct {
	tree  *Tree[K, V]
	count int
}

// walk checks n and its subtree. Every key below n must satisfy
// lo <= key < hi, a nil bound being open.
func (v *verifier[K, V]) walk(n *node[K, V], depth int, lo, hi *K) error {
	t := v.tree
	nkeys := len(n.keys)

	if n != t.root && nkeys == 0 {
		return errors.AssertionFailedf("btree: empty non-root node at depth %d", depth)
	}
	if nkeys > maxKeys(t.degree) {
		return errors.AssertionFailedf("btree: node at depth %d holds %d keys, max %d",
			depth, nkeys, maxKeys(t.degree))
	}
	for i := 1; i < nkeys; i++ {
		if t.cmp(n.keys[i-1], n.keys[i]) >= 0 {
			return errors.AssertionFailedf("btree: keys %d and %d out of order at depth %d", i-1, i, depth)
		}
	}
	if nkeys > 0 {
		if lo != nil && t.cmp(n.keys[0], *lo) < 0 {
			return errors.AssertionFailedf("btree: key below lower bound of its subtree at depth %d", depth)
		}
		if hi != nil && t.cmp(n.keys[nkeys-1], *hi) >= 0 {
			return errors.AssertionFailedf("btree: key at or above upper bound of its subtree at depth %d", depth)
		}
	}

	if n.leaf {
		if len(n.children) != 0 {
			return errors.AssertionFailedf("btree: leaf at depth %d has %d children", depth, len(n.children))
		}
		if len(n.values) != nkeys {
			return errors.AssertionFailedf("btree: leaf at depth %d has %d keys and %d values",
				depth, nkeys, len(n.values))
		}
		if depth != t.height {
			return errors.AssertionFailedf("btree: leaf at depth %d, height is %d", depth, t.height)
		}
		v.count += nkeys
		return nil
	}

	if len(n.values) != 0 {
		return errors.AssertionFailedf("btree: internal node at depth %d holds values", depth)
	}
	if len(n.children) != nkeys+1 {
		return errors.AssertionFailedf("btree: internal node at depth %d has %d keys and %d children",
			depth, nkeys, len(n.children))
	}
	for i, c := range n.children {
		if c == nil {
			return errors.AssertionFailedf("btree: nil child %d at depth %d", i, depth)
		}
		clo, chi := lo, hi
		if i > 0 {
			clo = &n.keys[i-1]
		}
		if i < nkeys {
			chi = &n.keys[i]
		}
		if err := v.walk(c, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}
