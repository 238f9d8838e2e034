// Package btree implements an in-memory ordered map on a B-tree of
// configurable degree M: every node holds at most 2M-1 keys and an internal
// node holds one more child than it has keys.
//
// Values live in the leaves only. Internal nodes carry copies of separator
// keys used for routing: children[i] holds keys below keys[i], and
// children[i+1] holds keys greater than or equal to keys[i].
//
// A Tree is not safe for concurrent use. Callers sharing one across
// goroutines must serialize every call.
package btree

const (
	// MinDegree is the smallest degree a tree can be built with.
	MinDegree = 2
	// DefaultDegree gives nodes of at most 3 keys and 4 children.
	DefaultDegree = 2
)

// maxKeys returns the key capacity of a node for the given degree.
func maxKeys(degree int) int {
	return 2*degree - 1
}
