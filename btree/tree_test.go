package btree

import (
	"bytes"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	gbtree "github.com/google/btree"
)

func keysOf[K, V any](n *node[K, V]) []K {
	return slices.Clone(n.keys)
}

func TestEmptyTree(t *testing.T) {
	tree := New[int, string](DefaultDegree)

	if leaf := tree.findLeaf(10); leaf != tree.root {
		t.Fatalf("findLeaf on empty tree did not return the root")
	}
	if _, ok := tree.Get(10); ok {
		t.Errorf("Get on empty tree found a value")
	}
	if _, _, ok := tree.Min(); ok {
		t.Errorf("Min on empty tree reported a key")
	}
	if _, _, ok := tree.Max(); ok {
		t.Errorf("Max on empty tree reported a key")
	}
	if tree.Len() != 0 || tree.Height() != 1 {
		t.Errorf("got len %d height %d, want 0 and 1", tree.Len(), tree.Height())
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertGet(t *testing.T) {
	tree := New[int, int](DefaultDegree)
	tree.Insert(10, 10)
	if v, ok := tree.Get(10); !ok || v != 10 {
		t.Fatalf("Get(10) = %d, %v", v, ok)
	}
	if !tree.Has(10) || tree.Has(11) {
		t.Fatalf("Has(10) = %v, Has(11) = %v", tree.Has(10), tree.Has(11))
	}
}

func TestInsertUnordered(t *testing.T) {
	tree := New[int, int](DefaultDegree)
	tree.Insert(20, 20)
	tree.Insert(10, 10)
	if v, ok := tree.Get(10); !ok || v != 10 {
		t.Fatalf("Get(10) = %d, %v", v, ok)
	}
	if got := keysOf(tree.root); !slices.Equal(got, []int{10, 20}) {
		t.Fatalf("root keys %v, want [10 20]", got)
	}
}

func TestSplitRootLeaf(t *testing.T) {
	tree := New[int, string](2)
	for _, k := range []int{10, 20, 5} {
		tree.Insert(k, fmt.Sprint("v", k))
	}
	if !tree.root.leaf {
		t.Fatalf("root split before overflowing")
	}
	if got := keysOf(tree.root); !slices.Equal(got, []int{5, 10, 20}) {
		t.Fatalf("root keys %v, want [5 10 20]", got)
	}

	tree.Insert(6, "v6")

	root := tree.root
	if root.leaf {
		t.Fatalf("root still a leaf after overflow")
	}
	if got := keysOf(root); !slices.Equal(got, []int{10}) {
		t.Fatalf("root keys %v, want [10]", got)
	}
	if len(root.children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.children))
	}
	if got := keysOf(root.children[0]); !slices.Equal(got, []int{5, 6}) {
		t.Errorf("left keys %v, want [5 6]", got)
	}
	if got := keysOf(root.children[1]); !slices.Equal(got, []int{10, 20}) {
		t.Errorf("right keys %v, want [10 20]", got)
	}
	if v, ok := tree.Get(10); !ok || v != "v10" {
		t.Errorf("Get(10) = %q, %v", v, ok)
	}
	if _, ok := tree.Get(99); ok {
		t.Errorf("Get(99) found a value")
	}
	if tree.Height() != 2 {
		t.Errorf("height %d, want 2", tree.Height())
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestSplitCorrectness(t *testing.T) {
	for degree := MinDegree; degree <= 8; degree++ {
		t.Run(fmt.Sprint("degree=", degree), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(degree)))
			want := rng.Perm(2 * degree)

			tree := New[int, int](degree)
			for _, k := range want {
				tree.Insert(k, -k)
			}

			root := tree.root
			if root.leaf || len(root.keys) != 1 || len(root.children) != 2 {
				t.Fatalf("root leaf=%v keys=%v children=%d", root.leaf, root.keys, len(root.children))
			}
			left, right := root.children[0], root.children[1]
			if !left.leaf || !right.leaf {
				t.Fatalf("children of the new root must be leaves")
			}
			if len(left.keys) != degree || len(right.keys) != degree {
				t.Fatalf("split into %d and %d keys, want %d each", len(left.keys), len(right.keys), degree)
			}

			union := append(keysOf(left), right.keys...)
			union = append(union, root.keys[0])
			slices.Sort(union)
			union = slices.Compact(union)
			slices.Sort(want)
			if !slices.Equal(union, want) {
				t.Fatalf("keys after split %v, want %v", union, want)
			}
		})
	}
}

func TestOverwrite(t *testing.T) {
	tree := New[int, string](2)
	for k := 0; k < 50; k++ {
		if !tree.Insert(k, "old") {
			t.Fatalf("Insert(%d) reported overwrite on a new key", k)
		}
	}
	for k := 0; k < 50; k++ {
		if tree.Insert(k, fmt.Sprint("new", k)) {
			t.Fatalf("Insert(%d) reported a new key on overwrite", k)
		}
	}
	if tree.Len() != 50 {
		t.Fatalf("len %d after overwrites, want 50", tree.Len())
	}
	for k := 0; k < 50; k++ {
		if v, _ := tree.Get(k); v != fmt.Sprint("new", k) {
			t.Fatalf("Get(%d) = %q", k, v)
		}
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestOverwritePromotedKey(t *testing.T) {
	tree := New[int, int](2)
	for _, k := range []int{10, 20, 5, 6} {
		tree.Insert(k, k)
	}
	// 10 is both the root separator and the first key of the right leaf.
	tree.Insert(10, 100)
	if v, ok := tree.Get(10); !ok || v != 100 {
		t.Fatalf("Get(10) = %d, %v", v, ok)
	}
	if tree.Len() != 4 {
		t.Fatalf("len %d, want 4", tree.Len())
	}
}

func TestRecursiveSplit(t *testing.T) {
	const n = 2000
	orders := map[string]func() []int{
		"ascending": func() []int {
			keys := make([]int, n)
			for i := range keys {
				keys[i] = i
			}
			return keys
		},
		"descending": func() []int {
			keys := make([]int, n)
			for i := range keys {
				keys[i] = n - i
			}
			return keys
		},
		"random": func() []int {
			return rand.New(rand.NewSource(42)).Perm(n)
		},
	}

	for _, degree := range []int{2, 3, 5, 16} {
		for name, order := range orders {
			t.Run(fmt.Sprintf("%s/degree=%d", name, degree), func(t *testing.T) {
				tree := New[int, int](degree)
				keys := order()
				for i, k := range keys {
					tree.Insert(k, k*2)
					if i%97 == 0 {
						if err := tree.Verify(); err != nil {
							t.Fatalf("after %d inserts: %v", i+1, err)
						}
					}
				}
				if err := tree.Verify(); err != nil {
					t.Fatal(err)
				}
				if tree.Len() != n {
					t.Fatalf("len %d, want %d", tree.Len(), n)
				}
				if degree == 2 && tree.Height() <= 2 {
					t.Fatalf("height %d, splits did not propagate past two levels", tree.Height())
				}
				for _, k := range keys {
					if v, ok := tree.Get(k); !ok || v != k*2 {
						t.Fatalf("Get(%d) = %d, %v", k, v, ok)
					}
				}
				if _, ok := tree.Get(-1); ok {
					t.Fatalf("Get(-1) found a value")
				}
			})
		}
	}
}

func TestAscend(t *testing.T) {
	tree := New[int, int](3)
	for _, k := range rand.New(rand.NewSource(7)).Perm(500) {
		tree.Insert(k, k)
	}

	var got []int
	tree.Ascend(func(k, v int) bool {
		if k != v {
			t.Fatalf("key %d paired with value %d", k, v)
		}
		got = append(got, k)
		return true
	})
	if len(got) != 500 || !slices.IsSorted(got) {
		t.Fatalf("Ascend yielded %d keys, sorted=%v", len(got), slices.IsSorted(got))
	}

	got = got[:0]
	tree.Ascend(func(k, _ int) bool {
		got = append(got, k)
		return k < 9
	})
	if !slices.Equal(got, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Fatalf("Ascend did not stop early: %v", got)
	}

	if k, _, _ := tree.Min(); k != 0 {
		t.Errorf("Min %d, want 0", k)
	}
	if k, _, _ := tree.Max(); k != 499 {
		t.Errorf("Max %d, want 499", k)
	}
}

func TestByteKeys(t *testing.T) {
	tree := NewFunc[[]byte, []byte](DefaultDegree, bytes.Compare)
	words := []string{"pear", "apple", "fig", "kiwi", "banana", "cherry", "date", "grape"}
	for _, w := range words {
		tree.Insert([]byte(w), []byte(w+"!"))
	}
	for _, w := range words {
		v, ok := tree.Get([]byte(w))
		if !ok || string(v) != w+"!" {
			t.Fatalf("Get(%q) = %q, %v", w, v, ok)
		}
	}
	if _, ok := tree.Get([]byte("zucchini")); ok {
		t.Fatalf("found a key never inserted")
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
}

type pair struct {
	key, val int
}

// TestAgainstGoogleBTree replays random inserts, including repeated keys,
// against github.com/google/btree and compares contents and lookups.
func TestAgainstGoogleBTree(t *testing.T) {
	for _, degree := range []int{2, 4, 7} {
		rng := rand.New(rand.NewSource(int64(degree) * 1009))
		tree := New[int, int](degree)
		ref := gbtree.NewG[pair](8, func(a, b pair) bool { return a.key < b.key })

		for i := 0; i < 5000; i++ {
			k, v := rng.Intn(1500), rng.Int()
			_, replaced := ref.ReplaceOrInsert(pair{k, v})
			if added := tree.Insert(k, v); added == replaced {
				t.Fatalf("degree %d: Insert(%d) added=%v, reference replaced=%v", degree, k, added, replaced)
			}
		}
		if tree.Len() != ref.Len() {
			t.Fatalf("degree %d: len %d, reference %d", degree, tree.Len(), ref.Len())
		}
		if err := tree.Verify(); err != nil {
			t.Fatal(err)
		}

		var want []pair
		ref.Ascend(func(p pair) bool {
			want = append(want, p)
			return true
		})
		var got []pair
		tree.Ascend(func(k, v int) bool {
			got = append(got, pair{k, v})
			return true
		})
		if !slices.Equal(got, want) {
			t.Fatalf("degree %d: contents diverge from reference", degree)
		}

		for k := -10; k < 1600; k++ {
			p, wantOK := ref.Get(pair{key: k})
			v, ok := tree.Get(k)
			if ok != wantOK || (ok && v != p.val) {
				t.Fatalf("degree %d: Get(%d) = %d, %v; reference %d, %v", degree, k, v, ok, p.val, wantOK)
			}
		}
	}
}

func TestNewRejectsSmallDegree(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("New(1) did not panic")
		}
	}()
	New[int, int](1)
}

func TestAbsentChildPanics(t *testing.T) {
	tree := New[int, int](2)
	for k := 0; k < 4; k++ {
		tree.Insert(k, k)
	}
	tree.root.children = tree.root.children[:1]

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.IsAssertionFailure(err) {
			t.Fatalf("recovered %v, want an assertion failure", r)
		}
	}()
	tree.Get(3)
}

func TestString(t *testing.T) {
	tree := New[int, int](2)
	for k := 0; k < 4; k++ {
		tree.Insert(k, k)
	}
	if got, want := tree.String(), "btree(degree=2 len=4 height=2)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
