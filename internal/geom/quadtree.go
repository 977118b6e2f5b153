package geom

// Quadtree splitting limits.
const (
	QuadCapacity = 16
	QuadMaxDepth = 8
)

// Quadtree indexes values by an oriented box on the X/Z plane. A query
// prunes nodes and entries by their axis-aligned bounds and then runs the
// separating-axis test, so callers only see real overlaps.
type Quadtree[T any] struct {
	root *quadNode[T]
	size int
}

type quadEntry[T any] struct {
	val    T
	box    OBB
	bounds Box3
}

type quadNode[T any] struct {
	area    Rect
	depth   int
	entries []quadEntry[T]
	kids    *[4]quadNode[T]
}

// NewQuadtree covers area. Boxes that do not fit inside it stay in the root.
func NewQuadtree[T any](area Rect) *Quadtree[T] {
	return &Quadtree[T]{root: &quadNode[T]{area: area}}
}

func (q *Quadtree[T]) Len() int { return q.size }

func (q *Quadtree[T]) Insert(v T, box OBB) {
	q.root.insert(quadEntry[T]{val: v, box: box, bounds: box.Bounds()})
	q.size++
}

// Visit calls fn for every value whose box overlaps probe, stopping early
// when fn returns false.
func (q *Quadtree[T]) Visit(probe OBB, fn func(T) bool) {
	q.root.visit(probe, probe.Bounds(), fn)
}

// First returns one value whose box overlaps probe.
func (q *Quadtree[T]) First(probe OBB) (T, bool) {
	var (
		found T
		ok    bool
	)
	q.Visit(probe, func(v T) bool {
		found, ok = v, true
		return false
	})
	return found, ok
}

func (n *quadNode[T]) insert(e quadEntry[T]) {
	if n.kids != nil {
		if c := n.childThatContains(e.bounds.Rect()); c != nil {
			c.insert(e)
			return
		}
	}

	n.entries = append(n.entries, e)

	if len(n.entries) > QuadCapacity && n.depth < QuadMaxDepth && n.kids == nil {
		n.subdivide()
		kept := n.entries[:0]
		for _, it := range n.entries {
			if c := n.childThatContains(it.bounds.Rect()); c != nil {
				c.insert(it)
			} else {
				kept = append(kept, it)
			}
		}
		n.entries = kept
	}
}

// visit reports false once fn has asked to stop.
func (n *quadNode[T]) visit(probe OBB, pb Box3, fn func(T) bool) bool {
	if n.depth > 0 && !n.area.Intersects(pb.Rect()) {
		return true
	}
	for _, e := range n.entries {
		if e.bounds.Intersects(pb) && e.box.Overlaps(probe) {
			if !fn(e.val) {
				return false
			}
		}
	}
	if n.kids == nil {
		return true
	}
	for i := range n.kids {
		if !n.kids[i].visit(probe, pb, fn) {
			return false
		}
	}
	return true
}

func (n *quadNode[T]) subdivide() {
	a := n.area
	mx := (a.X0 + a.X1) * 0.5
	mz := (a.Z0 + a.Z1) * 0.5
	d := n.depth + 1
	n.kids = &[4]quadNode[T]{
		{area: Rect{X0: a.X0, Z0: a.Z0, X1: mx, Z1: mz}, depth: d},
		{area: Rect{X0: mx, Z0: a.Z0, X1: a.X1, Z1: mz}, depth: d},
		{area: Rect{X0: a.X0, Z0: mz, X1: mx, Z1: a.Z1}, depth: d},
		{area: Rect{X0: mx, Z0: mz, X1: a.X1, Z1: a.Z1}, depth: d},
	}
}

func (n *quadNode[T]) childThatContains(b Rect) *quadNode[T] {
	for i := range n.kids {
		if n.kids[i].area.Contains(b) {
			return &n.kids[i]
		}
	}
	return nil
}
