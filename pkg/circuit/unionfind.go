package circuit

// partition is a disjoint-set structure over terminals. Terminals that never
// appear in a union remain singleton classes. Union by rank with path
// compression; compression only happens inside union, so Find stays
// read-only and compilation never mutates the structure.
type partition struct {
	parent map[*Terminal]*Terminal
	rank   map[*Terminal]int
}

func newPartition() *partition {
	return &partition{
		parent: make(map[*Terminal]*Terminal),
		rank:   make(map[*Terminal]int),
	}
}

// add ensures t is tracked as its own class if not seen before.
func (p *partition) add(t *Terminal) {
	if _, ok := p.parent[t]; !ok {
		p.parent[t] = t
	}
}

// findCompress returns the class representative, compressing paths.
// Only called during union, i.e. while the owning block is being wired.
func (p *partition) findCompress(t *Terminal) *Terminal {
	root := t
	for p.parent[root] != root {
		root = p.parent[root]
	}
	for p.parent[t] != root {
		t, p.parent[t] = p.parent[t], root
	}
	return root
}

// union merges the classes of a and b. Idempotent and order-independent:
// the resulting partition depends only on the set of unions performed.
func (p *partition) union(a, b *Terminal) {
	p.add(a)
	p.add(b)
	ra, rb := p.findCompress(a), p.findCompress(b)
	if ra == rb {
		return
	}
	if p.rank[ra] < p.rank[rb] {
		ra, rb = rb, ra
	}
	p.parent[rb] = ra
	if p.rank[ra] == p.rank[rb] {
		p.rank[ra]++
	}
}

// find returns the class representative without mutating the structure.
// A terminal never seen by a union is its own representative.
func (p *partition) find(t *Terminal) *Terminal {
	root, ok := p.parent[t]
	if !ok {
		return t
	}
	for p.parent[root] != root {
		root = p.parent[root]
	}
	return root
}
