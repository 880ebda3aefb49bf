package gogen

import "github.com/jptrs93/cleanwire/internal/ir"

// boxedFields returns the required message fields held by pointer instead of
// by value: those marked (cleanwire.boxed) and every by-value edge inside a
// strongly connected component of the message graph, which Go could not lay
// out as a finite struct.
func boxedFields(set *ir.Set) map[*ir.Field]bool {
	boxed := make(map[*ir.Field]bool)
	edges := make(map[*ir.Message][]*ir.Field)
	var nodes []*ir.Message
	for _, f := range set.Files {
		f.WalkMessages(func(m *ir.Message) {
			nodes = append(nodes, m)
			for _, fld := range m.Fields {
				if !fld.IsRequired() || !isMessage(fld) {
					continue
				}
				if fld.Boxed {
					boxed[fld] = true
					continue
				}
				if set.Message(fld.TypeName) != nil {
					edges[m] = append(edges[m], fld)
				}
			}
		})
	}

	t := tarjan{
		set:   set,
		edges: edges,
		index: make(map[*ir.Message]int),
		low:   make(map[*ir.Message]int),
		on:    make(map[*ir.Message]bool),
		scc:   make(map[*ir.Message]int),
	}
	for _, m := range nodes {
		if _, ok := t.index[m]; !ok {
			t.visit(m)
		}
	}
	for m, fields := range edges {
		for _, fld := range fields {
			if t.scc[m] == t.scc[set.Message(fld.TypeName)] {
				boxed[fld] = true
			}
		}
	}
	return boxed
}

type tarjan struct {
	set   *ir.Set
	edges map[*ir.Message][]*ir.Field
	next  int
	index map[*ir.Message]int
	low   map[*ir.Message]int
	on    map[*ir.Message]bool
	stack []*ir.Message
	scc   map[*ir.Message]int
	count int
}

func (t *tarjan) visit(m *ir.Message) {
	t.index[m] = t.next
	t.low[m] = t.next
	t.next++
	t.stack = append(t.stack, m)
	t.on[m] = true

	for _, fld := range t.edges[m] {
		to := t.set.Message(fld.TypeName)
		if _, ok := t.index[to]; !ok {
			t.visit(to)
			t.low[m] = min(t.low[m], t.low[to])
		} else if t.on[to] {
			t.low[m] = min(t.low[m], t.index[to])
		}
	}

	if t.low[m] != t.index[m] {
		return
	}
	for {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.on[top] = false
		t.scc[top] = t.count
		if top == m {
			break
		}
	}
	t.count++
}
