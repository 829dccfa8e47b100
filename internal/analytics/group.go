package analytics

import (
	"cmp"
	"slices"
	"strings"
)

type group struct {
	key   []string
	count int64
	tally map[string]int64
	seen  []string // first-seen values of the annotation columns
}

// grouper accumulates rows into groups keyed by keyCols, remembering the
// annotation columns of the first row of each group.
type grouper struct {
	f        *frame
	keyCols  []int
	seenCols []int
	byKey    map[string]*group
	groups   []*group
}

func (f *frame) groupBy(keyCols ...int) *grouper {
	return &grouper{
		f:       f,
		keyCols: keyCols,
		byKey:   make(map[string]*group),
	}
}

// annotate records the given columns from the first row of every group.
func (g *grouper) annotate(cols ...int) *grouper {
	g.seenCols = cols
	return g
}

func (g *grouper) add(row []string) *group {
	key := pick(row, g.keyCols)
	k := strings.Join(key, "\x1f")
	grp, ok := g.byKey[k]
	if !ok {
		grp = &group{key: key, tally: make(map[string]int64)}
		if len(g.seenCols) > 0 {
			grp.seen = pick(row, g.seenCols)
		}
		g.byKey[k] = grp
		g.groups = append(g.groups, grp)
	}
	grp.count++
	return grp
}

type order func(a, b *group) int

// asc orders by the i-th grouping key, NULLs last.
func (g *grouper) asc(i int) order {
	col := g.keyCols[i]
	return func(a, b *group) int {
		return g.f.compare(col, a.key[i], b.key[i])
	}
}

func countDesc(a, b *group) int {
	return cmp.Compare(b.count, a.count)
}

func (g *grouper) sorted(orders ...order) []*group {
	out := slices.Clone(g.groups)
	slices.SortStableFunc(out, func(a, b *group) int {
		for _, o := range orders {
			if c := o(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
