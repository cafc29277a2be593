package orr

import (
	"sort"
	"strings"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

// Group is one bucket of rows sharing values for the grouping columns.
type Group struct {
	// Key is the display label: the grouping column values joined
	// by "_", or the fallback label when no columns were given.
	Key  string
	Rows []dataset.Row
}

// groupSep keeps distinct value tuples distinct internally even when
// the display join with "_" would collide.
const groupSep = "\x1f"

// GroupRows buckets rows by the values of the named columns, returning
// groups sorted by key. With no columns every row lands in one group
// labeled fallback. Row order within a group follows input order.
func GroupRows(rows []dataset.Row, cols []string, fallback string) []Group {
	if len(cols) == 0 {
		out := make([]dataset.Row, len(rows))
		copy(out, rows)
		return []Group{{Key: fallback, Rows: out}}
	}
	byKey := map[string]*Group{}
	var order []string
	for _, r := range rows {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = r.Prop(c)
		}
		internal := strings.Join(vals, groupSep)
		g, ok := byKey[internal]
		if !ok {
			g = &Group{Key: strings.Join(vals, "_")}
			byKey[internal] = g
			order = append(order, internal)
		}
		g.Rows = append(g.Rows, r)
	}
	sort.Strings(order)
	out := make([]Group, len(order))
	for i, k := range order {
		out[i] = *byKey[k]
	}
	return out
}

// LowestEnergyRows selects, per adsorbate, the row with the minimum
// known energy, first occurrence on ties. Rows with unknown energy
// lose to any known one; an adsorbate with only unknown rows keeps its
// first row so the gap still shows in the diagram. Output is sorted by
// adsorbate name.
func LowestEnergyRows(rows []dataset.Row) []dataset.Row {
	best := map[string]dataset.Row{}
	var adsorbates []string
	for _, r := range rows {
		cur, seen := best[r.Adsorbate]
		if !seen {
			best[r.Adsorbate] = r
			adsorbates = append(adsorbates, r.Adsorbate)
			continue
		}
		rv, rKnown := r.Energy.Value()
		cv, cKnown := cur.Energy.Value()
		if rKnown && (!cKnown || rv < cv) {
			best[r.Adsorbate] = r
		}
	}
	sort.Strings(adsorbates)
	out := make([]dataset.Row, len(adsorbates))
	for i, a := range adsorbates {
		out[i] = best[a]
	}
	return out
}

// GroupDiagram pairs one group with its composed diagram.
type GroupDiagram struct {
	Key     string
	Rows    []dataset.Row
	Diagram Diagram
}

// stripCols removes the named columns from a grouping list.
func stripCols(cols []string, drop ...string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		skip := false
		for _, d := range drop {
			if c == d {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}

// LowestEnergyDiagrams groups rows by groupBy (site and adsorbate are
// always collapsed out of the grouping), keeps the minimum-energy row
// per adsorbate within each group, and composes one diagram per group.
func LowestEnergyDiagrams(rows []dataset.Row, groupBy []string, fallback string) ([]GroupDiagram, error) {
	cols := stripCols(groupBy, dataset.ColSite, dataset.ColAdsorbate)
	groups := GroupRows(rows, cols, fallback)
	out := make([]GroupDiagram, 0, len(groups))
	for _, g := range groups {
		selected := LowestEnergyRows(g.Rows)
		d, err := NewDiagram(selected)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupDiagram{Key: g.Key, Rows: selected, Diagram: d})
	}
	return out, nil
}

// AllStatesDiagrams groups rows by groupBy with only adsorbate
// collapsed, keeping every site variant: with site among the grouping
// columns each site becomes its own group and its own diagram, which
// is how site-to-site scatter is shown next to the lowest-energy path.
func AllStatesDiagrams(rows []dataset.Row, groupBy []string, fallback string) ([]GroupDiagram, error) {
	cols := stripCols(groupBy, dataset.ColAdsorbate)
	groups := GroupRows(rows, cols, fallback)
	out := make([]GroupDiagram, 0, len(groups))
	for _, g := range groups {
		d, err := NewDiagram(g.Rows)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupDiagram{Key: g.Key, Rows: g.Rows, Diagram: d})
	}
	return out, nil
}
