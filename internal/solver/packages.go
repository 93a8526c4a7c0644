package solver

import (
	"paxplan/internal/geo"
	"paxplan/internal/model"
)

// FormPackages groups the day's demands into the bundles the assignment
// search distributes over boats. Mandatory platform pairs are fused into a
// single package when both have pax and the combined terminal load still
// fits the largest boat; everything else rides alone. Package order
// follows demand input order, with a fused pair sitting where its first
// member appeared.
func FormPackages(demands []model.Demand, boats []model.Boat, w model.Weights) [][]model.Demand {
	live := make([]model.Demand, 0, len(demands))
	for _, d := range demands {
		if d.Total() > 0 {
			live = append(live, d)
		}
	}

	maxCap := 0
	avail := 0
	for _, b := range boats {
		if !b.Available {
			continue
		}
		avail++
		if b.Capacity > maxCap {
			maxCap = b.Capacity
		}
	}

	fusedWith := map[int]int{} // index of first member -> index of second
	consumed := map[int]bool{}
	for _, pair := range geo.MandatoryPairs {
		ai, bi := -1, -1
		for i, d := range live {
			if _, taken := fusedWith[i]; taken || consumed[i] {
				continue
			}
			switch d.Platform {
			case pair[0]:
				if ai < 0 {
					ai = i
				}
			case pair[1]:
				if bi < 0 {
					bi = i
				}
			}
		}
		if ai < 0 || bi < 0 {
			continue
		}
		if live[ai].TMIB+live[bi].TMIB > maxCap {
			continue
		}
		first, second := ai, bi
		if second < first {
			first, second = second, first
		}
		fusedWith[first] = second
		consumed[second] = true
	}

	pkgs := make([][]model.Demand, 0, len(live))
	for i, d := range live {
		if consumed[i] {
			continue
		}
		if j, ok := fusedWith[i]; ok {
			pkgs = append(pkgs, []model.Demand{d, live[j]})
			continue
		}
		pkgs = append(pkgs, []model.Demand{d})
	}

	if avail <= w.ScarcityBoatMax {
		pkgs = scarcitySplit(pkgs, w)
	}
	return pkgs
}

// scarcitySplit breaks one large terminal-only package into a small chunk
// plus the remainder, so a scarce fleet can serve more platforms per trip.
// The candidate is the nearest-area package first, largest demand second.
func scarcitySplit(pkgs [][]model.Demand, w model.Weights) [][]model.Demand {
	best := -1
	rank := func(i int) (nearArea bool, tmib int) {
		d := pkgs[i][0]
		c := d.Cluster()
		return c == geo.ClusterM2M3 || c == geo.ClusterM9Near, d.TMIB
	}
	for i, pkg := range pkgs {
		if len(pkg) != 1 {
			continue
		}
		d := pkg[0]
		if d.M9 > 0 || d.TMIB < w.ScarcitySplitMin {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		bNear, bTMIB := rank(best)
		cNear, cTMIB := rank(i)
		if (cNear && !bNear) || (cNear == bNear && cTMIB > bTMIB) {
			best = i
		}
	}
	if best < 0 {
		return pkgs
	}

	d := pkgs[best][0]
	chunk := d
	chunk.TMIB = w.ScarcityChunk
	rest := d
	rest.TMIB = d.TMIB - w.ScarcityChunk

	out := make([][]model.Demand, 0, len(pkgs)+1)
	for i, pkg := range pkgs {
		if i == best {
			out = append(out, []model.Demand{chunk}, []model.Demand{rest})
			continue
		}
		out = append(out, pkg)
	}
	return out
}
