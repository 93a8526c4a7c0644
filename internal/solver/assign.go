package solver

import (
	"gonum.org/v1/gonum/stat/combin"

	"paxplan/internal/model"
)

// constraints is one rung of the relaxation cascade.
type constraints struct {
	allBoats   bool // every available boat must carry at least one package
	distantCap bool // distant-cluster routes stay within the budget
	zeroM9     bool // all hub pax must be placed
}

// score orders candidate assignments lexicographically: unplaced hub pax
// dominate, then total distance, then the blended soft term.
type score struct {
	pendingM9 int
	distance  float64
	secondary float64
}

func (s score) betterThan(o score) bool {
	if s.pendingM9 != o.pendingM9 {
		return s.pendingM9 < o.pendingM9
	}
	if s.distance != o.distance {
		return s.distance < o.distance
	}
	return s.secondary < o.secondary
}

// Optimizer searches every package-to-boat mapping for the best set of
// routes. The product space is enumerated in lexicographic order, so ties
// keep the earliest candidate and two runs over the same input agree.
type Optimizer struct {
	Eval *Evaluator
	W    model.Weights

	// Evaluated counts fully-scored assignments across all cascade rungs.
	Evaluated int
}

// Assign distributes the packages over the boats, threading the TMIB->M9
// demand through spare capacity in boat order. Hard constraints are
// relaxed one at a time until some assignment survives: first mandatory
// use of every boat, then the distant budget (with mandatory use back in
// force), then zero pending hub pax. The two relaxations never combine.
// Returns per-boat routes and the bundles behind them (nil for idle
// boats), the hub pax left over, and whether any assignment was found.
func (o *Optimizer) Assign(boats []model.Boat, pkgs [][]model.Demand, m9Demand, m9Priority, distantAlready int) ([]*model.Route, [][]model.Demand, int, bool) {
	if len(boats) == 0 {
		return nil, nil, m9Demand, len(pkgs) == 0 && m9Demand == 0
	}

	enforceAll := len(pkgs) >= len(boats)
	enforceDistant := o.W.MaxDistantBoats > 0

	var cascade []constraints
	for _, zero := range []bool{true, false} {
		cascade = append(cascade, constraints{enforceAll, enforceDistant, zero})
		if enforceAll {
			cascade = append(cascade, constraints{false, enforceDistant, zero})
		}
		if enforceDistant {
			cascade = append(cascade, constraints{enforceAll, false, zero})
		}
	}

	for _, c := range cascade {
		if routes, bundles, pending, ok := o.search(boats, pkgs, m9Demand, m9Priority, distantAlready, c); ok {
			return routes, bundles, pending, true
		}
	}
	return nil, nil, m9Demand, false
}

func (o *Optimizer) search(boats []model.Boat, pkgs [][]model.Demand, m9Demand, m9Priority, distantAlready int, c constraints) ([]*model.Route, [][]model.Demand, int, bool) {
	var bestRoutes []*model.Route
	var bestBundles [][]model.Demand
	var bestScore score
	bestPending := m9Demand
	found := false

	try := func(asg []int) {
		perBoat := make([][]model.Demand, len(boats))
		for i, b := range asg {
			perBoat[b] = append(perBoat[b], pkgs[i]...)
		}
		if c.allBoats {
			for b := range boats {
				if len(perBoat[b]) == 0 {
					return
				}
			}
		}

		remaining := m9Demand
		routes := make([]*model.Route, len(boats))
		evals := make([]*Evaluation, len(boats))
		for b := range boats {
			if len(perBoat[b]) == 0 {
				continue
			}
			e := o.Eval.Evaluate(boats[b], perBoat[b], remaining, m9Priority)
			if !e.OK() {
				return
			}
			remaining -= e.Route.TMIBToM9
			routes[b] = &e.Route
			evals[b] = &e
		}
		// Idle boats mop up leftover hub pax as pure shuttles.
		for b := range boats {
			if remaining == 0 {
				break
			}
			if routes[b] != nil {
				continue
			}
			e := o.Eval.Evaluate(boats[b], nil, remaining, m9Priority)
			if !e.OK() || e.Route.TMIBToM9 == 0 {
				continue
			}
			remaining -= e.Route.TMIBToM9
			routes[b] = &e.Route
			evals[b] = &e
		}

		if c.zeroM9 && remaining > 0 {
			return
		}
		if c.distantCap {
			distant := distantAlready
			for _, r := range routes {
				if r != nil && r.TouchesDistant() {
					distant++
				}
			}
			if distant > o.W.MaxDistantBoats {
				return
			}
		}

		o.Evaluated++
		s := o.scoreAssignment(boats, routes, evals, remaining)
		if !found || s.betterThan(bestScore) {
			found = true
			bestScore = s
			bestRoutes = routes
			bestBundles = perBoat
			bestPending = remaining
		}
	}

	if len(pkgs) == 0 {
		try(nil)
	} else {
		dims := make([]int, len(pkgs))
		for i := range dims {
			dims[i] = len(boats)
		}
		gen := combin.NewCartesianGenerator(dims)
		asg := make([]int, len(pkgs))
		for gen.Next() {
			gen.Product(asg)
			try(asg)
		}
	}

	if !found {
		return nil, nil, m9Demand, false
	}
	return bestRoutes, bestBundles, bestPending, true
}

func (o *Optimizer) scoreAssignment(boats []model.Boat, routes []*model.Route, evals []*Evaluation, pending int) score {
	w := o.W

	dist := 0.0
	var prioTime, comfort, paxArr, cluster float64
	m9Routes := 0
	used := 0
	for _, e := range evals {
		if e == nil {
			continue
		}
		used++
		dist += e.Route.DistanceNM
		prioTime += e.PriorityTime
		comfort += e.Comfort
		paxArr += e.PaxArrival
		cluster += e.ClusterPenalty
		if e.Route.TMIBToM9 > 0 || e.Route.M9Pickup > 0 {
			m9Routes++
		}
	}

	consolidation := 0.0
	if m9Routes > 1 {
		consolidation = float64(m9Routes-1) * w.M9ConsolidationNM
	}
	mix := o.priorityMixPenalty(boats, routes)

	clusterWeight := 0.0
	if available(boats) <= 2 {
		clusterWeight = 1.0
	}

	secondary := consolidation + mix +
		prioTime*w.PriorityTimeWeight +
		comfort*w.ComfortPaxMinWeight +
		paxArr*w.PaxArrivalWeight +
		cluster*clusterWeight

	return score{pendingM9: pending, distance: dist, secondary: secondary}
}

// priorityMixPenalty charges routes that carry P2/P3 pax on a boat with no
// P1 work while a P1 boat had the spare capacity to absorb them.
func (o *Optimizer) priorityMixPenalty(boats []model.Boat, routes []*model.Route) float64 {
	type routeInfo struct {
		hasP1  bool
		p23pax int
		spare  int
	}
	infos := make([]routeInfo, 0, len(routes))
	for b, r := range routes {
		if r == nil {
			continue
		}
		info := routeInfo{spare: boats[b].Capacity - r.MaxLoad()}
		for _, s := range r.Stops() {
			switch s.Priority {
			case 1:
				info.hasP1 = true
			case 2, 3:
				info.p23pax += s.Pax()
			}
		}
		infos = append(infos, info)
	}

	total := 0.0
	for _, info := range infos {
		if info.hasP1 || info.p23pax == 0 {
			continue
		}
		for _, other := range infos {
			if other.hasP1 && other.spare >= info.p23pax {
				total += o.W.PriorityMixFitNM
				break
			}
		}
	}
	return total
}

func available(boats []model.Boat) int {
	n := 0
	for _, b := range boats {
		if b.Available {
			n++
		}
	}
	return n
}
