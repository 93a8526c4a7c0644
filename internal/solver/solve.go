package solver

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"paxplan/internal/geo"
	"paxplan/internal/model"
)

// Solver plans one day of PAX distribution. It is single-threaded and
// deterministic: the same scenario, matrix and weights always produce the
// same plan.
type Solver struct {
	Matrix  geo.Matrix
	Gangway geo.Gangway
	W       model.Weights
	Log     logrus.FieldLogger
}

// New wires a Solver. A nil logger falls back to the process default.
func New(m geo.Matrix, g geo.Gangway, w model.Weights, log logrus.FieldLogger) *Solver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Solver{Matrix: m, Gangway: g, W: w, Log: log}
}

// Result is a plan plus search statistics.
type Result struct {
	Plan model.Plan

	AssignmentsEvaluated int
}

type workRoute struct {
	boat   model.Boat
	bundle []model.Demand
	route  model.Route
}

// Solve runs the full pipeline: hub-row extraction, fixed-route
// subtraction, Aqua direct service, the combinatorial assignment search,
// and a residual fill into leftover capacity.
func (s *Solver) Solve(sc model.Scenario) Result {
	plan := model.Plan{CrewChange: sc.CrewChange, CrewM9: sc.CrewM9}

	// The PCM-09 demand row is the TMIB->M9 pool, not a regular stop.
	pool := make([]model.Demand, 0, len(sc.Demands))
	m9TMIB, m9Prio := 0, 0
	for _, d := range sc.Demands {
		if d.Platform == geo.Hub {
			m9TMIB += d.TMIB
			if d.Priority > m9Prio {
				m9Prio = d.Priority
			}
			continue
		}
		pool = append(pool, d)
	}

	totalDemand := m9TMIB
	for _, d := range pool {
		totalDemand += d.Total()
	}
	if totalDemand == 0 {
		return Result{Plan: plan}
	}

	ev := &Evaluator{Matrix: s.Matrix, Gangway: s.Gangway, W: s.W}
	opt := &Optimizer{Eval: ev, W: s.W}

	// Fixed routes are honored verbatim; their deliveries come off the
	// demand before anything is planned.
	var fixed []model.PlanEntry
	fixedTMIB, fixedM9 := 0, 0
	distantAlready := 0
	var fleet []model.Boat
	for _, b := range sc.Boats {
		if !b.Available {
			continue
		}
		if b.FixedRoute == "" {
			fleet = append(fleet, b)
			continue
		}
		deliveries, order := model.ParseFixedRoute(b.FixedRoute)
		tmibLoad, m9Load := 0, 0
		for _, plat := range order {
			del := deliveries[plat]
			tmibLoad += del.TMIB
			m9Load += del.M9
			if plat == geo.Hub {
				m9TMIB = max(0, m9TMIB-del.TMIB)
				continue
			}
			subtractPool(pool, plat, del.TMIB, del.M9)
		}
		fixedTMIB += tmibLoad
		fixedM9 += m9Load
		if tmibLoad > b.Capacity || m9Load > b.Capacity {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("ATENCAO: rota fixa de %s excede capacidade (%d pax, max %d)", b.Name, max(tmibLoad, m9Load), b.Capacity))
		}
		if model.FixedRouteTouchesDistant(b.FixedRoute) {
			distantAlready++
		}
		fixed = append(fixed, model.PlanEntry{Boat: b, RouteString: b.FixedRoute})
	}

	sort.SliceStable(fleet, func(i, j int) bool {
		return fleet[i].DepartureMinutes() < fleet[j].DepartureMinutes()
	})

	var work []workRoute

	if remaining(pool)+m9TMIB > 0 && len(fleet) == 0 {
		plan.Warnings = append(plan.Warnings, "ATENCAO: nenhum barco disponivel para a demanda restante")
	}

	// Aqua direct service: when enough gangway-platform pax exist, the
	// Aqua skips the hub entirely.
	fleet, work = s.aquaDirect(ev, fleet, pool, work)

	if s.W.DistantDedication {
		fleet, work = s.dedicateDistant(ev, fleet, pool, work)
	}

	for _, wr := range work {
		if wr.route.TouchesDistant() {
			distantAlready++
		}
	}

	// Combinatorial phase over what is left.
	live := make([]model.Demand, 0, len(pool))
	for _, d := range pool {
		if d.Total() > 0 {
			live = append(live, d)
		}
	}
	pkgs := FormPackages(live, fleet, s.W)

	// Packages no single boat can carry go straight to the residual
	// pool; keeping them in the search would poison every assignment.
	fit := make([][]model.Demand, 0, len(pkgs))
	for _, pkg := range pkgs {
		if fitsSomeBoat(ev, fleet, pkg) {
			fit = append(fit, pkg)
		}
	}

	pendingM9 := m9TMIB
	if len(fleet) > 0 && (len(fit) > 0 || m9TMIB > 0) {
		routes, bundles, pending, ok := opt.Assign(fleet, fit, m9TMIB, m9Prio, distantAlready)
		if ok {
			pendingM9 = pending
			for b, r := range routes {
				if r == nil {
					continue
				}
				for _, d := range bundles[b] {
					subtractPool(pool, d.Platform, d.TMIB, d.M9)
				}
				work = append(work, workRoute{boat: fleet[b], bundle: bundles[b], route: *r})
			}
		} else {
			s.Log.WithFields(logrus.Fields{
				"packages": len(fit),
				"boats":    len(fleet),
			}).Warn("no feasible assignment found")
		}
	}

	work = s.residualFill(ev, work, pool, m9Prio)

	if pendingM9 > 0 {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("ATENCAO: %d pax TMIB->M9 sem alocacao", pendingM9))
	}
	for _, d := range pool {
		if d.Total() > 0 {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("ATENCAO: demanda nao atendida em %s (%d pax TMIB, %d pax M9)", d.Label, d.TMIB, d.M9))
		}
	}

	plan.TMIBServed = fixedTMIB
	plan.M9Served = fixedM9
	plan.Entries = append(plan.Entries, fixed...)
	for i := range work {
		wr := &work[i]
		plan.TMIBServed += wr.route.TotalTMIB()
		plan.M9Served += wr.route.M9Pickup
		plan.FreeDistanceNM += wr.route.DistanceNM
		plan.Entries = append(plan.Entries, model.PlanEntry{
			Boat:        wr.boat,
			RouteString: wr.route.String(),
			Route:       &wr.route,
		})
	}
	sort.SliceStable(plan.Entries, func(i, j int) bool {
		return plan.Entries[i].Boat.DepartureMinutes() < plan.Entries[j].Boat.DepartureMinutes()
	})

	s.Log.WithFields(logrus.Fields{
		"entries":     len(plan.Entries),
		"tmib_served": plan.TMIBServed,
		"m9_served":   plan.M9Served,
		"warnings":    len(plan.Warnings),
		"evaluated":   opt.Evaluated,
	}).Info("plan complete")

	return Result{Plan: plan, AssignmentsEvaluated: opt.Evaluated}
}

// aquaDirect lets each Aqua Helix serve a full load of gangway-platform
// terminal pax without the hub detour, when that beats routing them
// through it. Committed boats leave the combinatorial fleet.
func (s *Solver) aquaDirect(ev *Evaluator, fleet []model.Boat, pool []model.Demand, work []workRoute) ([]model.Boat, []workRoute) {
	kept := fleet[:0]
	for _, b := range fleet {
		if !b.IsAqua() {
			kept = append(kept, b)
			continue
		}

		type pick struct {
			idx  int
			take int
		}
		idxs := make([]int, 0, len(pool))
		for i, d := range pool {
			if d.TMIB > 0 && s.Gangway.Allows(d.Platform) {
				idxs = append(idxs, i)
			}
		}
		sort.SliceStable(idxs, func(a, c int) bool {
			return pool[idxs[a]].TMIB > pool[idxs[c]].TMIB
		})

		room := b.Capacity
		var picks []pick
		for _, i := range idxs {
			if room == 0 {
				break
			}
			take := min(room, pool[i].TMIB)
			picks = append(picks, pick{idx: i, take: take})
			room -= take
		}
		total := b.Capacity - room
		if total < s.W.AquaDirectMinPax {
			kept = append(kept, b)
			continue
		}

		bundle := make([]model.Demand, 0, len(picks))
		plats := make([]string, 0, len(picks))
		for _, p := range picks {
			d := pool[p.idx]
			d.TMIB = p.take
			d.M9 = 0
			bundle = append(bundle, d)
			plats = append(plats, d.Platform)
		}
		e := ev.Evaluate(b, bundle, 0, 0)
		if !e.OK() {
			kept = append(kept, b)
			continue
		}
		hubEst := ev.Matrix.Dist(geo.Terminal, geo.Hub) + ev.estimatePath(geo.Hub, plats, "")
		if e.Route.DistanceNM >= hubEst {
			kept = append(kept, b)
			continue
		}

		for _, p := range picks {
			subtractPool(pool, pool[p.idx].Platform, p.take, 0)
		}
		work = append(work, workRoute{boat: b, bundle: bundle, route: e.Route})
	}
	return kept, work
}

// dedicateDistant reserves the first boat that can take the whole distant
// demand, keeping long-haul pax off mixed routes.
func (s *Solver) dedicateDistant(ev *Evaluator, fleet []model.Boat, pool []model.Demand, work []workRoute) ([]model.Boat, []workRoute) {
	var bundle []model.Demand
	for _, d := range pool {
		if d.Total() > 0 && geo.Distant(d.Cluster()) {
			bundle = append(bundle, d)
		}
	}
	if len(bundle) == 0 {
		return fleet, work
	}
	for i, b := range fleet {
		e := ev.Evaluate(b, bundle, 0, 0)
		if !e.OK() {
			continue
		}
		for _, d := range bundle {
			subtractPool(pool, d.Platform, d.TMIB, d.M9)
		}
		work = append(work, workRoute{boat: b, bundle: bundle, route: e.Route})
		return append(append([]model.Boat{}, fleet[:i]...), fleet[i+1:]...), work
	}
	return fleet, work
}

// residualFill pushes leftover demand into spare capacity on the routes
// already built. Routes are tried in spare-capacity order, demands most
// urgent first; each addition rebuilds and re-sequences the route.
func (s *Solver) residualFill(ev *Evaluator, work []workRoute, pool []model.Demand, m9Prio int) []workRoute {
	order := make([]int, len(work))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		wa, wb := &work[order[a]], &work[order[b]]
		return wa.boat.Capacity-wa.route.MaxLoad() > wb.boat.Capacity-wb.route.MaxLoad()
	})

	residual := make([]int, 0, len(pool))
	for i, d := range pool {
		if d.Total() > 0 {
			residual = append(residual, i)
		}
	}
	sort.SliceStable(residual, func(a, b int) bool {
		da, db := pool[residual[a]], pool[residual[b]]
		pa, pb := da.Priority, db.Priority
		if pa == 0 {
			pa = 4
		}
		if pb == 0 {
			pb = 4
		}
		if pa != pb {
			return pa < pb
		}
		return da.Total() > db.Total()
	})

	for _, wi := range order {
		wr := &work[wi]
		for _, ri := range residual {
			d := &pool[ri]
			if d.Total() == 0 {
				continue
			}
			spare := wr.boat.Capacity - wr.route.MaxLoad()
			if spare <= 0 {
				break
			}
			if wr.boat.IsAqua() && !s.Gangway.Allows(d.Platform) {
				continue
			}
			if !clusterFits(wr.route, d.Platform) {
				continue
			}
			takeT := min(spare, d.TMIB)
			takeM := 0
			if wr.route.UsesHub {
				takeM = min(spare-takeT, d.M9)
			}
			if takeT+takeM == 0 {
				continue
			}
			add := *d
			add.TMIB = takeT
			add.M9 = takeM
			trial := append(append([]model.Demand(nil), wr.bundle...), add)
			e := ev.Evaluate(wr.boat, trial, wr.route.TMIBToM9, m9Prio)
			if !e.OK() || e.Route.TMIBToM9 != wr.route.TMIBToM9 {
				continue
			}
			wr.bundle = trial
			wr.route = e.Route
			d.TMIB -= takeT
			d.M9 -= takeM
		}
	}
	return work
}

// clusterFits allows a residual demand on a route only when the route is
// hub-only or already visits a compatible area.
func clusterFits(r model.Route, platform string) bool {
	stops := r.Stops()
	if len(stops) == 0 {
		return true
	}
	c := geo.ClusterOf(platform)
	for _, s := range stops {
		if s.Cluster() == c || geo.Compatible(s.Cluster(), c) {
			return true
		}
	}
	return false
}

func fitsSomeBoat(ev *Evaluator, fleet []model.Boat, pkg []model.Demand) bool {
	for _, b := range fleet {
		if ev.Evaluate(b, pkg, 0, 0).OK() {
			return true
		}
	}
	return false
}

func subtractPool(pool []model.Demand, platform string, tmib, m9 int) {
	for i := range pool {
		if pool[i].Platform != platform {
			continue
		}
		t := min(tmib, pool[i].TMIB)
		pool[i].TMIB -= t
		tmib -= t
		mm := min(m9, pool[i].M9)
		pool[i].M9 -= mm
		m9 -= mm
		if tmib == 0 && m9 == 0 {
			return
		}
	}
}

func remaining(pool []model.Demand) int {
	n := 0
	for _, d := range pool {
		n += d.Total()
	}
	return n
}
