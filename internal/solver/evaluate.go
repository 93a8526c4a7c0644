package solver

import (
	"paxplan/internal/geo"
	"paxplan/internal/model"
)

// RejectReason says why a boat/bundle pairing produced no route.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectGangway
	RejectOverCapacity
	RejectSplitInfeasible
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "ok"
	case RejectGangway:
		return "gangway"
	case RejectOverCapacity:
		return "over capacity"
	case RejectSplitInfeasible:
		return "no feasible pre/post split"
	}
	return "unknown"
}

// Evaluation is the fully-sequenced route for one boat/bundle pairing plus
// the soft metrics the assignment optimizer compares on.
type Evaluation struct {
	Route model.Route

	PriorityTime   float64
	Comfort        float64
	PaxArrival     float64
	ClusterPenalty float64

	Reject RejectReason
}

// OK reports whether the pairing produced a usable route.
func (e Evaluation) OK() bool { return e.Reject == RejectNone }

// Evaluator builds and scores a concrete route for one boat serving one
// demand bundle. m9Avail is the TMIB->M9 demand still unassigned when this
// boat is considered; the boat absorbs as much of it as spare capacity
// allows.
type Evaluator struct {
	Matrix  geo.Matrix
	Gangway geo.Gangway
	W       model.Weights
}

func (ev *Evaluator) Evaluate(boat model.Boat, bundle []model.Demand, m9Avail, m9Priority int) Evaluation {
	merged := mergeBundle(bundle)

	if boat.IsAqua() {
		for _, d := range merged {
			if !ev.Gangway.Allows(d.Platform) {
				return Evaluation{Reject: RejectGangway}
			}
		}
	}

	bundleTMIB, bundleM9 := 0, 0
	usesHub := false
	for _, d := range merged {
		bundleTMIB += d.TMIB
		bundleM9 += d.M9
		if geo.Distant(d.Cluster()) {
			usesHub = true
		}
	}
	if bundleM9 > 0 {
		usesHub = true
	}
	if bundleTMIB > boat.Capacity {
		return Evaluation{Reject: RejectOverCapacity}
	}

	tmibToM9 := 0
	if m9Avail > 0 {
		if spare := boat.Capacity - bundleTMIB; spare > 0 {
			tmibToM9 = min(spare, m9Avail)
			usesHub = true
		}
	}

	if !usesHub {
		stops := make([]model.Stop, 0, len(merged))
		for _, d := range merged {
			stops = append(stops, model.Stop{
				Platform: d.Platform,
				Kind:     model.StopPostM9,
				TMIBDrop: d.TMIB,
				Priority: d.Priority,
			})
		}
		route := model.Route{
			Boat:   boat,
			PostM9: OrderStops(stops, ev.Matrix, geo.Terminal, boat, ev.W),
		}
		return ev.finish(route)
	}

	pre, post, reject := ev.splitPrePost(merged, bundleTMIB, bundleM9, tmibToM9, boat.Capacity)
	if reject != RejectNone {
		return Evaluation{Reject: reject}
	}
	pre, post = ev.promoteP1(pre, post)

	route := model.Route{
		Boat:       boat,
		PreM9:      OrderStops(pre, ev.Matrix, geo.Terminal, boat, ev.W),
		UsesHub:    true,
		PostM9:     OrderStops(post, ev.Matrix, geo.Hub, boat, ev.W),
		TMIBToM9:   tmibToM9,
		M9Pickup:   bundleM9,
		M9Priority: m9Priority,
	}
	return ev.finish(route)
}

// mergeBundle collapses duplicate platforms, summing counts and keeping
// the most urgent priority (0 means none). First-seen order is preserved.
func mergeBundle(bundle []model.Demand) []model.Demand {
	idx := map[string]int{}
	out := make([]model.Demand, 0, len(bundle))
	for _, d := range bundle {
		if i, ok := idx[d.Platform]; ok {
			out[i].TMIB += d.TMIB
			out[i].M9 += d.M9
			out[i].Priority = mergePriority(out[i].Priority, d.Priority)
			continue
		}
		idx[d.Platform] = len(out)
		out = append(out, d)
	}
	return out
}

func mergePriority(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return min(a, b)
}

// splitPrePost chooses which TMIB drops happen before the hub. When the
// full load fits after the hub, everything stays post-M9 and only P1
// promotion may move stops earlier. Otherwise every subset of
// TMIB-carrying platforms is a candidate; a platform with pax from both
// pools that lands pre becomes a loop visit (second call after the hub
// for its M9 drop). Candidates are ranked by estimated path cost, then
// loop count, then how far the moved pax exceed what capacity requires,
// then pre-stop count; the best feasible one wins. Masks are scanned in
// ascending order so ties resolve deterministically.
func (ev *Evaluator) splitPrePost(merged []model.Demand, bundleTMIB, bundleM9, tmibToM9, cap int) (pre, post []model.Stop, reject RejectReason) {
	if bundleTMIB+tmibToM9 > cap {
		return nil, nil, RejectOverCapacity
	}
	if bundleM9 > cap {
		return nil, nil, RejectSplitInfeasible
	}

	if bundleTMIB+bundleM9 <= cap {
		for _, d := range merged {
			post = append(post, model.Stop{
				Platform: d.Platform,
				Kind:     model.StopPostM9,
				TMIBDrop: d.TMIB,
				M9Drop:   d.M9,
				Priority: d.Priority,
			})
		}
		return nil, post, RejectNone
	}

	eligible := make([]int, 0, len(merged)) // indices into merged with TMIB pax
	for i, d := range merged {
		if d.TMIB > 0 {
			eligible = append(eligible, i)
		}
	}
	needed := max(0, bundleTMIB+bundleM9-cap)

	type candidate struct {
		mask      uint
		estCost   float64
		loops     int
		overMoved int
		preCount  int
	}
	var best *candidate
	better := func(a, b *candidate) bool {
		if a.estCost != b.estCost {
			return a.estCost < b.estCost
		}
		if a.loops != b.loops {
			return a.loops < b.loops
		}
		if a.overMoved != b.overMoved {
			return a.overMoved < b.overMoved
		}
		return a.preCount < b.preCount
	}

	for mask := uint(0); mask < 1<<len(eligible); mask++ {
		moved, loops := 0, 0
		prePlats := make([]string, 0, len(eligible))
		postPlats := make([]string, 0, len(merged))
		selected := make(map[int]bool, len(eligible))
		for bit, i := range eligible {
			if mask&(1<<bit) != 0 {
				selected[i] = true
				moved += merged[i].TMIB
				prePlats = append(prePlats, merged[i].Platform)
				if merged[i].M9 > 0 {
					loops++
				}
			}
		}
		postLoad := bundleTMIB - moved + bundleM9
		if postLoad > cap {
			continue
		}
		for i, d := range merged {
			if selected[i] && d.M9 == 0 {
				continue
			}
			postPlats = append(postPlats, d.Platform)
		}

		c := candidate{
			mask:      mask,
			estCost:   ev.estimatePath(geo.Terminal, prePlats, geo.Hub) + ev.estimatePath(geo.Hub, postPlats, "") + float64(loops)*ev.W.LoopVisitCostNM,
			loops:     loops,
			overMoved: moved - needed,
			preCount:  len(prePlats),
		}
		if best == nil || better(&c, best) {
			cc := c
			best = &cc
		}
	}
	if best == nil {
		return nil, nil, RejectSplitInfeasible
	}

	selected := make(map[int]bool, len(eligible))
	for bit, i := range eligible {
		if best.mask&(1<<bit) != 0 {
			selected[i] = true
		}
	}
	for i, d := range merged {
		if selected[i] {
			pre = append(pre, model.Stop{
				Platform: d.Platform,
				Kind:     model.StopPreM9,
				TMIBDrop: d.TMIB,
				Priority: d.Priority,
			})
			if d.M9 > 0 {
				post = append(post, model.Stop{
					Platform: d.Platform,
					Kind:     model.StopPostM9,
					M9Drop:   d.M9,
					Priority: d.Priority,
				})
			}
			continue
		}
		post = append(post, model.Stop{
			Platform: d.Platform,
			Kind:     model.StopPostM9,
			TMIBDrop: d.TMIB,
			M9Drop:   d.M9,
			Priority: d.Priority,
		})
	}
	return pre, post, RejectNone
}

// estimatePath is a cheap nearest-neighbor tour length from start through
// the platforms, optionally ending at end. Used only for ranking split
// candidates; the real segments are sequenced afterwards.
func (ev *Evaluator) estimatePath(start string, platforms []string, end string) float64 {
	remaining := append([]string(nil), platforms...)
	current := start
	total := 0.0
	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := ev.Matrix.Dist(current, remaining[0])
		for i := 1; i < len(remaining); i++ {
			if d := ev.Matrix.Dist(current, remaining[i]); d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		total += bestDist
		current = remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	if end != "" {
		total += ev.Matrix.Dist(current, end)
	}
	return total
}

// promoteP1 pulls priority-1, TMIB-only post stops into the pre segment
// when the detour past them on the way to the hub is negligible.
func (ev *Evaluator) promoteP1(pre, post []model.Stop) ([]model.Stop, []model.Stop) {
	kept := post[:0]
	for _, s := range post {
		if s.Priority == 1 && s.M9Drop == 0 && s.TMIBDrop > 0 {
			detour := ev.Matrix.Dist(geo.Terminal, s.Platform) +
				ev.Matrix.Dist(s.Platform, geo.Hub) -
				ev.Matrix.Dist(geo.Terminal, geo.Hub)
			if detour <= ev.W.P1PreM9MaxDetourNM {
				s.Kind = model.StopPreM9
				pre = append(pre, s)
				continue
			}
		}
		kept = append(kept, s)
	}
	return pre, kept
}

// finish walks the sequenced route once, filling in total distance and the
// soft metrics.
func (ev *Evaluator) finish(route model.Route) Evaluation {
	w := ev.W
	m := ev.Matrix
	boat := route.Boat

	current := geo.Terminal
	minute := 0
	dist := 0.0
	onboard := route.PreLoad()
	var prioTime, comfort, paxArr float64
	seen := map[string]bool{}

	travelTo := func(platform string) {
		leg := m.Dist(current, platform)
		dist += leg
		t := geo.TravelMinutes(leg, boat.SpeedKn)
		if boat.IsAqua() {
			t += w.AquaApproachMin
		}
		comfort += float64(onboard * t)
		minute += t
		current = platform
	}
	dwell := func(pax int) {
		ops := pax * w.MinutesPerPax
		comfort += float64(onboard * ops)
		minute += ops
	}

	visit := func(s model.Stop) {
		travelTo(s.Platform)
		pax := s.Pax()
		paxArr += float64(minute * pax)
		if !seen[s.Platform] {
			seen[s.Platform] = true
			prioTime += float64(minute * model.PriorityWeight(s.Priority))
		}
		dwell(pax)
		onboard -= pax
	}

	for _, s := range route.PreM9 {
		visit(s)
	}
	if route.UsesHub {
		travelTo(geo.Hub)
		if route.TMIBToM9 > 0 {
			prioTime += float64(minute * model.PriorityWeight(route.M9Priority))
		}
		dwell(route.TMIBToM9 + route.M9Pickup)
		onboard += route.M9Pickup - route.TMIBToM9
	}
	for _, s := range route.PostM9 {
		visit(s)
	}

	route.DistanceNM = dist
	cluster := ev.segmentClusterPenalty(route.PreM9) + ev.segmentClusterPenalty(route.PostM9)

	return Evaluation{
		Route:          route,
		PriorityTime:   prioTime,
		Comfort:        comfort,
		PaxArrival:     paxArr,
		ClusterPenalty: cluster,
	}
}

// segmentClusterPenalty charges every cluster change between consecutive
// stops in one segment, more for incompatible areas, plus a per-mile term
// for long jumps.
func (ev *Evaluator) segmentClusterPenalty(stops []model.Stop) float64 {
	total := 0.0
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		ca, cb := a.Cluster(), b.Cluster()
		if ca == cb {
			continue
		}
		if geo.Compatible(ca, cb) {
			total += ev.W.ClusterSwitchNM
		} else {
			total += ev.W.IncompatibleSwitchNM
		}
		if jump := ev.Matrix.Dist(a.Platform, b.Platform); jump > ev.W.ClusterJumpFreeNM {
			total += ev.W.ClusterJumpPerNM * (jump - ev.W.ClusterJumpFreeNM)
		}
	}
	return total
}
