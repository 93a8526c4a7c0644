package solver

import (
	"gonum.org/v1/gonum/stat/combin"

	"paxplan/internal/geo"
	"paxplan/internal/model"
)

// OrderStops sequences an unordered set of stops from a start platform.
// Without priorities the objective is pure travel distance (exhaustive up
// to the cutoff, nearest-neighbor beyond it); with priorities a weighted
// sequence score is minimized instead. Permutations are enumerated in
// lexicographic index order so ties resolve deterministically.
func OrderStops(stops []model.Stop, m geo.Matrix, start string, boat model.Boat, w model.Weights) []model.Stop {
	if len(stops) <= 1 {
		return append([]model.Stop(nil), stops...)
	}

	hasPriority := false
	for _, s := range stops {
		if s.Priority >= 1 && s.Priority <= 3 {
			hasPriority = true
			break
		}
	}

	if !hasPriority {
		if len(stops) <= w.ExhaustiveStops {
			return bestPermutation(stops, func(order []model.Stop) float64 {
				return pathDistance(order, m, start)
			})
		}
		return nearestNeighbor(stops, m, start)
	}

	score := func(order []model.Stop) float64 {
		return sequenceScore(order, m, start, boat, w)
	}
	if len(stops) <= w.ExhaustivePriorityStops {
		return bestPermutation(stops, score)
	}
	return greedyLookahead(stops, score)
}

func bestPermutation(stops []model.Stop, score func([]model.Stop) float64) []model.Stop {
	n := len(stops)
	perms := combin.Permutations(n, n)
	var best []model.Stop
	bestScore := 0.0
	order := make([]model.Stop, n)
	for _, idx := range perms {
		for i, j := range idx {
			order[i] = stops[j]
		}
		s := score(order)
		if best == nil || s < bestScore {
			best = append(best[:0], order...)
			bestScore = s
		}
	}
	return best
}

func nearestNeighbor(stops []model.Stop, m geo.Matrix, start string) []model.Stop {
	remaining := append([]model.Stop(nil), stops...)
	ordered := make([]model.Stop, 0, len(stops))
	current := start
	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := m.Dist(current, remaining[0].Platform)
		for i := 1; i < len(remaining); i++ {
			if d := m.Dist(current, remaining[i].Platform); d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		next := remaining[bestIdx]
		ordered = append(ordered, next)
		current = next.Platform
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return ordered
}

// greedyLookahead extends the sequence one stop at a time, at each step
// taking the candidate that minimizes the score of the partial sequence.
func greedyLookahead(stops []model.Stop, score func([]model.Stop) float64) []model.Stop {
	remaining := append([]model.Stop(nil), stops...)
	ordered := make([]model.Stop, 0, len(stops))
	for len(remaining) > 0 {
		bestIdx := -1
		bestScore := 0.0
		for i, cand := range remaining {
			trial := append(append([]model.Stop(nil), ordered...), cand)
			s := score(trial)
			if bestIdx < 0 || s < bestScore {
				bestIdx = i
				bestScore = s
			}
		}
		ordered = append(ordered, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return ordered
}

func pathDistance(order []model.Stop, m geo.Matrix, start string) float64 {
	total := 0.0
	current := start
	for _, s := range order {
		total += m.Dist(current, s.Platform)
		current = s.Platform
	}
	return total
}

// sequenceScore combines travel distance with soft terms: earlier arrival
// for prioritized stops and for large drops, pax-minutes onboard, radial
// backtracking toward the start, and a near-hard penalty for visiting any
// non-P1 stop while a P1 stop is still pending.
func sequenceScore(order []model.Stop, m geo.Matrix, start string, boat model.Boat, w model.Weights) float64 {
	current := start
	distTotal := 0.0
	minute := 0
	var prioScore, paxScore, comfort, backtrack, p1Penalty float64
	onboard := 0
	remainingP1 := 0
	for _, s := range order {
		onboard += s.Pax()
		if s.Priority == 1 {
			remainingP1++
		}
	}
	prevRadial := 0.0
	hasPrev := false

	for _, s := range order {
		if s.Priority != 1 && remainingP1 > 0 {
			p1Penalty += w.P1PrecedenceNM
		}
		if s.Priority == 1 {
			remainingP1--
		}

		dist := m.Dist(current, s.Platform)
		distTotal += dist

		segment := geo.TravelMinutes(dist, boat.SpeedKn)
		if boat.IsAqua() {
			segment += w.AquaApproachMin
		}
		comfort += float64(onboard * segment)
		minute += segment

		pax := s.Pax()
		paxScore += float64(minute * pax)
		prioScore += float64(minute * model.PriorityWeight(s.Priority))

		ops := pax * w.MinutesPerPax
		comfort += float64(onboard * ops)
		minute += ops
		onboard -= pax
		current = s.Platform

		radial := m.Dist(start, s.Platform)
		if hasPrev && radial < prevRadial {
			backtrack += prevRadial - radial
		}
		prevRadial = radial
		hasPrev = true
	}

	return distTotal +
		prioScore*w.PriorityTimeWeight +
		paxScore*w.PaxArrivalWeight +
		comfort*w.ComfortPaxMinWeight +
		backtrack*w.BacktrackNM +
		p1Penalty
}
