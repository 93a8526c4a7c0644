package model

import (
	"regexp"
	"strconv"
	"strings"

	"paxplan/internal/geo"
)

// Delivered is the pax a fixed route implies for one platform, split by
// origin pool.
type Delivered struct {
	TMIB int
	M9   int
}

var (
	tmibDropRe = regexp.MustCompile(`^-(\d+)$`)
	m9DropRe   = regexp.MustCompile(`^\(-(\d+)\)$`)
)

// ParseFixedRoute extracts per-platform deliveries from an
// operator-supplied route string. Only "X -N" (TMIB pool) and "X (-N)"
// (M9 pool) are recognized; transshipment notation is ignored, nothing is
// fabricated. The returned order slice preserves first appearance for
// deterministic reporting.
func ParseFixedRoute(routeStr string) (map[string]Delivered, []string) {
	deliveries := map[string]Delivered{}
	order := []string{}
	for _, part := range strings.Split(routeStr, "/") {
		tokens := strings.Fields(strings.TrimSpace(part))
		if len(tokens) == 0 {
			continue
		}
		plat := geo.Normalize(tokens[0])
		if plat == geo.Terminal {
			continue
		}
		d := deliveries[plat]
		had := d.TMIB > 0 || d.M9 > 0
		for _, tok := range tokens[1:] {
			if m := m9DropRe.FindStringSubmatch(tok); m != nil {
				n, _ := strconv.Atoi(m[1])
				d.M9 += n
			} else if m := tmibDropRe.FindStringSubmatch(tok); m != nil {
				n, _ := strconv.Atoi(m[1])
				d.TMIB += n
			}
		}
		if d.TMIB > 0 || d.M9 > 0 {
			if !had {
				if _, seen := deliveries[plat]; !seen {
					order = append(order, plat)
				}
			}
			deliveries[plat] = d
		}
	}
	return deliveries, order
}

// FixedRouteTouchesDistant reports whether a fixed route delivers to any
// distant-cluster platform; such routes consume the distant-boat budget.
func FixedRouteTouchesDistant(routeStr string) bool {
	deliveries, _ := ParseFixedRoute(routeStr)
	for plat := range deliveries {
		if geo.Distant(geo.ClusterOf(plat)) {
			return true
		}
	}
	return false
}
