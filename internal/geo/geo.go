package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cluster is a geographic grouping of platforms in the Sergipe Basin.
type Cluster string

const (
	ClusterM6Area   Cluster = "M6_AREA"
	ClusterB        Cluster = "B_CLUSTER"
	ClusterM2M3     Cluster = "M2M3"
	ClusterM9Near   Cluster = "M9_NEAR"
	ClusterM1M7     Cluster = "M1M7"
	ClusterPDO      Cluster = "PDO"
	ClusterPGA      Cluster = "PGA"
	ClusterPRB      Cluster = "PRB"
	ClusterOther    Cluster = "OTHER"
)

// Terminal is the onshore origin of every route; Hub is the platform where
// TMIB-pool pax are exchanged for M9-pool pax.
const (
	Terminal = "TMIB"
	Hub      = "PCM-09"
)

var clusterMembers = map[Cluster][]string{
	ClusterM6Area: {"PCM-06", "PCM-08"},
	ClusterB:      {"PCB-01", "PCB-02", "PCB-03", "PCB-04"},
	ClusterM2M3:   {"PCM-02", "PCM-03"},
	ClusterM9Near: {"PCM-04", "PCM-05", "PCM-09", "PCM-10", "PCM-11"},
	ClusterM1M7:   {"PCM-01", "PCM-07"},
	ClusterPDO:    {"PDO-01", "PDO-02", "PDO-03"},
	ClusterPGA:    {"PGA-01", "PGA-02", "PGA-03", "PGA-04", "PGA-05", "PGA-06", "PGA-07", "PGA-08"},
	ClusterPRB:    {"PRB-01"},
}

var clusterOf = func() map[string]Cluster {
	m := map[string]Cluster{}
	for c, plats := range clusterMembers {
		for _, p := range plats {
			m[p] = c
		}
	}
	return m
}()

// ClusterOf returns the cluster for a normalized platform name, or
// ClusterOther when the platform is not in the table.
func ClusterOf(platform string) Cluster {
	if c, ok := clusterOf[platform]; ok {
		return c
	}
	return ClusterOther
}

// Distant reports whether a cluster is geographically isolated from the hub
// neighborhood (a boat serving it does not come back for a second pass).
func Distant(c Cluster) bool {
	return c == ClusterPDO || c == ClusterPGA || c == ClusterPRB
}

// compatiblePairs lists cluster pairs that may share a route leg. The
// relation is symmetric; same-cluster pairs are implicitly compatible.
var compatiblePairs = [][2]Cluster{
	{ClusterM6Area, ClusterB},
	{ClusterM6Area, ClusterM1M7},
	{ClusterM9Near, ClusterM2M3},
	{ClusterM2M3, ClusterM1M7},
	{ClusterM2M3, ClusterM6Area},
	{ClusterM2M3, ClusterB},
	{ClusterB, ClusterM1M7},
	{ClusterPDO, ClusterPGA},
}

// Compatible reports whether two clusters may be combined on one route.
func Compatible(a, b Cluster) bool {
	if a == b {
		return true
	}
	for _, p := range compatiblePairs {
		if (a == p[0] && b == p[1]) || (a == p[1] && b == p[0]) {
			return true
		}
	}
	return false
}

// MandatoryPairs are platform pairs that must be served by the same boat
// whenever both sides have demand and the pair fits on one boat.
var MandatoryPairs = [][2]string{
	{"PCM-02", "PCM-03"},
	{"PCM-06", "PCB-01"},
}

var (
	canonicalRe = regexp.MustCompile(`^(PCM|PCB|PGA|PRB|PDO)-\d{2}$`)
	prefixedRe  = regexp.MustCompile(`^(PCM|PCB|PGA|PRB|PDO)-?(\d+)$`)
	shortMRe    = regexp.MustCompile(`^M(\d+)$`)
	shortBRe    = regexp.MustCompile(`^B(\d+)$`)
)

// Normalize converts any accepted spelling of a platform name to its
// canonical form (M9 -> PCM-09, B1 -> PCB-01, PGA2 -> PGA-02).
// Unrecognized names pass through upper-cased so callers can report them.
func Normalize(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == Terminal {
		return c
	}
	if m := prefixedRe.FindStringSubmatch(c); m != nil {
		n, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d", m[1], n)
	}
	if m := shortMRe.FindStringSubmatch(c); m != nil {
		n, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("PCM-%02d", n)
	}
	if m := shortBRe.FindStringSubmatch(c); m != nil {
		n, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("PCB-%02d", n)
	}
	return c
}

// Short converts a canonical platform name to the display form used in
// route strings (PCM-09 -> M9, PCB-01 -> B1).
func Short(norm string) string {
	n := strings.ToUpper(strings.TrimSpace(norm))
	if n == Terminal {
		return n
	}
	num := func(s string) int {
		v, _ := strconv.Atoi(s[strings.IndexByte(s, '-')+1:])
		return v
	}
	switch {
	case strings.HasPrefix(n, "PCM-") && canonicalRe.MatchString(n):
		return fmt.Sprintf("M%d", num(n))
	case strings.HasPrefix(n, "PCB-") && canonicalRe.MatchString(n):
		return fmt.Sprintf("B%d", num(n))
	case strings.HasPrefix(n, "PGA-") && canonicalRe.MatchString(n):
		return fmt.Sprintf("PGA%d", num(n))
	case strings.HasPrefix(n, "PDO-") && canonicalRe.MatchString(n):
		return fmt.Sprintf("PDO%d", num(n))
	case strings.HasPrefix(n, "PRB-") && canonicalRe.MatchString(n):
		return fmt.Sprintf("PRB%d", num(n))
	}
	return n
}
