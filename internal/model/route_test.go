package model

import "testing"

func hubRoute() Route {
	return Route{
		Boat: Boat{Name: "NORWIND GALE", Capacity: 24},
		PreM9: []Stop{
			{Platform: "PCM-06", Kind: StopPreM9, TMIBDrop: 4},
		},
		UsesHub:  true,
		TMIBToM9: 4,
		M9Pickup: 5,
		PostM9: []Stop{
			{Platform: "PCB-01", Kind: StopPostM9, TMIBDrop: 6, M9Drop: 2},
			{Platform: "PCM-04", Kind: StopPostM9, M9Drop: 3},
		},
	}
}

func TestRouteString(t *testing.T) {
	got := hubRoute().String()
	want := "TMIB +14/M6 -4/M9 -4 +5/B1 -6 (-2)/M4 (-3)"
	if got != want {
		t.Fatalf("route string\n got: %s\nwant: %s", got, want)
	}
}

func TestRouteStringDirect(t *testing.T) {
	r := Route{
		Boat:   Boat{Name: "AQUA HELIX", Capacity: 100},
		PostM9: []Stop{{Platform: "PCM-04", TMIBDrop: 12}},
	}
	if got, want := r.String(), "TMIB +12/M4 -12"; got != want {
		t.Fatalf("direct route string = %q, want %q", got, want)
	}
}

func TestRouteLoads(t *testing.T) {
	r := hubRoute()
	if got := r.TotalTMIB(); got != 14 {
		t.Fatalf("TotalTMIB = %d", got)
	}
	if got := r.PreLoad(); got != 14 {
		t.Fatalf("PreLoad = %d", got)
	}
	// 14 boarded - 4 at M9 - 4 pre drop + 5 pickup
	if got := r.PostLoad(); got != 11 {
		t.Fatalf("PostLoad = %d", got)
	}
	if got := r.MaxLoad(); got != 14 {
		t.Fatalf("MaxLoad = %d", got)
	}
	if got := r.TotalM9Drops(); got != 5 {
		t.Fatalf("TotalM9Drops = %d", got)
	}
}

func TestRouteTouchesDistant(t *testing.T) {
	r := hubRoute()
	if r.TouchesDistant() {
		t.Fatal("hub route should not touch a distant cluster")
	}
	r.PostM9 = append(r.PostM9, Stop{Platform: "PGA-01", M9Drop: 1})
	if !r.TouchesDistant() {
		t.Fatal("PGA stop should count as distant")
	}
}

func TestParseFixedRoute(t *testing.T) {
	deliveries, order := ParseFixedRoute("TMIB +10/M6 -4/M9 -2/B1 -3 (-1)")
	if len(order) != 3 {
		t.Fatalf("order = %v", order)
	}
	if order[0] != "PCM-06" || order[1] != "PCM-09" || order[2] != "PCB-01" {
		t.Fatalf("order = %v", order)
	}
	if d := deliveries["PCM-06"]; d.TMIB != 4 || d.M9 != 0 {
		t.Fatalf("PCM-06 = %+v", d)
	}
	if d := deliveries["PCM-09"]; d.TMIB != 2 {
		t.Fatalf("PCM-09 = %+v", d)
	}
	if d := deliveries["PCB-01"]; d.TMIB != 3 || d.M9 != 1 {
		t.Fatalf("PCB-01 = %+v", d)
	}
}

func TestParseFixedRouteIgnoresUnknownTokens(t *testing.T) {
	deliveries, order := ParseFixedRoute("TMIB +8/M6 -4 xfer/M2 +3")
	if len(order) != 1 || order[0] != "PCM-06" {
		t.Fatalf("order = %v", order)
	}
	if d := deliveries["PCM-06"]; d.TMIB != 4 {
		t.Fatalf("PCM-06 = %+v", d)
	}
	if _, ok := deliveries["PCM-02"]; ok {
		t.Fatal("pickup-only stop should not record a delivery")
	}
}

func TestFixedRouteTouchesDistant(t *testing.T) {
	if FixedRouteTouchesDistant("TMIB +4/M6 -4") {
		t.Fatal("M6 is not distant")
	}
	if !FixedRouteTouchesDistant("TMIB +4/PGA1 -4") {
		t.Fatal("PGA-01 is distant")
	}
}

func TestDepartureMinutes(t *testing.T) {
	if got := (Boat{Departure: "06:30"}).DepartureMinutes(); got != 390 {
		t.Fatalf("06:30 = %d", got)
	}
	if got := (Boat{Departure: ""}).DepartureMinutes(); got != departureSentinel {
		t.Fatalf("empty departure = %d", got)
	}
	if got := (Boat{Departure: "soon"}).DepartureMinutes(); got != departureSentinel {
		t.Fatalf("malformed departure = %d", got)
	}
}

func TestBoatTypeFor(t *testing.T) {
	if BoatTypeFor("Aqua Helix") != AquaHelix {
		t.Fatal("Aqua Helix should be AQUA_HELIX")
	}
	if BoatTypeFor("Norwind Gale") != Surfer {
		t.Fatal("Norwind Gale should be SURFER")
	}
	if CapacityFor(AquaHelix) != 100 || CapacityFor(Surfer) != 24 {
		t.Fatal("capacity table mismatch")
	}
}
