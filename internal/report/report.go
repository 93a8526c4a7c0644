// Package report renders a plan in the fixed text layout the operations
// team distributes by radio and e-mail.
package report

import (
	"fmt"
	"strings"

	"paxplan/internal/model"
)

const ruleWidth = 70

// RenderText produces the daily distribution sheet. Entries are already
// in departure order; the layout is stable so diffs between days stay
// readable.
func RenderText(p model.Plan) string {
	var b strings.Builder
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	b.WriteString("DISTRIBUICAO DE PAX\n")
	b.WriteString(heavy + "\n")
	if p.CrewChange {
		fmt.Fprintf(&b, "Troca de turma: SIM | Rendidos em M9: %d\n", p.CrewM9)
		b.WriteString(light + "\n")
	}

	nameW := 0
	for _, e := range p.Entries {
		if len(e.Boat.Name) > nameW {
			nameW = len(e.Boat.Name)
		}
	}
	for _, e := range p.Entries {
		dep := e.Boat.Departure
		if dep == "" {
			dep = "--:--"
		}
		fmt.Fprintf(&b, "%-*s  %5s  %s\n", nameW, e.Boat.Name, dep, e.RouteString)
	}

	b.WriteString(light + "\n")
	total := p.TMIBServed + p.M9Served
	fmt.Fprintf(&b, "Resumo: %d pax TMIB + %d pax M9 = %d pax total\n", p.TMIBServed, p.M9Served, total)
	fmt.Fprintf(&b, "Barcos utilizados: %d\n", len(p.Entries))
	if p.FreeDistanceNM > 0 {
		fmt.Fprintf(&b, "Distancia planejada: %.1f mn\n", p.FreeDistanceNM)
	}
	b.WriteString(heavy + "\n")

	for _, w := range p.Warnings {
		b.WriteString(w + "\n")
	}
	return b.String()
}
