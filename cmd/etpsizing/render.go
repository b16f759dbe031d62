package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pumped-fn/etp-sizing/pkg/model"
	"github.com/pumped-fn/etp-sizing/pkg/snapshot"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func section(w io.Writer, title string, t fmt.Stringer) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, t.String())
}

func renderSnapshot(w io.Writer, snap model.Snapshot) {
	fmt.Fprintf(w, "session %s  version %d  industry %s\n", snap.SessionID, snap.Version, snap.Client.Industry)

	params := newTable("Parameter", "Unit", "Inlet", "Anaerobic feed")
	for i, p := range snap.Inlet {
		params.Row(p.Name, p.Unit, p.Value, snap.Anaerobic[i].Value)
	}
	section(w, "Water quality", params)

	equipment := newTable("Equipment", "Required", "Supply", "Sizing")
	for _, spec := range snap.Equipment {
		equipment.Row(spec.Name, yesNo(spec.Required), string(spec.Supply), summarise(spec.Calculated))
	}
	section(w, "Equipment", equipment)

	dosing := newTable("Dosing system", "Required", "Demand", "Pump", "Tank (l)", "Agitator (kW)")
	for _, d := range snap.Dosing {
		agitator := "-"
		if d.Agitator != nil {
			agitator = d.Agitator.Capacity
		}
		dosing.Row(d.Name, yesNo(d.Required), d.DemandKgPerDay,
			d.Pump.Capacity+" l/h @ "+d.Pump.Power+" kW", d.Tank.Capacity, agitator)
	}
	section(w, "Chemical dosing", dosing)

	s := snap.Sludge
	sludge := newTable("Source", "Enabled", "Volume (m3/day)", "Consistency (%)")
	for _, src := range []struct {
		name string
		model.SludgeSource
	}{{"Primary", s.Primary}, {"DAF", s.DAF}, {"Secondary", s.Secondary}} {
		sludge.Row(src.name, yesNo(src.Enabled), src.Volume, src.Consistency)
	}
	sludge.Row("Total", "", s.TotalSludge, s.FinalConsistency)
	section(w, "Sludge", sludge)

	power := newTable("Consumer", "kW")
	for _, item := range snap.Power.Items {
		power.Row(item.Name, item.KW)
	}
	power.Row("Total", snap.Power.TotalKW)
	section(w, "Running power", power)

	treated := newTable("sCOD", "tCOD", "BOD", "TSS")
	treated.Row(snap.Treated.SCOD, snap.Treated.TCOD, snap.Treated.BOD, snap.Treated.TSS)
	section(w, "Treated water (mg/l)", treated)

	if len(snap.Issues) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Check"))
		for _, issue := range snap.Issues {
			subject := issue.Subject
			if issue.Field != "" {
				subject += "." + issue.Field
			}
			fmt.Fprintln(w, warnStyle.Render("! "+subject+": "+issue.Message))
		}
	}
}

func renderValues(w io.Writer, group string, values map[string]string) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	t := newTable("Field", "Value")
	for _, k := range keys {
		t.Row(k, values[k])
	}
	section(w, group, t)
}

func renderHistory(w io.Writer, entries []snapshot.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no snapshots stored"))
		return
	}
	t := newTable("Session", "Version", "Taken")
	for _, e := range entries {
		t.Row(e.SessionID, strconv.FormatUint(e.Version, 10), e.TakenAt.Local().Format(time.DateTime))
	}
	fmt.Fprintln(w, t.String())
}

// summarise joins the calculated fields of an item in key order.
func summarise(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "\n"
		}
		out += k + " " + fields[k]
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
