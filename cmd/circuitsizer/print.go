package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/piwi3910/CircuitSizer/internal/engine"
	"github.com/piwi3910/CircuitSizer/internal/export"
	"github.com/piwi3910/CircuitSizer/internal/model"
	"github.com/piwi3910/CircuitSizer/internal/repository"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printRooms(w io.Writer, rooms []model.Room) {
	if len(rooms) == 0 {
		fmt.Fprintln(w, "No rooms")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tRoom\tWidth (m)\tLength (m)\tArea (m²)\tLighting V\tOutlet V\tAppliance")
	for i, r := range rooms {
		device := "-"
		if r.Device != nil {
			device = fmt.Sprintf("%s @ %d V", r.Device.Label(), r.Device.Voltage)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%d\t%d\t%s\n",
			i+1, r.Name, r.Width, r.Length, r.Area(), r.LightingVoltage, r.OutletVoltage, device)
	}
	tw.Flush()
}

func printHistory(w io.Writer, canUndo, canRedo bool) {
	switch {
	case canUndo && canRedo:
		fmt.Fprintln(w, "\nroom undo and room redo available")
	case canUndo:
		fmt.Fprintln(w, "\nroom undo available")
	case canRedo:
		fmt.Fprintln(w, "\nroom redo available")
	}
}

func printSchedule(w io.Writer, sched model.Schedule) {
	s := sched.Settings
	fmt.Fprintf(w, "Settings: %d°C, %s, method %s, grouping %d lighting / %d outlets\n\n",
		s.AmbientTempC, s.Insulation, s.Method, s.LightingGrouping, s.OutletGrouping)

	if len(sched.Circuits) == 0 {
		fmt.Fprintln(w, "No circuits: the room list is empty")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tCircuit\tV\tLoad\tIb (A)\tFCT\tFCA\tSection\tIz (A)\tBreaker\tStatus")
	for _, c := range sched.Circuits {
		iz := "-"
		if c.HasSection() {
			iz = fmt.Sprintf("%.1f", c.CorrectedAmpacity)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.0f\t%.2f\t%.2f\t%.2f\t%s\t%s\t%s\t%s\n",
			c.Index, c.Label, c.Voltage, c.TotalLoad, c.DesignCurrent, c.FCT, c.FCA,
			export.SectionText(c), iz, export.BreakerText(c), c.Status)
	}
	tw.Flush()

	t := sched.Totals
	fmt.Fprintf(w, "\nTotals: lighting %.0f VA, outlets %.0f VA, appliances %.0f W\n",
		t.LightingVA, t.OutletVA, t.SpecificLoadW)

	for _, c := range sched.Circuits {
		if c.Status == model.StatusOK {
			continue
		}
		reason := string(c.Fault)
		if reason == "" {
			reason = "review conductor and breaker"
		}
		fmt.Fprintf(w, "warning: circuit %d (%s) %s: %s\n", c.Index, c.Label, c.Status, reason)
	}
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	tw := newTable(w)
	fmt.Fprintln(tw, "Scenario\tCircuits\tOK\tAdjust\tError\tLargest (mm²)\tCopper index (mm²)")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f\t%.1f\n",
			r.Scenario.Name, r.Circuits, r.OKCount, r.AdjustCount, r.ErrorCount, r.LargestSection, r.CopperIndex)
	}
	tw.Flush()
}

func printTemplates(w io.Writer, store model.TemplateStore) {
	if len(store.Templates) == 0 {
		fmt.Fprintln(w, "No templates")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Name\tRooms\tDescription\tUpdated")
	for _, t := range store.Templates {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", t.Name, len(t.Rooms), t.Description, t.UpdatedAt)
	}
	tw.Flush()
}

func printArchive(w io.Writer, list []repository.ScheduleSummary) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No archived schedules")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tProject\tCreated\tCircuits\tFailing")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			s.ID, s.ProjectName, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Circuits, s.Failing)
	}
	tw.Flush()
}
