package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"qc-tracking-backend/internal/dashboard"
	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/quality"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")).Bold(true)
	rejectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func verdictStyle(v model.Verdict) string {
	if v == model.VerdictNotOK {
		return rejectStyle.Render(string(v))
	}
	return okStyle.Render(string(v))
}

func renderMaster(w io.Writer, m model.MasterData) {
	shifts := make([]string, len(m.Shifts))
	for i, s := range m.Shifts {
		shifts[i] = strconv.Itoa(s)
	}
	fmt.Fprintf(w, "groups: %s\n", strings.Join(m.Groups, ", "))
	fmt.Fprintf(w, "shifts: %s\n", strings.Join(shifts, ", "))
	fmt.Fprintf(w, "lines:  %s\n", strings.Join(m.Lines, ", "))
}

// renderTable prints records as aligned columns. The verdict is the last
// column so that colour codes do not upset the alignment.
func renderTable(w io.Writer, records []model.Measurement) {
	if len(records) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no records"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tGROUP\tSHIFT\tLINE\tSUHU\tBERAT\tKUALITAS")
	for _, m := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%d\t%.2f\t%s\n",
			m.ID, m.Date, m.Group, m.Shift, m.Line, m.Suhu, m.Berat, verdictStyle(m.Kualitas))
	}
	tw.Flush()
}

func renderSummary(w io.Writer, s quality.Summary, breakdown []quality.RatioSlice, byLine []quality.LineSummary) {
	fmt.Fprintf(w, "total %d  ok %d  reject %d  reject rate %.1f%%\n", s.Total, s.OKCount, s.RejectCount, s.RejectRatePercent)
	for _, b := range breakdown {
		fmt.Fprintf(w, "  %-6s %s %5.1f%%\n", b.Kualitas, bar(b.Percent, 30), b.Percent)
	}
	if len(byLine) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tTOTAL\tOK\tREJECT\tRATE")
	for _, l := range byLine {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f%%\n", l.Line, l.Total, l.OKCount, l.RejectCount, l.RejectRatePercent)
	}
	tw.Flush()
}

// renderChart draws suhu and berat of the chart window as horizontal bars.
func renderChart(w io.Writer, records []model.Measurement) {
	if len(records) == 0 {
		return
	}
	maxSuhu, maxBerat := 1.0, 1.0
	for _, m := range records {
		maxSuhu = max(maxSuhu, float64(m.Suhu))
		maxBerat = max(maxBerat, m.Berat)
	}
	for _, m := range records {
		fmt.Fprintf(w, "#%-4d suhu %-20s %3d  berat %-20s %6.2f\n",
			m.ID, bar(float64(m.Suhu)/maxSuhu*100, 20), m.Suhu, bar(m.Berat/maxBerat*100, 20), m.Berat)
	}
}

func renderDashboard(w io.Writer, v dashboard.View, fetchedAt time.Time) {
	fmt.Fprintln(w, titleStyle.Render("QC dashboard")+dimStyle.Render("  updated "+fetchedAt.Format(time.TimeOnly)))
	fmt.Fprintln(w)
	renderSummary(w, v.Summary, v.Breakdown, nil)
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Recent"))
	renderChart(w, v.Chart)
	fmt.Fprintln(w)
	renderTable(w, v.Page.Items)
	fmt.Fprintf(w, "page %d/%d\n", v.PageIndex, v.Page.TotalPages)
}

// bar renders percent (0-100) as a bar of at most width cells.
func bar(percent float64, width int) string {
	n := int(percent/100*float64(width) + 0.5)
	n = max(0, min(n, width))
	return strings.Repeat("█", n) + strings.Repeat("·", width-n)
}
