// Package output renders command results on the console.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/wesleyorama2/perfdata/internal/artifact"
	"github.com/wesleyorama2/perfdata/internal/sizes"
	"github.com/wesleyorama2/perfdata/internal/worker"
)

// Printer writes human readable results.
type Printer struct {
	w       io.Writer
	noColor bool
	scheme  *ColorScheme
}

// NewPrinter returns a Printer for w. Colors are used only when w is a
// terminal, noColor is false and NO_COLOR is unset.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	noColor = noColor || colorsDisabled() || !IsTerminal(w)
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Printer{w: w, noColor: noColor, scheme: scheme}
}

// Artifact reports a stored artifact.
func (p *Printer) Artifact(what string, h artifact.Handle) {
	fmt.Fprintf(p.w, "%s %s created: %s (%s bytes)\n",
		SuccessIcon(p.noColor), what, p.scheme.Highlight.Sprint(h.Location), formatNumber(h.Size))
}

// Success prints a confirmation line.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", SuccessIcon(p.noColor), p.scheme.Success.Sprint(msg))
}

// Warning prints a warning line.
func (p *Printer) Warning(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", WarningIcon(p.noColor), p.scheme.Warn.Sprint(msg))
}

// Problems prints one line per field, sorted by field name.
func (p *Printer) Problems(fields map[string]error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(p.w, "%s %s: %s\n", ErrorIcon(p.noColor), p.scheme.Label.Sprint(k), p.scheme.Error.Sprint(fields[k]))
	}
}

// SiteSummary prints the outcome of a site build.
func (p *Printer) SiteSummary(sizeLabel string, res worker.SiteResult) {
	fmt.Fprintln(p.w, p.scheme.Title.Sprintf("Site %s", sizeLabel))
	fmt.Fprintln(p.w, strings.Repeat("━", 40))

	p.row("Courses created", formatNumber(int64(len(res.Shortnames))))
	if res.LastShortname != "" {
		p.row("Last course", fmt.Sprintf("%s (id %d)", res.LastShortname, res.LastCourseID))
	}

	t := res.Timings
	if t.Count == 0 {
		return
	}
	p.row("Workers", fmt.Sprintf("%s ok, %s failed", formatNumber(t.Succeeded), formatNumber(t.Failed)))
	p.row("Duration", fmt.Sprintf("min %s  avg %s  p50 %s  p95 %s  max %s",
		formatDuration(t.Min), formatDuration(t.Mean), formatDuration(t.P50), formatDuration(t.P95), formatDuration(t.Max)))
}

func (p *Printer) row(label, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.scheme.Label.Sprintf("%-16s", label+":"), p.scheme.Value.Sprint(value))
}

// SizeTable prints every tier with its scale.
func (p *Printer) SizeTable(table *sizes.Table, labels sizes.Labels) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SIZE\tUSERS\tLOOPS\tRAMPUP\tCOURSES\t")
	for _, tier := range sizes.Tiers() {
		scale, err := table.ScaleFor(tier)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%ds\t%s\t\n",
			labels.ShortSize(tier), formatNumber(int64(scale.Users)), scale.Loops, scale.RampUp,
			formatNumber(int64(scale.TotalCourses())))
	}
	return tw.Flush()
}
