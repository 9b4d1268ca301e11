package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/venueops/registerwatch/internal/model"
	"github.com/venueops/registerwatch/internal/pipeline"
	"github.com/venueops/registerwatch/internal/presence"
)

// Formatter renders analysis results for terminal display.
type Formatter struct {
	styles *Styles
}

// NewFormatter creates a formatter with default styles.
func NewFormatter() *Formatter {
	return &Formatter{styles: NewStyles()}
}

const breakdownBarWidth = 40

// FormatBreakdown renders one store day's bucket totals as a bar chart
// colored by activity level, with the day's cutoffs underneath.
func (f *Formatter) FormatBreakdown(summary *pipeline.DaySummary, buckets []model.BucketActivity) string {
	var b strings.Builder

	title := fmt.Sprintf("Store Activity  %d | Day %d | %s | %d registers",
		summary.Year, summary.DayIndex, summary.Store, summary.Registers)
	b.WriteString(f.styles.Title.Render(title))
	b.WriteString("\n")

	maxTotal := 0
	for _, bucket := range buckets {
		if bucket.BucketTotal > maxTotal {
			maxTotal = bucket.BucketTotal
		}
	}

	for _, bucket := range buckets {
		width := 0
		if maxTotal > 0 {
			width = bucket.BucketTotal * breakdownBarWidth / maxTotal
		}
		bar := strings.Repeat("█", width)
		line := fmt.Sprintf("%5s  %s %d",
			formatBucket(bucket.TimeBucket),
			f.styles.levelStyle(bucket.Level).Render(bar),
			bucket.BucketTotal)
		b.WriteString(line)
		b.WriteString("\n")
	}

	stats := fmt.Sprintf("mean %.1f | std %.1f | low cutoff %.1f | high cutoff %.1f | daily total %d",
		summary.Stats.Mean, summary.Stats.Std,
		summary.Stats.CutoffLow, summary.Stats.CutoffHigh,
		summary.DailyTotal)
	b.WriteString(f.styles.Subtle.Render(stats))
	b.WriteString("\n")

	return b.String()
}

// FormatRegisterTable renders one store day as a register-by-bucket grid.
// Unmanned cells are marked with an X; frictionless registers are labeled.
func (f *Formatter) FormatRegisterTable(summary *pipeline.DaySummary, periods []model.RegisterPeriod) string {
	var b strings.Builder

	title := fmt.Sprintf("Register Activity  %d | Day %d | %s",
		summary.Year, summary.DayIndex, summary.Store)
	b.WriteString(f.styles.Title.Render(title))
	b.WriteString("\n")

	buckets := distinctBuckets(periods)
	byRegister := make(map[string]map[float64]model.RegisterPeriod)
	for _, p := range periods {
		if byRegister[p.RegisterID] == nil {
			byRegister[p.RegisterID] = make(map[float64]model.RegisterPeriod)
		}
		byRegister[p.RegisterID][p.TimeBucket] = p
	}

	header := fmt.Sprintf("%-14s", "register")
	for _, bucket := range buckets {
		header += fmt.Sprintf("%6s", formatBucket(bucket))
	}
	b.WriteString(f.styles.Header.Render(header))
	b.WriteString("\n")

	registers := make([]string, 0, len(byRegister))
	for id := range byRegister {
		registers = append(registers, id)
	}
	sort.Strings(registers)

	for _, id := range registers {
		label := id
		if len(byRegister[id]) > 0 {
			for _, p := range byRegister[id] {
				if p.DeviceType == model.DeviceFrictionless {
					label += " (f)"
				}
				break
			}
		}
		row := fmt.Sprintf("%-14s", label)
		for _, bucket := range buckets {
			p, ok := byRegister[id][bucket]
			if !ok {
				row += fmt.Sprintf("%6s", "-")
				continue
			}
			cell := fmt.Sprintf("%6d", p.InvoiceCount)
			if p.Status == model.StatusUnmanned {
				cell = f.styles.Unmanned.Render(fmt.Sprintf("%6s", "X"))
			}
			row += cell
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatDaySummary renders the drill-down statistics block.
func (f *Formatter) FormatDaySummary(s *pipeline.DaySummary) string {
	var b strings.Builder

	b.WriteString(f.styles.Title.Render("Day Summary"))
	b.WriteString("\n")

	lines := []string{
		fmt.Sprintf("Registers: %d", s.Registers),
		fmt.Sprintf("Total transactions: %d", s.DailyTotal),
		fmt.Sprintf("Avg transactions per period: %.2f", s.Stats.Mean),
		fmt.Sprintf("Std of transactions per period: %.2f", s.Stats.Std),
		fmt.Sprintf("High-activity cutoff: %.2f", s.Stats.CutoffHigh),
		fmt.Sprintf("Low-activity cutoff: %.2f", s.Stats.CutoffLow),
		"",
		fmt.Sprintf("Avg daily transactions per register: %.2f", s.AvgRegisterDailyTotal),
		fmt.Sprintf("Avg transactions per period per register: %.2f", s.AvgRegisterPerBucket),
		fmt.Sprintf("Avg transactions per manned period per register: %.2f", s.AvgRegisterPerMannedBucket),
		fmt.Sprintf("Avg transactions per register in high periods: %.2f", s.AvgPerRegisterHighBuckets),
		fmt.Sprintf("Avg transactions per manned register in high periods: %.2f", s.AvgPerMannedRegisterHighBuckets),
		"",
		fmt.Sprintf("Unmanned periods: %d", s.UnmannedPeriods),
		fmt.Sprintf("Avg unmanned periods per register: %.2f", s.AvgUnmannedPerRegister),
		fmt.Sprintf("Pct of periods unmanned per register: %.1f%%", s.PctPeriodsUnmanned),
		fmt.Sprintf("Std of unmanned periods across registers: %.2f", s.StdUnmannedAcrossRegisters),
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	b.WriteString(f.styles.Subtitle.Render("Per register"))
	b.WriteString("\n")
	b.WriteString(f.styles.Header.Render(fmt.Sprintf("%-14s%10s%10s%12s%14s",
		"register", "total", "unmanned", "per period", "per manned")))
	b.WriteString("\n")
	for _, reg := range s.PerRegister {
		label := reg.RegisterID
		if reg.DeviceType == model.DeviceFrictionless {
			label += " (f)"
		}
		b.WriteString(fmt.Sprintf("%-14s%10d%10d%12.2f%14.2f\n",
			label, reg.DailyTotal, reg.UnmannedPeriods, reg.PerBucketAvg, reg.PerMannedBucketAvg))
	}

	return b.String()
}

// FormatPresence renders one store's presence matrix: rows are time
// buckets, columns are day indexes, cells show unmanned-years over
// high-years. Cells never classified High in any selected year are masked.
func (f *Formatter) FormatPresence(m *presence.Matrix) string {
	var b strings.Builder

	title := fmt.Sprintf("Years with an Unmanned Register  %s  (years: %s)",
		m.Store, joinInts(m.Years))
	b.WriteString(f.styles.Title.Render(title))
	b.WriteString("\n")

	days := m.Days()
	buckets := m.Buckets()

	header := fmt.Sprintf("%-7s", "")
	for _, day := range days {
		header += fmt.Sprintf("%8d", day)
	}
	b.WriteString(f.styles.Header.Render(header))
	b.WriteString("\n")

	for _, bucket := range buckets {
		row := fmt.Sprintf("%-7s", formatBucket(bucket))
		for _, day := range days {
			cell, ok := m.Cells[presence.SlotKey{DayIndex: day, TimeBucket: bucket}]
			switch {
			case !ok:
				row += fmt.Sprintf("%8s", "")
			case cell.NoHighActivity():
				row += f.styles.Masked.Render(fmt.Sprintf("%8s", "·"))
			default:
				ratio := fmt.Sprintf("%8s", fmt.Sprintf("%d/%d", cell.UnmannedYears, cell.HighYears))
				if cell.UnmannedYears > 0 {
					ratio = f.styles.Unmanned.Render(ratio)
				}
				row += ratio
			}
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatNoData renders the user-visible empty state.
func (f *Formatter) FormatNoData() string {
	return f.styles.Error.Render("There is no data on the filters selected")
}

func formatBucket(bucket float64) string {
	hour := int(bucket)
	minute := "00"
	if bucket != float64(hour) {
		minute = "30"
	}
	return fmt.Sprintf("%d:%s", hour, minute)
}

func distinctBuckets(periods []model.RegisterPeriod) []float64 {
	seen := make(map[float64]bool)
	for _, p := range periods {
		seen[p.TimeBucket] = true
	}
	out := make([]float64, 0, len(seen))
	for bucket := range seen {
		out = append(out, bucket)
	}
	sort.Float64s(out)
	return out
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
