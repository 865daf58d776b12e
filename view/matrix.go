// Package view renders relaxation grids and run progress for a terminal.
package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"uk.ac.bris.cs/relaxation/relax"
)

// MaxMatrixSize is the largest grid Matrix prints cell by cell.
const MaxMatrixSize = 16

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	boundaryBox = lipgloss.NewStyle().Underline(true)
)

// HeatRGB maps v, clamped to [0, 1], from blue (0) to red (1).
func HeatRGB(v float64) (r, g, b uint8) {
	v = math.Max(0, math.Min(1, v))
	r = uint8(math.Round(255 * v))
	return r, 0x40, 255 - r
}

// Heat is HeatRGB as a terminal colour.
func Heat(v float64) lipgloss.Color {
	r, g, b := HeatRGB(v)
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}

// Matrix renders every cell of g coloured by value, boundary cells
// underlined. Grids larger than MaxMatrixSize are summarised instead.
func Matrix(g *relax.Grid) string {
	if g == nil {
		return ""
	}
	if g.Size > MaxMatrixSize {
		return labelStyle.Render(fmt.Sprintf("%d×%d grid, too large to print", g.Size, g.Size))
	}
	var b strings.Builder
	for row := 0; row < g.Size; row++ {
		cells := make([]string, g.Size)
		for col := 0; col < g.Size; col++ {
			v := g.At(row, col)
			style := lipgloss.NewStyle().Foreground(Heat(v))
			if g.IsBoundary(row, col) {
				style = style.Inherit(boundaryBox)
			}
			cells[col] = style.Render(fmt.Sprintf("%.6f", v))
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary describes a finished run.
func Summary(mode string, p relax.Params, res *relax.Result) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Relaxation (%s)", mode)),
		field("size", fmt.Sprintf("%d×%d", p.Size, p.Size)),
		field("precision", fmt.Sprintf("%g", p.Precision)),
		field("boundary", p.Boundary.String()),
		field("fill", p.Fill.String()),
		field("workers", fmt.Sprintf("%d of %d requested", res.Workers, p.Threads)),
		field("iterations", fmt.Sprintf("%d", res.Iterations)),
		field("elapsed", res.Elapsed.String()),
	}
	return strings.Join(lines, "\n") + "\n"
}

// Verification reports how far a relaxed grid is from the exact solution.
func Verification(diff, precision float64) string {
	verdict := okStyle.Render("within precision")
	if diff > precision {
		verdict = failStyle.Render("outside precision")
	}
	return field("exact error", fmt.Sprintf("%.3g ", diff)) + verdict + "\n"
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value)
}
