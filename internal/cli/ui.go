package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/pipeline"
)

// stdout receives every status line. Tests swap it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // active tab sets, primary actions
	colorGreen  = lipgloss.Color("35")  // selected tabs, success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands and links
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // splitters, secondary text
	colorDim    = lipgloss.Color("240") // hidden nodes, muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for drop locations and other keywords.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for node ids, paths and other data.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// frameStyle colors a frame by its state: hidden nodes are dim, splitters
// gray, the active or maximized tab set cyan and selected tabs green.
func frameStyle(f model.Frame) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch {
	case !f.Visible:
		return s.Foreground(colorDim)
	case f.Type == "splitter":
		return s.Foreground(colorGray)
	case f.Active || f.Maximized:
		return s.Foreground(colorCyan)
	case f.Selected:
		return s.Foreground(colorGreen)
	}
	return s.Foreground(colorWhite)
}

// =============================================================================
// Status Lines
// =============================================================================

type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = map[statusKind]string{
	statusSuccess: lipgloss.NewStyle().Foreground(colorGreen).Render("✓"),
	statusError:   lipgloss.NewStyle().Foreground(colorRed).Render("✗"),
	statusWarning: lipgloss.NewStyle().Foreground(colorYellow).Render("!"),
	statusInfo:    lipgloss.NewStyle().Foreground(colorGray).Render("›"),
}

func printStatus(kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarning {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(stdout, statusIcons[kind]+" "+msg)
}

func printSuccess(format string, args ...any) { printStatus(statusSuccess, format, args...) }
func printError(format string, args ...any)   { printStatus(statusError, format, args...) }
func printWarning(format string, args ...any) { printStatus(statusWarning, format, args...) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Layout Summaries
// =============================================================================

// printStats prints "N nodes · M frames · cached|fresh".
func printStats(nodes, frames int, cached bool) {
	var parts []string
	if nodes > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", nodes))
	}
	if frames > 0 {
		parts = append(parts, fmt.Sprintf("%d frames", frames))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render("fresh"))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printOutcome reports a drop, or the drop that would happen.
func printOutcome(out pipeline.DropOutcome, dropped bool) {
	if out.Target == "" {
		printInfo("No drop target")
		return
	}
	verb := "Would drop"
	if dropped {
		verb = "Dropped"
	}
	msg := fmt.Sprintf("%s %s of %s", verb, StyleHighlight.Render(out.Location), StyleValue.Render(out.Target))
	if out.Index >= 0 {
		msg += fmt.Sprintf(" at tab %d", out.Index)
	}
	printSuccess("%s", msg)
	printDetail("outline %v", out.Outline)
}
