package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/pkg/scoring"
)

// TerminalRenderer renders results as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
)

func verdictColor(flagged bool) string {
	if noColor() {
		return ""
	}
	if flagged {
		return colorRed
	}
	return colorGreen
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func verdict(flagged bool) string {
	if flagged {
		return "FLAGGED"
	}
	return "CLEAN"
}

func (r *TerminalRenderer) Render(w io.Writer, report *scoring.ScoreReport) error {
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("Authenticity: %s — Score %d (threshold %d)",
			colored(verdict(report.Flagged), verdictColor(report.Flagged)), report.Score, report.Threshold)))

	hasSignals := false
	for _, sr := range report.Breakdown {
		if !sr.Triggered {
			continue
		}
		if !hasSignals {
			fmt.Fprintln(w, "Signals:")
			hasSignals = true
		}
		fmt.Fprintf(w, "  (+%d) %s — %s\n", sr.Weight, bold(sr.Name), sr.Reason)
		fmt.Fprintf(w, "        %s\n", dim(fmt.Sprintf("%s = %s", sr.Key, formatValue(sr))))
	}

	if !hasSignals {
		fmt.Fprintln(w, "No signals triggered.")
	}
	fmt.Fprintln(w)
	return nil
}

func (r *TerminalRenderer) RenderForm(w io.Writer, state *gate.FormGateState) error {
	status := "SUBMISSION ALLOWED"
	if state.AnyFlagged {
		status = fmt.Sprintf("SUBMISSION BLOCKED (%d flagged)", len(state.Report))
	}
	fmt.Fprintf(w, "%s\n\n", bold("Form: "+colored(status, verdictColor(state.AnyFlagged))))

	width := 0
	for _, fs := range state.Fields {
		if n := len([]rune(fieldName(fs))); n > width {
			width = n
		}
	}
	for _, fs := range state.Fields {
		marker := colored("✓", verdictColor(false))
		if fs.Flagged {
			marker = colored("●", verdictColor(true))
		}
		name := fieldName(fs)
		pad := strings.Repeat(" ", width-len([]rune(name)))
		fmt.Fprintf(w, "  %s %s%s  %s\n", marker, name, pad, dim(fmt.Sprintf("score %d", fs.Score)))
	}

	if len(state.Report) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warning:")
		for _, line := range state.Report {
			fmt.Fprintf(w, "  • %s\n", line)
		}
	}
	fmt.Fprintln(w)
	return nil
}

func fieldName(fs gate.FieldState) string {
	if fs.Label != "" {
		return fs.Label
	}
	return fs.FieldID
}

func formatValue(sr scoring.SignalResult) string {
	switch sr.Kind {
	case scoring.KindRatioThreshold, scoring.KindUniformityThreshold:
		return fmt.Sprintf("%.2f", sr.Value)
	default:
		return fmt.Sprintf("%.0f", sr.Value)
	}
}
