package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"rtsi-fw/internal/types"
)

var (
	headingColor = color.New(color.Bold)
	okColor      = color.New(color.FgGreen)
	skipColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
)

func printPhaseSummary(result types.PhaseResult) {
	writePhaseSummary(os.Stdout, result)
}

func writePhaseSummary(w io.Writer, result types.PhaseResult) {
	if result.Phase == "" {
		return
	}
	_, _ = headingColor.Fprintf(w, "%s\n", result.Phase)
	for _, category := range result.Categories {
		_, _ = fmt.Fprintf(w, "  %-10s %s %s %s\n",
			category.Name,
			okColor.Sprintf("ok=%d", len(category.Succeeded)),
			skipColor.Sprintf("skipped=%d", len(category.Skipped)),
			failColor.Sprintf("failed=%d", len(category.Failed)),
		)
		for _, outcome := range category.Failed {
			_, _ = fmt.Fprintf(w, "    %s %s\n", failColor.Sprint(outcome.Item), firstLine(outcome.Detail))
		}
	}
}

func printProcesses(handles []types.ProcessHandle) {
	for _, handle := range handles {
		fmt.Printf("%s pid=%d\n", handle.Label, handle.PID)
	}
}

func firstLine(value string) string {
	if idx := strings.IndexByte(value, '\n'); idx != -1 {
		return value[:idx]
	}
	return value
}
