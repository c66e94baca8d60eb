package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"todo-list/internal/domain"
)

// printTasks writes a task table with a humanized age column
func printTasks(w io.Writer, tasks []domain.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found")
		return err
	}

	now := timeNow()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTASK\tSTATUS\tAGE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			t.ID,
			t.CreatedAt,
			t.Name,
			statusLabel(t.Status),
			humanize.RelTime(t.Created(), now, "ago", "from now"),
		)
	}
	return tw.Flush()
}

// statusLabel renders a finished task as Done, like the completion column
func statusLabel(s domain.Status) string {
	if s == domain.StatusComplete {
		return "Done"
	}
	return s.String()
}

// colorize wraps text in a 24-bit ANSI foreground color given as #rrggbb.
// Anything else returns text unchanged.
func colorize(text, hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return text
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return text
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", rgb>>16&0xff, rgb>>8&0xff, rgb&0xff, text)
}
