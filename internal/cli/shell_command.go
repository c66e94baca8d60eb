package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"todo-list/internal/config"
	"todo-list/internal/services"
)

const shellPrompt = "todo> "

// syncWriter serializes writes from the read loop and the message timer
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Shell is an interactive session over one set of services, so sort state
// and the quote board live for the whole session.
type Shell struct {
	app      *App
	in       io.Reader
	out      io.Writer
	messages *MessageArea
	errors   *ErrorHandler
}

// NewShell creates a shell reading commands from in
func NewShell(container *services.ServiceContainer, cfg *config.Config, in io.Reader, out io.Writer) *Shell {
	w := &syncWriter{w: out}
	s := &Shell{
		app:    NewAppWithOutput(container, cfg, w),
		in:     in,
		out:    w,
		errors: NewErrorHandler(),
	}
	s.messages = NewMessageArea(w, cfg.Display.MessageDuration, s.focus)
	return s
}

// focus returns the user to the input prompt once a message clears
func (s *Shell) focus() {
	fmt.Fprint(s.out, "\n"+shellPrompt)
}

// Run reads commands until EOF, "exit" or "quit", or ctx is done
func (s *Shell) Run(ctx context.Context) error {
	defer s.messages.Stop()

	fmt.Fprintln(s.out, `Type "help" for commands, "exit" to leave.`)
	if err := printTasks(s.out, s.app.services.TaskService.Tasks()); err != nil {
		return err
	}

	scanner := bufio.NewScanner(s.in)
	fmt.Fprint(s.out, shellPrompt)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		args := splitArgs(scanner.Text())
		switch {
		case len(args) == 0:
		case args[0] == "exit" || args[0] == "quit":
			return nil
		case args[0] == "help":
			fmt.Fprintln(s.out, s.app.registry.GetUsage())
		default:
			if err := s.app.Run(ctx, args); err != nil {
				s.messages.Show(s.errors.Message(err))
			}
		}
		fmt.Fprint(s.out, shellPrompt)
	}
	return scanner.Err()
}

// splitArgs splits a line on whitespace, keeping double-quoted runs together
func splitArgs(line string) []string {
	var args []string
	var cur strings.Builder
	inQuotes, hasToken := false, false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case !inQuotes && (r == ' ' || r == '\t'):
			if hasToken {
				args = append(args, cur.String())
				cur.Reset()
				hasToken = false
			}
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	if hasToken {
		args = append(args, cur.String())
	}
	return args
}
