package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// REPLOptions configures an interactive session.
type REPLOptions struct {
	Prompt      string
	HistoryFile string
	Format      string
	Out         io.Writer
	Err         io.Writer
}

// RunREPL drives an interactive SQL loop against the store. Statements
// accumulate across lines until a terminating semicolon, and dot-commands
// handle everything that is not SQL.
func RunREPL(ctx context.Context, store *Store, opts REPLOptions) error {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "scalecharts> "
	}
	format := opts.Format
	if format == "" {
		format = "table"
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    newCompleter(store),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(opts.Out, "Dataset SQL REPL (%d views mounted)\n", len(store.Views()))
	_, _ = fmt.Fprintln(opts.Out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(opts.Out)

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if handleDotCommand(ctx, store, line, format, opts.Out, opts.Err) {
				if line == ".quit" || line == ".exit" {
					break
				}
				continue
			}
		}

		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt("       ...> ")
			continue
		}
		rl.SetPrompt(prompt)

		stmt := strings.TrimSuffix(buf.String(), ";")
		buf.Reset()

		if err := runAndRender(ctx, store, stmt, format, opts.Out); err != nil {
			_, _ = fmt.Fprintf(opts.Err, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(opts.Out)
	}

	return nil
}

func runAndRender(ctx context.Context, store *Store, stmt, format string, w io.Writer) error {
	rows, err := store.Query(ctx, stmt)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return RenderRows(w, rows, format)
}

func handleDotCommand(ctx context.Context, store *Store, line, format string, out, errW io.Writer) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)
		return true

	case ".datasets", ".tables":
		for _, v := range store.Views() {
			_, _ = fmt.Fprintln(out, v)
		}
		return true

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(errW, "Usage: .schema <dataset>")
			return true
		}
		if err := describeAndRender(ctx, store, parts[1], format, out); err != nil {
			_, _ = fmt.Fprintf(errW, "Error: %v\n", err)
		}
		return true

	case ".clear":
		_, _ = fmt.Fprint(out, "\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(errW, "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func describeAndRender(ctx context.Context, store *Store, view, format string, w io.Writer) error {
	rows, err := store.Describe(ctx, view)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return RenderRows(w, rows, format)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .datasets        List mounted dataset views
  .schema <name>   Show columns for a dataset view
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for dataset names
`
	_, _ = fmt.Fprintln(w, help)
}

// newCompleter builds a readline completer over the mounted views and
// the dot-commands.
func newCompleter(store *Store) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, v := range store.Views() {
		items = append(items, readline.PcItem(v))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".datasets"),
		readline.PcItem(".schema"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
