package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

const shellPrompt = "docstore> "

var errUnterminated = errors.New("unterminated quote or bracket")

// prompter reads shell input one line at a time.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// scanPrompter reads lines from a plain reader, for scripts and pipes.
type scanPrompter struct {
	sc *bufio.Scanner
}

func (p *scanPrompter) Prompt(string) (string, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.sc.Text(), nil
}

func (p *scanPrompter) AppendHistory(string) {}

func (p *scanPrompter) Close() error { return nil }

// linerPrompter edits lines on a terminal and keeps history across sessions.
type linerPrompter struct {
	state       *liner.State
	historyPath string
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return line, err
}

func (p *linerPrompter) AppendHistory(line string) {
	p.state.AppendHistory(line)
}

func (p *linerPrompter) Close() error {
	var err error
	if p.historyPath != "" {
		err = p.writeHistory()
	}
	return errors.Join(err, p.state.Close())
}

func (p *linerPrompter) writeHistory() error {
	if err := os.MkdirAll(filepath.Dir(p.historyPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p.historyPath)
	if err != nil {
		return err
	}
	if _, err := p.state.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// historyPath returns $XDG_STATE_HOME/docstore/history, falling back to
// ~/.local/state.
func historyPath(env map[string]string) string {
	if xdg := env["XDG_STATE_HOME"]; xdg != "" {
		return filepath.Join(xdg, "docstore", "history")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "state", "docstore", "history")
	}
	return ""
}

func (a *app) newPrompter(ctx context.Context, o *IO) prompter {
	if a.stdin != os.Stdin || !liner.TerminalSupported() {
		return &scanPrompter{sc: bufio.NewScanner(a.stdin)}
	}
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(func(line string) []string {
		return a.complete(ctx, o, line)
	})
	p := &linerPrompter{state: state, historyPath: historyPath(a.env)}
	if p.historyPath != "" {
		if f, err := os.Open(p.historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
	}
	return p
}

// complete suggests command names for the first word and collection names
// for the second one.
func (a *app) complete(ctx context.Context, o *IO, line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(line, " ")) {
		var prefix string
		if len(fields) == 1 {
			prefix = fields[0]
		}
		var out []string
		for _, c := range a.commands() {
			if c.Name() != "shell" && strings.HasPrefix(c.Name(), prefix) {
				out = append(out, c.Name()+" ")
			}
		}
		out = append(out, matchPrefix([]string{"help", "exit"}, prefix)...)
		return out
	}
	if len(fields) > 2 || (len(fields) == 2 && strings.HasSuffix(line, " ")) {
		return nil
	}
	store, err := a.open(ctx, o)
	if err != nil {
		return nil
	}
	names, err := store.Collections(ctx)
	if err != nil {
		return nil
	}
	var prefix string
	if len(fields) == 2 {
		prefix = fields[1]
	}
	var out []string
	for _, name := range matchPrefix(names, prefix) {
		out = append(out, fields[0]+" "+name+" ")
	}
	return out
}

func matchPrefix(list []string, prefix string) []string {
	var out []string
	for _, s := range list {
		if strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func (a *app) cmdShell() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Run commands interactively against one store",
	}
	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		if len(args) != 0 {
			return usageError(c)
		}
		p := a.newPrompter(ctx, o)
		defer p.Close()
		return a.shell(ctx, o, p)
	}
	return c
}

// shell runs commands until end of input. Command failures are reported and
// do not end the session.
func (a *app) shell(ctx context.Context, o *IO, p prompter) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line, err := p.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p.AppendHistory(line)

		tokens, err := splitLine(line)
		if err != nil {
			o.ErrPrintln("error:", err)
			continue
		}
		switch tokens[0] {
		case "exit", "quit":
			return nil
		case "help":
			a.shellHelp(o)
			continue
		}
		a.dispatch(ctx, o, tokens, false)
	}
}

func (a *app) shellHelp(o *IO) {
	o.Println("Commands:")
	for _, c := range a.commands() {
		if c.Name() == "shell" {
			continue
		}
		o.Println(c.HelpLine())
	}
	o.Printf("  %-44s %s\n", "help", "Show this list")
	o.Printf("  %-44s %s\n", "exit", "Leave the shell")
}

// splitLine breaks a shell line into words. Words are separated by spaces
// outside quotes and brackets, so JSON arguments need no quoting. A quote
// opening a word groups it and is removed along with its escapes; quotes
// inside a word or a bracket are kept as written.
func splitLine(line string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		inWord bool
		depth  int
		quote  rune
		strip  bool
		escape bool
	)
	flush := func() {
		if inWord {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
		inWord, strip = false, false
	}
	for _, r := range line {
		switch {
		case escape:
			cur.WriteRune(r)
			escape = false
		case quote != 0:
			switch {
			case r == '\\' && quote == '"':
				escape = true
				if !strip {
					cur.WriteRune(r)
				}
			case r == quote:
				quote = 0
				if strip {
					strip = false
					continue
				}
				cur.WriteRune(r)
			default:
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			if !inWord && depth == 0 {
				inWord, strip = true, true
				continue
			}
			inWord = true
			cur.WriteRune(r)
		case r == '{' || r == '[':
			inWord = true
			depth++
			cur.WriteRune(r)
		case r == '}' || r == ']':
			inWord = true
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && depth == 0:
			flush()
		default:
			inWord = true
			cur.WriteRune(r)
		}
	}
	if quote != 0 || depth != 0 {
		return nil, errUnterminated
	}
	flush()
	if len(tokens) == 0 {
		return nil, errUnterminated
	}
	return tokens, nil
}
