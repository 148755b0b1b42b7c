// Package replio wires internal/repl's Session to an interactive
// terminal: a readline prompt with history and tab completion, mirroring
// the original REPL's line-at-a-time, error-tolerant main loop.
package replio

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/monadlang/monad/internal/repl"
)

// typeKeywords are the annotation type names tab completion offers once
// every matching environment binding is exhausted, the same fixed list
// the original REPL's completion generator falls back to.
var typeKeywords = []string{"Int", "Float", "Char", "String", "Hex", "Bin", "Oct", "Bool"}

const prompt = "monad> "

// Runner drives a repl.Session from a terminal.
type Runner struct {
	session *repl.Session
	out     io.Writer
}

// New creates a Runner whose session output goes to out; a failed line's
// diagnostic is written to the readline terminal's stderr.
func New(out io.Writer) *Runner {
	return &Runner{session: repl.New(out), out: out}
}

// Run reads lines until EOF (Ctrl-D) or an unrecoverable terminal error,
// evaluating each one. A line that fails to compile reports its
// diagnostic and the loop continues, matching repl_run's tolerance of
// per-line errors.
func (r *Runner) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    completer{r.session},
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return fmt.Errorf("replio: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		switch err {
		case nil:
		case readline.ErrInterrupt:
			continue
		case io.EOF:
			fmt.Fprintln(r.out)
			return nil
		default:
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if evalErr := r.session.Eval(line); evalErr != nil {
			fmt.Fprintln(rl.Stderr(), evalErr)
		}
	}
}

// completer implements readline.AutoCompleter over the session's
// currently bound names plus the fixed type-name keyword set.
type completer struct {
	session *repl.Session
}

func (c completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	word, start := lastWord(line, pos)
	if word == "" {
		return nil, 0
	}

	candidates := append([]string{}, c.session.Names()...)
	sort.Strings(candidates)
	candidates = append(candidates, typeKeywords...)

	var matches [][]rune
	for _, name := range candidates {
		if strings.HasPrefix(name, word) {
			matches = append(matches, []rune(name[len(word):]))
		}
	}
	return matches, pos - start
}

// lastWord returns the run of non-whitespace, non-paren characters
// immediately before pos, and its starting offset.
func lastWord(line []rune, pos int) (word string, start int) {
	start = pos
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	return string(line[start:pos]), start
}

func isWordRune(r rune) bool {
	switch r {
	case '(', ')', '[', ']', ' ', '\t', '\n':
		return false
	}
	return true
}
