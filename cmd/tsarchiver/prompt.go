package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tsarchiver/internal/archive"
)

// prompter answers catalog-bootstrap questions interactively. The core
// reconciliation logic never prompts; it only sees the StartProvider
// interface.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	tty bool
}

func newPrompter(cmd *cobra.Command) *prompter {
	tty := false
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &prompter{
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
		tty: tty,
	}
}

func (p *prompter) confirmCreate() (bool, error) {
	if !p.tty {
		return false, errors.New("no archive database in directory; rerun interactively to create one")
	}
	for {
		fmt.Fprint(p.out, "No archive database in directory. Create one? [Y|n] ")
		line, err := p.in.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("read answer: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer == "" || answer[0] == 'y' {
			return true, nil
		}
		if answer[0] == 'n' {
			return false, nil
		}
	}
}

// StartIndex asks for the starting page index of a show with no archived
// episodes yet.
func (p *prompter) StartIndex(show archive.Show) (int64, error) {
	if !p.tty {
		return 0, fmt.Errorf("no %s archived yet and no terminal to ask for a start index", show.Album)
	}
	fmt.Fprintf(p.out, "No %s archived yet\n", show.Album)
	for {
		fmt.Fprintf(p.out, "Start archiving from %s page index: ", show.Album)
		line, err := p.in.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("read start index: %w", err)
		}
		index, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid input, please enter a number")
			continue
		}
		return index, nil
	}
}
