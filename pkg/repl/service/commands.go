package repl

import (
	"bytes"
	"fmt"
	"strings"

	"git.brobridge.com/lispy/lispy/pkg/lispy/ast"
	"git.brobridge.com/lispy/lispy/pkg/lispy/parser"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
)

var (
	UnknownCommandErr = errors.New("Unknown command")
	MissingInputErr   = errors.New("Missing input")
)

const helpText = `Enter an operator followed by one or more operands, e.g. + 1 (* 2 3)

Commands:
  :tree <input>   print the syntax tree and its node count
  :dump <input>   dump the syntax tree structure
  :grammar        print the grammar
  :stats          print evaluation counters
  :help           show this message`

type command func(s *Session, args string) (string, error)

var commands = map[string]command{
	"help":    helpCommand,
	"grammar": grammarCommand,
	"tree":    treeCommand,
	"dump":    dumpCommand,
	"stats":   statsCommand,
}

var dumpOptions = litter.Options{
	StripPackageNames: true,
	Separator:         " ",
}

func (s *Session) runCommand(line string) string {

	name := strings.TrimPrefix(line, CommandPrefix)
	args := ""
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		args = strings.TrimSpace(name[i+1:])
		name = name[:i]
	}

	cmd, ok := commands[name]
	if !ok {
		return errors.Wrap(UnknownCommandErr, CommandPrefix+name).Error()
	}

	output, err := cmd(s, args)
	if err != nil {
		return err.Error()
	}

	return output
}

func helpCommand(s *Session, args string) (string, error) {
	return helpText, nil
}

func grammarCommand(s *Session, args string) (string, error) {
	return parser.Grammar, nil
}

func (s *Session) parseArgs(args string) (ast.Node, error) {

	if len(args) == 0 {
		return nil, MissingInputErr
	}

	return parser.Parse(s.filename, args)
}

func treeCommand(s *Session, args string) (string, error) {

	tree, err := s.parseArgs(args)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	ast.Print(&buf, tree)
	fmt.Fprintf(&buf, "nodes: %d", ast.CountNodes(tree))

	return buf.String(), nil
}

func dumpCommand(s *Session, args string) (string, error) {

	tree, err := s.parseArgs(args)
	if err != nil {
		return "", err
	}

	return dumpOptions.Sdump(tree), nil
}

func statsCommand(s *Session, args string) (string, error) {

	if s.stats == nil {
		return "", StatsDisabledErr
	}

	return s.stats.Summary()
}
