package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"git.brobridge.com/lispy/lispy/pkg/lispy/eval"
	"git.brobridge.com/lispy/lispy/pkg/lispy/parser"
	"git.brobridge.com/lispy/lispy/pkg/lispy/value"
	"github.com/chzyer/readline"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultFilename = "<stdin>"
	CommandPrefix   = ":"
)

// LineReader supplies input lines. readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

type Session struct {
	filename  string
	recorders []Recorder
	stats     *Stats
}

func NewSession() *Session {
	return &Session{
		filename:  DefaultFilename,
		recorders: make([]Recorder, 0),
	}
}

func (s *Session) AddRecorder(r Recorder) {
	s.recorders = append(s.recorders, r)
}

func (s *Session) SetStats(stats *Stats) {
	s.stats = stats
	s.AddRecorder(stats)
}

// Evaluate parses and evaluates one line without notifying recorders.
func (s *Session) Evaluate(line string) (string, *Record) {

	tree, err := parser.Parse(s.filename, line)
	if err != nil {
		return err.Error(), NewParseErrorRecord(line, err)
	}

	v := eval.Evaluate(tree)

	return value.Render(v), NewRecord(line, v)
}

func (s *Session) record(rec *Record) {
	for _, r := range s.recorders {
		err := r.Record(rec)
		if err != nil {
			log.WithFields(log.Fields{
				"input": rec.Input,
			}).Error(err)
		}
	}
}

// Handle processes one line of user input and returns the text to print.
func (s *Session) Handle(line string) string {

	if strings.HasPrefix(strings.TrimSpace(line), CommandPrefix) {
		return s.runCommand(strings.TrimSpace(line))
	}

	output, rec := s.Evaluate(line)

	log.WithFields(log.Fields{
		"input":  line,
		"type":   rec.Type,
		"result": rec.Result,
	}).Debug("Evaluated")

	s.record(rec)

	return output
}

type readResult struct {
	line string
	err  error
}

// readLine waits for the next line or for the context to end, whichever
// comes first.
func readLine(ctx context.Context, reader LineReader) (string, error) {

	result := make(chan readResult, 1)
	go func() {
		line, err := reader.Readline()
		result <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-result:
		return r.line, r.err
	}
}

// Run reads lines until the reader is exhausted or the context is cancelled.
// A line that is already being handled always completes before Run returns.
func (s *Session) Run(ctx context.Context, reader LineReader, out io.Writer) error {

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := readLine(ctx, reader)
		if ctx.Err() != nil {
			return nil
		}

		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}

			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		fmt.Fprintln(out, strings.TrimRight(s.Handle(line), "\n"))
	}
}
