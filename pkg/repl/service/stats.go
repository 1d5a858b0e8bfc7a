package repl

import (
	"fmt"
	"strings"
	"sync"

	"git.brobridge.com/lispy/lispy/pkg/lispy/value"
	"github.com/pkg/errors"
)

const (
	StatsStoreName = "lispy-stats"
	StatsColumn    = "counters"
)

const (
	EvaluationsCounter = "evaluations"
	ErrorsCounter      = "errors"
	ParseErrorsCounter = "parse_errors"
)

var (
	StatsDisabledErr = errors.New("Statistics store is disabled")
)

// CounterStore is the subset of a broton store used for counters.
type CounterStore interface {
	GetInt64(column string, key []byte) (int64, error)
	PutInt64(column string, key []byte, value int64) error
}

type Stats struct {
	store CounterStore
	mutex sync.Mutex
}

func NewStats(store CounterStore) *Stats {
	return &Stats{
		store: store,
	}
}

func errorCounter(kind string) string {
	return ErrorsCounter + "." + kind
}

// CounterNames lists every counter in display order.
func CounterNames() []string {
	return []string{
		EvaluationsCounter,
		ErrorsCounter,
		errorCounter(value.DivisionByZero.String()),
		errorCounter(value.InvalidOperator.String()),
		errorCounter(value.InvalidNumber.String()),
		ParseErrorsCounter,
	}
}

func (st *Stats) Record(rec *Record) error {

	st.mutex.Lock()
	defer st.mutex.Unlock()

	if rec.IsParseError() {
		return st.increment(ParseErrorsCounter)
	}

	err := st.increment(EvaluationsCounter)
	if err != nil {
		return err
	}

	if !rec.IsError() {
		return nil
	}

	err = st.increment(ErrorsCounter)
	if err != nil {
		return err
	}

	return st.increment(errorCounter(rec.ErrorKind))
}

func (st *Stats) increment(name string) error {

	count, err := st.store.GetInt64(StatsColumn, []byte(name))
	if err != nil {
		return err
	}

	return st.store.PutInt64(StatsColumn, []byte(name), count+1)
}

func (st *Stats) Get(name string) (int64, error) {
	return st.store.GetInt64(StatsColumn, []byte(name))
}

// Summary renders all counters, one per line.
func (st *Stats) Summary() (string, error) {

	st.mutex.Lock()
	defer st.mutex.Unlock()

	lines := make([]string, 0, len(CounterNames()))
	for _, name := range CounterNames() {
		count, err := st.store.GetInt64(StatsColumn, []byte(name))
		if err != nil {
			return "", err
		}

		lines = append(lines, fmt.Sprintf("%-24s %d", name, count))
	}

	return strings.Join(lines, "\n"), nil
}
