package repl

import (
	"io"
	"sync"

	"github.com/chzyer/readline"
)

type memoryStore struct {
	counters map[string]int64
	mutex    sync.Mutex
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		counters: make(map[string]int64),
	}
}

func (ms *memoryStore) GetInt64(column string, key []byte) (int64, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	return ms.counters[column+"/"+string(key)], nil
}

func (ms *memoryStore) PutInt64(column string, key []byte, value int64) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	ms.counters[column+"/"+string(key)] = value
	return nil
}

type captureRecorder struct {
	records []*Record
	mutex   sync.Mutex
}

func (cr *captureRecorder) Record(rec *Record) error {
	cr.mutex.Lock()
	defer cr.mutex.Unlock()
	cr.records = append(cr.records, rec)
	return nil
}

// scriptedReader replays lines, then an optional terminal error.
type scriptedReader struct {
	lines []string
	errs  []error
	pos   int
}

func (sr *scriptedReader) Readline() (string, error) {

	if sr.pos >= len(sr.lines) {
		return "", io.EOF
	}

	line := sr.lines[sr.pos]
	var err error
	if sr.pos < len(sr.errs) {
		err = sr.errs[sr.pos]
	}
	sr.pos++

	return line, err
}

var interrupt = readline.ErrInterrupt

// blockingReader never returns a line until released.
type blockingReader struct {
	release chan struct{}
}

func (br *blockingReader) Readline() (string, error) {
	<-br.release
	return "", io.EOF
}
