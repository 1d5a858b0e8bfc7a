package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	parallel_chunked_flow "github.com/cfsghost/parallel-chunked-flow"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBatchWorkers = 16
)

type batchJob struct {
	seq    int
	line   string
	output string
	record *Record
}

var batchJobPool = sync.Pool{
	New: func() interface{} {
		return &batchJob{}
	},
}

func readLines(r io.Reader) ([]string, error) {

	lines := make([]string, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		// Blank lines are skipped in batch mode
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// RunBatch evaluates every line of r in parallel and writes one result per
// line to w, in input order.
func (s *Session) RunBatch(r io.Reader, w io.Writer, workers int) error {

	lines, err := readLines(r)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	if workers <= 0 {
		workers = DefaultBatchWorkers
	}

	log.WithFields(log.Fields{
		"lines":   len(lines),
		"workers": workers,
	}).Info("Starting batch evaluation")

	// Initialize parallel chunked flow
	pcfOpts := parallel_chunked_flow.Options{
		BufferSize: 2048,
		ChunkSize:  128,
		ChunkCount: workers,
		Handler: func(data interface{}, output func(interface{})) {
			job := data.(*batchJob)
			job.output, job.record = s.Evaluate(job.line)
			output(job)
		},
	}

	flow := parallel_chunked_flow.NewParallelChunkedFlow(&pcfOpts)
	defer flow.Close()

	go func() {
		for i, line := range lines {
			job := batchJobPool.Get().(*batchJob)
			job.seq = i
			job.line = line

			for {
				err := flow.Push(job)
				if err != nil {
					log.Trace(err, ", retry ...")
					time.Sleep(10 * time.Millisecond)
					continue
				}
				break
			}
		}
	}()

	// Results are reordered by sequence before they are written
	results := make([]*batchJob, len(lines))
	for received := 0; received < len(lines); received++ {
		job := (<-flow.Output()).(*batchJob)
		results[job.seq] = job
	}

	bw := bufio.NewWriter(w)
	for _, job := range results {
		s.record(job.record)
		fmt.Fprintln(bw, job.output)

		job.record = nil
		batchJobPool.Put(job)
	}

	return bw.Flush()
}
