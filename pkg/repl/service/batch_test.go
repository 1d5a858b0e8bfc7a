package repl

import (
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {

	input := strings.Join([]string{
		"+ 1 2",
		"",
		"/ 1 0",
		"   ",
		"+ 1 x",
		"* 2 (- 10 4)",
	}, "\n")

	session := NewSession()
	recorder := &captureRecorder{}
	session.AddRecorder(recorder)

	var out strings.Builder
	err := session.RunBatch(strings.NewReader(input), &out, 4)
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"3",
		"Error: Division by Zero!",
		"<stdin>:1:5: error: expected '(', number or end of input at 'x'",
		"12",
	}, "\n")+"\n", out.String())

	require.Len(t, recorder.records, 4)
	assert.Equal(t, "+ 1 2", recorder.records[0].Input)
	assert.Equal(t, "* 2 (- 10 4)", recorder.records[3].Input)
}

func TestRunBatchKeepsOrder(t *testing.T) {

	lines := make([]string, 0, 1000)
	expected := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		lines = append(lines, fmt.Sprintf("+ %d 1", i))
		expected = append(expected, fmt.Sprintf("%d", i+1))
	}

	var out strings.Builder
	err := NewSession().RunBatch(strings.NewReader(strings.Join(lines, "\n")), &out, 0)
	require.NoError(t, err)

	assert.Equal(t, expected, strings.Split(strings.TrimRight(out.String(), "\n"), "\n"))
}

func TestRunBatchEmptyInput(t *testing.T) {

	var out strings.Builder
	err := NewSession().RunBatch(strings.NewReader("\n\n"), &out, 2)
	require.NoError(t, err)

	assert.Empty(t, out.String())
}

func TestRunBatchReleasesWorkers(t *testing.T) {

	session := NewSession()
	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		var out strings.Builder
		require.NoError(t, session.RunBatch(strings.NewReader("+ 1 2\n* 3 4\n"), &out, 8))
		require.Equal(t, "3\n12\n", out.String())
	}

	// Each flow runs ten goroutines for eight workers, all of them must be gone
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+5
	}, 2*time.Second, 10*time.Millisecond)
}
