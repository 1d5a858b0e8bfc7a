package repl

import (
	"testing"

	"git.brobridge.com/lispy/lispy/pkg/lispy/parser"
	"git.brobridge.com/lispy/lispy/pkg/lispy/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordNumber(t *testing.T) {

	rec := NewRecord("+ 1 2", value.NewNumber(3))

	assert.Equal(t, "+ 1 2", rec.Input)
	assert.Equal(t, "3", rec.Result)
	assert.Equal(t, "number", rec.Type)
	assert.Equal(t, int64(3), rec.Number)
	assert.Empty(t, rec.ErrorKind)
	assert.False(t, rec.IsError())
	assert.False(t, rec.IsParseError())
	assert.False(t, rec.Time.IsZero())
}

func TestNewRecordError(t *testing.T) {

	rec := NewRecord("/ 1 0", value.NewError(value.DivisionByZero))

	assert.Equal(t, "Error: Division by Zero!", rec.Result)
	assert.Equal(t, "error", rec.Type)
	assert.Equal(t, "DivisionByZero", rec.ErrorKind)
	assert.True(t, rec.IsError())
	assert.False(t, rec.IsParseError())
}

func TestNewParseErrorRecord(t *testing.T) {

	_, err := parser.Parse(DefaultFilename, "+ 1 x")
	require.Error(t, err)

	rec := NewParseErrorRecord("+ 1 x", err)

	assert.Equal(t, ParseErrorRecord, rec.Type)
	assert.Equal(t, err.Error(), rec.Result)
	assert.True(t, rec.IsParseError())
	assert.False(t, rec.IsError())
}

func TestRecordJSON(t *testing.T) {

	data, err := json.Marshal(NewRecord("* 2 3", value.NewNumber(6)))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "* 2 3", decoded["input"])
	assert.Equal(t, "6", decoded["result"])
	assert.Equal(t, float64(6), decoded["number"])
	assert.NotContains(t, decoded, "errorKind")
}
