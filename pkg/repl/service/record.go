package repl

import (
	"time"

	"git.brobridge.com/lispy/lispy/pkg/lispy/value"
)

const (
	ParseErrorRecord = "parse_error"
)

// Record summarizes one evaluated line for the recorders.
type Record struct {
	Time      time.Time `json:"time" db:"evaluated_at"`
	Input     string    `json:"input" db:"input"`
	Result    string    `json:"result" db:"result"`
	Type      string    `json:"type" db:"type"`
	Number    int64     `json:"number,omitempty" db:"number"`
	ErrorKind string    `json:"errorKind,omitempty" db:"error_kind"`
}

// Recorder receives a Record after every evaluation.
type Recorder interface {
	Record(rec *Record) error
}

func NewRecord(input string, v value.Value) *Record {

	rec := &Record{
		Time:   time.Now(),
		Input:  input,
		Result: value.Render(v),
		Type:   v.Type().String(),
	}

	switch val := v.(type) {
	case value.Number:
		rec.Number = int64(val)
	case value.Error:
		rec.ErrorKind = val.Kind.String()
	}

	return rec
}

func NewParseErrorRecord(input string, err error) *Record {
	return &Record{
		Time:   time.Now(),
		Input:  input,
		Result: err.Error(),
		Type:   ParseErrorRecord,
	}
}

func (rec *Record) IsParseError() bool {
	return rec.Type == ParseErrorRecord
}

func (rec *Record) IsError() bool {
	return rec.Type == value.ErrorType.String()
}
