package value

import (
	"fmt"
	"strconv"
)

type Type uint8

const (
	NumberType = Type(iota + 1)
	ErrorType
)

func (t Type) String() string {
	switch t {
	case NumberType:
		return "number"
	case ErrorType:
		return "error"
	}

	return fmt.Sprintf("type(%d)", uint8(t))
}

// Value is the result of an evaluation step. Only Number and Error are
// produced by the arithmetic dialect; other dialects may add variants.
type Value interface {
	Type() Type
}

type Number int64

func (Number) Type() Type { return NumberType }

type ErrorKind uint8

const (
	DivisionByZero = ErrorKind(iota + 1)
	InvalidOperator
	InvalidNumber
)

func (k ErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "DivisionByZero"
	case InvalidOperator:
		return "InvalidOperator"
	case InvalidNumber:
		return "InvalidNumber"
	}

	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is a terminal evaluation fault. It carries no partial result.
type Error struct {
	Kind ErrorKind
}

func (Error) Type() Type { return ErrorType }

func NewNumber(x int64) Value {
	return Number(x)
}

func NewError(kind ErrorKind) Value {
	return Error{Kind: kind}
}

func IsError(v Value) bool {
	_, ok := v.(Error)
	return ok
}

// Render formats a value for display.
func Render(v Value) string {

	switch val := v.(type) {
	case Number:
		return strconv.FormatInt(int64(val), 10)
	case Error:
		switch val.Kind {
		case DivisionByZero:
			return "Error: Division by Zero!"
		case InvalidOperator:
			return "Error: Invalid Operator."
		case InvalidNumber:
			return "Error: Invalid Number."
		}

		return fmt.Sprintf("Error: %s.", val.Kind)
	case nil:
		return "nil"
	}

	return fmt.Sprintf("<%s>", v.Type())
}
