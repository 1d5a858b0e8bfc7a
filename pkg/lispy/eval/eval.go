package eval

import (
	"strconv"

	"git.brobridge.com/lispy/lispy/pkg/lispy/ast"
	"git.brobridge.com/lispy/lispy/pkg/lispy/value"
)

const (
	operatorChild = 1
	firstOperand  = 2
)

// Evaluate walks the syntax tree and reduces it to a single value. The tree
// is only read, never modified.
func Evaluate(node ast.Node) value.Value {

	if node == nil {
		return value.NewError(value.InvalidOperator)
	}

	// Numeric literal
	if ast.HasTag(node, "number") {
		return parseNumber(node.Contents())
	}

	// Operator application needs an operator and at least one operand
	if node.ChildCount() <= firstOperand {
		return value.NewError(value.InvalidOperator)
	}

	first := node.Child(firstOperand)
	if !ast.HasTag(first, "expr") {
		return value.NewError(value.InvalidOperator)
	}

	op := node.Child(operatorChild).Contents()
	x := Evaluate(first)

	// Fold the remaining operands from left to right
	for i := firstOperand + 1; i < node.ChildCount(); i++ {

		child := node.Child(i)
		if !ast.HasTag(child, "expr") {
			break
		}

		if value.IsError(x) {
			return x
		}

		x = ApplyOperator(x, op, Evaluate(child))
	}

	return x
}

func parseNumber(text string) value.Value {

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return value.NewError(value.InvalidNumber)
	}

	return value.NewNumber(n)
}

// ApplyOperator combines two values. An error on either side is returned
// unchanged, the left one first.
func ApplyOperator(left value.Value, op string, right value.Value) value.Value {

	if value.IsError(left) {
		return left
	}

	if value.IsError(right) {
		return right
	}

	x, ok := left.(value.Number)
	if !ok {
		return value.NewError(value.InvalidOperator)
	}

	y, ok := right.(value.Number)
	if !ok {
		return value.NewError(value.InvalidOperator)
	}

	switch op {
	case "+":
		return value.NewNumber(int64(x) + int64(y))
	case "-":
		return value.NewNumber(int64(x) - int64(y))
	case "*":
		return value.NewNumber(int64(x) * int64(y))
	case "/":
		if y == 0 {
			return value.NewError(value.DivisionByZero)
		}

		return value.NewNumber(int64(x) / int64(y))
	}

	return value.NewError(value.InvalidOperator)
}
