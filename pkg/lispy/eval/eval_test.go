package eval

import (
	"fmt"
	"math"
	"testing"

	"git.brobridge.com/lispy/lispy/pkg/lispy/ast"
	"git.brobridge.com/lispy/lispy/pkg/lispy/parser"
	"git.brobridge.com/lispy/lispy/pkg/lispy/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEval(t *testing.T, input string, expected value.Value) {
	t.Helper()

	root, err := parser.Parse("<stdin>", input)
	require.NoError(t, err, input)

	assert.Equal(t, expected, Evaluate(root), input)
}

func num(contents string) *ast.Tree {
	return ast.NewLeaf(parser.NumberTag, contents, ast.Position{})
}

// expr builds a parenthesised application by hand so that operators the
// grammar rejects can still reach the evaluator.
func expr(op string, operands ...*ast.Tree) *ast.Tree {
	children := []*ast.Tree{
		ast.NewLeaf(parser.CharTag, "(", ast.Position{}),
		ast.NewLeaf(parser.OperatorTag, op, ast.Position{}),
	}
	children = append(children, operands...)
	children = append(children, ast.NewLeaf(parser.CharTag, ")", ast.Position{}))

	return ast.NewBranch(parser.ExprTag, ast.Position{}, children...)
}

func TestEvalBinary(t *testing.T) {

	operands := []int64{-17, -3, -1, 0, 1, 2, 7, 100}

	for _, a := range operands {
		for _, b := range operands {
			testEval(t, fmt.Sprintf("+ %d %d", a, b), value.NewNumber(a+b))
			testEval(t, fmt.Sprintf("- %d %d", a, b), value.NewNumber(a-b))
			testEval(t, fmt.Sprintf("* %d %d", a, b), value.NewNumber(a*b))

			if b == 0 {
				testEval(t, fmt.Sprintf("/ %d %d", a, b), value.NewError(value.DivisionByZero))
				continue
			}

			testEval(t, fmt.Sprintf("/ %d %d", a, b), value.NewNumber(a/b))
		}
	}
}

func TestEvalTruncatingDivision(t *testing.T) {
	testEval(t, "/ 7 2", value.NewNumber(3))
	testEval(t, "/ -7 2", value.NewNumber(-3))
	testEval(t, "/ 7 -2", value.NewNumber(-3))
	testEval(t, "/ -7 -2", value.NewNumber(3))
	testEval(t, "/ -1 2", value.NewNumber(0))
}

func TestEvalDivisionByZero(t *testing.T) {

	root, err := parser.Parse("<stdin>", "/ 5 0")
	require.NoError(t, err)

	result := Evaluate(root)
	assert.Equal(t, value.NewError(value.DivisionByZero), result)
	assert.Equal(t, "Error: Division by Zero!", value.Render(result))
}

func TestEvalInvalidOperator(t *testing.T) {

	result := Evaluate(expr("%", num("1"), num("2")))
	assert.Equal(t, value.NewError(value.InvalidOperator), result)
	assert.Equal(t, "Error: Invalid Operator.", value.Render(result))
}

func TestEvalChainsFoldLeft(t *testing.T) {
	testEval(t, "- 100 10 20 30", value.NewNumber(40))
	testEval(t, "/ 100 2 5", value.NewNumber(10))
	testEval(t, "* 1 2 3 4 5", value.NewNumber(120))
	testEval(t, "+ 1 2 3 4 5 6 7 8 9 10", value.NewNumber(55))
	testEval(t, "/ 5 2 2", value.NewNumber(1))
}

func TestEvalUnary(t *testing.T) {
	testEval(t, "+ 7", value.NewNumber(7))
	testEval(t, "- 7", value.NewNumber(7))
	testEval(t, "/ 0", value.NewNumber(0))
	testEval(t, "+ (* 9)", value.NewNumber(9))
}

func TestEvalNesting(t *testing.T) {
	testEval(t, "+ 1 (* 2 3)", value.NewNumber(7))
	testEval(t, "* (+ 1 2) (- 10 4)", value.NewNumber(18))
	testEval(t, "- (/ 10 3) (* 2 (+ 1 1))", value.NewNumber(-1))
	testEval(t, "+ 5 (* 2 3) (- 10 (/ 8 4))", value.NewNumber(19))
}

func TestEvalShortCircuit(t *testing.T) {

	// The first error in fold order wins
	testEval(t, "+ (/ 1 0) 99999999999999999999", value.NewError(value.DivisionByZero))
	testEval(t, "+ 99999999999999999999 (/ 1 0)", value.NewError(value.InvalidNumber))
	testEval(t, "/ 10 0 5", value.NewError(value.DivisionByZero))
	testEval(t, "+ 1 (/ 2 0) (/ 3 0) 4", value.NewError(value.DivisionByZero))
	testEval(t, "* (- 1 (/ 1 0)) 2", value.NewError(value.DivisionByZero))

	result := Evaluate(expr("+", expr("%", num("1"), num("2")), expr("/", num("1"), num("0"))))
	assert.Equal(t, value.NewError(value.InvalidOperator), result)

	result = Evaluate(expr("+", expr("/", num("1"), num("0")), expr("%", num("1"), num("2"))))
	assert.Equal(t, value.NewError(value.DivisionByZero), result)
}

func TestEvalOverflowingLiteral(t *testing.T) {
	testEval(t, "+ 9223372036854775807", value.NewNumber(math.MaxInt64))
	testEval(t, "+ -9223372036854775808", value.NewNumber(math.MinInt64))
	testEval(t, "+ 9223372036854775808", value.NewError(value.InvalidNumber))
	testEval(t, "+ -9223372036854775809", value.NewError(value.InvalidNumber))
	testEval(t, "+ 1 123456789012345678901234567890", value.NewError(value.InvalidNumber))
}

func TestEvalArithmeticWraps(t *testing.T) {
	testEval(t, "+ 9223372036854775807 1", value.NewNumber(math.MinInt64))
	testEval(t, "/ -9223372036854775808 -1", value.NewNumber(math.MinInt64))
}

func TestEvalIsPure(t *testing.T) {

	for _, input := range []string{"+ 1 (* 2 3)", "/ 5 0", "- 4 2 1"} {
		first, err := parser.Parse("<stdin>", input)
		require.NoError(t, err)

		second, err := parser.Parse("<stdin>", input)
		require.NoError(t, err)

		assert.Equal(t, Evaluate(first), Evaluate(second))
		assert.Equal(t, Evaluate(first), Evaluate(first))
	}
}

func TestEvalMalformedTrees(t *testing.T) {
	assert.Equal(t, value.NewError(value.InvalidOperator), Evaluate(nil))
	assert.Equal(t, value.NewError(value.InvalidOperator), Evaluate(expr("+")))
	assert.Equal(t, value.NewError(value.InvalidOperator), Evaluate(ast.NewBranch(parser.ExprTag, ast.Position{})))
	assert.Equal(t, value.NewError(value.InvalidNumber), Evaluate(num("abc")))
}

func TestEvalUnaryIgnoresOperator(t *testing.T) {

	// With a single operand nothing is combined, so the operator is never checked
	assert.Equal(t, value.NewNumber(1), Evaluate(expr("%", num("1"))))
}

func TestApplyOperator(t *testing.T) {

	two := value.NewNumber(2)
	six := value.NewNumber(6)
	divZero := value.NewError(value.DivisionByZero)
	badNum := value.NewError(value.InvalidNumber)

	assert.Equal(t, value.NewNumber(8), ApplyOperator(six, "+", two))
	assert.Equal(t, value.NewNumber(4), ApplyOperator(six, "-", two))
	assert.Equal(t, value.NewNumber(12), ApplyOperator(six, "*", two))
	assert.Equal(t, value.NewNumber(3), ApplyOperator(six, "/", two))
	assert.Equal(t, divZero, ApplyOperator(six, "/", value.NewNumber(0)))
	assert.Equal(t, value.NewError(value.InvalidOperator), ApplyOperator(six, "^", two))

	// Errors pass through untouched, left side first
	assert.Equal(t, divZero, ApplyOperator(divZero, "+", two))
	assert.Equal(t, divZero, ApplyOperator(divZero, "+", badNum))
	assert.Equal(t, badNum, ApplyOperator(two, "+", badNum))
	assert.Equal(t, badNum, ApplyOperator(two, "%", badNum))
}
