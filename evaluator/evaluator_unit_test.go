// ----------------------------------------------------------------------------
// FILE: evaluator/evaluator_unit_test.go
// ----------------------------------------------------------------------------
// PURPOSE: End-to-end source-to-output checks against spec.md §8's
//          concrete scenario table, generalizing the teacher's
//          evalProgram-through-a-test-helper style. Conversions are
//          written postfix (`a$`) per §4.C's grammar and the original
//          interpreter's ConversionExpression (leftexpr then conv); the
//          scenario table's own `$a` shorthand doesn't parse under that
//          grammar and is treated as illustrative notation, not literal
//          source.
// ----------------------------------------------------------------------------
package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cstuartroe/goteko/lexer"
	"github.com/cstuartroe/goteko/object"
	"github.com/cstuartroe/goteko/parser"
	"github.com/cstuartroe/goteko/tag"
)

// run tokenizes, tags, parses, and interprets src against a fresh module
// chained to a fresh standard library, returning everything printed.
func run(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	tags, err := tag.GetTags(toks)
	if err != nil {
		t.Fatalf("GetTags(%q): %v", src, err)
	}
	stmts, err := parser.Parse(tags)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}

	var buf bytes.Buffer
	stdlib := object.Bootstrap(object.WithStdout(&buf))
	mod := object.NewModule("main", stdlib)

	if err := EvalProgram(stmts, mod.Namespace()); err != nil {
		t.Fatalf("EvalProgram(%q): %v", src, err)
	}
	return buf.String()
}

// runErr is like run but expects interpretation to fail, returning the error.
func runErr(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	tags, err := tag.GetTags(toks)
	if err != nil {
		return err
	}
	stmts, err := parser.Parse(tags)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	stdlib := object.Bootstrap(object.WithStdout(&buf))
	mod := object.NewModule("main", stdlib)
	return EvalProgram(stmts, mod.Namespace())
}

func TestScenario_ArithmeticPrecedence(t *testing.T) {
	if got := run(t, `int a = 3 + 4 * 2; print(a$);`); got != "11" {
		t.Errorf("got %q, want 11", got)
	}
}

func TestScenario_StringConcat(t *testing.T) {
	if got := run(t, `str s = "he" + "llo"; print(s$);`); got != "hello" {
		t.Errorf("got %q, want hello", got)
	}
}

func TestScenario_IfElse(t *testing.T) {
	if got := run(t, `if (3 < 5) { print("y"); } else { print("n"); }`); got != "y" {
		t.Errorf("got %q, want y", got)
	}
}

func TestScenario_WhileLoop(t *testing.T) {
	if got := run(t, `int i = 0; while (i < 3) { print(i$); i = i + 1; }`); got != "012" {
		t.Errorf("got %q, want 012", got)
	}
}

func TestScenario_BoolNot(t *testing.T) {
	if got := run(t, `bool b = !(1 == 2); print(b$);`); got != "true" {
		t.Errorf("got %q, want true", got)
	}
}

func TestScenario_ReassignedArithmetic(t *testing.T) {
	if got := run(t, `int x = 1; x = x + x; x = x * 3; print(x$);`); got != "6" {
		t.Errorf("got %q, want 6", got)
	}
}

func TestScenario_AssertPasses(t *testing.T) {
	if got := run(t, `str s = "a"; s = s + "b"; assert(s == "ab");`); got != "" {
		t.Errorf("got %q, want no output", got)
	}
}

func TestScenario_Exponent(t *testing.T) {
	if got := run(t, `print((2 ^ 10)$);`); got != "1024" {
		t.Errorf("got %q, want 1024", got)
	}
}

func TestScenario_RealArithmetic(t *testing.T) {
	if got := run(t, `int a = 2; real r = 2.5; r = r + 1.0; print(r$);`); got != "3.5" {
		t.Errorf("got %q, want 3.5", got)
	}
}

func TestScenario_ForOverList(t *testing.T) {
	if got := run(t, `for (int k in {1, 2, 3}) { print(k$); }`); got != "123" {
		t.Errorf("got %q, want 123", got)
	}
}

func TestNegative_DeclarationTypeMismatch(t *testing.T) {
	if err := runErr(t, `int x = "a";`); err == nil {
		t.Errorf("expected a type mismatch error")
	}
}

func TestNegative_VoidDeclarationForbidden(t *testing.T) {
	if err := runErr(t, `void v;`); err == nil {
		t.Errorf("expected a forbidden-void-type error")
	}
}

func TestNegative_PositionalAfterKeyword(t *testing.T) {
	if err := runErr(t, `print(obj = 1, 2);`); err == nil {
		t.Errorf("expected a positional-after-keyword error")
	}
}

func TestFunctionDeclarationAndCall(t *testing.T) {
	got := run(t, `
int add(int x, int y) = { x + y; };
print(add(3, 4)$);
`)
	if got != "7" {
		t.Errorf("got %q, want 7", got)
	}
}

func TestFunctionDefaultArgument(t *testing.T) {
	got := run(t, `
int inc(int x, int by ? 1) = { x + by; };
print(inc(5)$);
`)
	if got != "6" {
		t.Errorf("got %q, want 6", got)
	}
}

func TestComparisonFallsBackToEq(t *testing.T) {
	got := run(t, `bool b = ("a" == "a"); print(b$);`)
	if got != "true" {
		t.Errorf("got %q, want true", got)
	}
}

func TestComparisonNonEqWithoutCompareIsError(t *testing.T) {
	if err := runErr(t, `bool b = ("a" < "b");`); err == nil {
		t.Errorf("expected error: str has no _compare")
	}
}

func TestSubtypeComparisonNotImplemented(t *testing.T) {
	if err := runErr(t, `bool b = (1 <: 2);`); err == nil || !strings.Contains(err.Error(), "not implemented") {
		t.Errorf("expected <: not-implemented error, got %v", err)
	}
}

func TestNegative_ReadBeforeAssignIsError(t *testing.T) {
	if err := runErr(t, `int x; int y = x + 1;`); err == nil {
		t.Errorf("expected a read-before-assignment error, not a successful read")
	}
}

func TestNegative_ReadBeforeAssignViaConversionIsError(t *testing.T) {
	if err := runErr(t, `int x; print(x$);`); err == nil {
		t.Errorf("expected a read-before-assignment error, not a successful conversion")
	}
}

func TestNegative_DeclarationShadowingStdlibIsError(t *testing.T) {
	if err := runErr(t, `int print = 5;`); err == nil {
		t.Errorf("expected declaring over a stdlib name to fail")
	}
}

func TestStructInstantiationAndAttrAccess(t *testing.T) {
	got := run(t, `
let Point = (int x, int y);
let p = Point(1, 2);
print(p.x$);
`)
	if got != "1" {
		t.Errorf("got %q, want 1", got)
	}
}
