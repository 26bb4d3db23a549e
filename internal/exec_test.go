package internal

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type testPrinter struct {
	printed string
}

func (t *testPrinter) Println(a ...interface{}) (n int, err error) {
	for i, e := range a {
		if i != 0 {
			t.printed += " "
		}
		t.printed += fmt.Sprintf("%v", e)
	}
	t.printed += "\n"
	return 0, nil
}

func (t *testPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return t.Println(fmt.Sprintf(format, a...))
}

func (t *testPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return t.Println(a...)
}

func (t *testPrinter) Equals(p string) bool {
	if t.printed == p+"\n" {
		t.Reset()
		return true
	}
	return false
}

func (t *testPrinter) Reset() {
	t.printed = ""
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Logger = quietLogger()
	return cfg
}

func lexicalConfig() *Config {
	cfg := testConfig()
	cfg.Scoping = ScopeLexical
	return cfg
}

func checkExpression(t *testing.T, exp string, result ...string) {
	t.Helper()
	source := "likh " + exp + ";"
	tp := &testPrinter{}
	RunSourceWithPrinter(source, testConfig(), tp)
	any := false
	for _, r := range result {
		if tp.Equals(r) {
			any = true
			break
		}
	}
	if !any {
		t.Errorf(
			"Error on: \n%s\n\tResult should be equal to %s instead of %s",
			exp,
			result,
			tp.printed,
		)
	}
}

func checkErrorMsg(t *testing.T, source string, errorMsg string, line int) {
	t.Helper()
	checkErrorMsgWith(t, testConfig(), source, errorMsg, line)
}

func checkErrorMsgWith(t *testing.T, cfg *Config, source string, errorMsg string, line int) {
	t.Helper()
	result := fmt.Sprintf("Runtime Error on line %d\n\t%s\n", line, errorMsg)

	tp := &testPrinter{}
	if RunSourceWithPrinter(source, cfg, tp) {
		t.Errorf("\nSource:\n----\n%s\n----\nshould have failed", source)
	}
	if tp.printed != result {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s----\nFound:\n----\n%s----",
			source,
			result,
			tp.printed,
		)
	}
}

func checkOutput(t *testing.T, cfg *Config, source string, result string) {
	t.Helper()
	tp := &testPrinter{}
	ok := RunSourceWithPrinter(source, cfg, tp)
	if !tp.Equals(result) {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s\n----\nFound:\n----\n%s----",
			source,
			result,
			tp.printed,
		)
	}
	if !ok {
		t.Errorf("\nSource:\n----\n%s\n----\nreported a failure", source)
	}
}

func checkStatements(t *testing.T, code string, resultVar string, result string) {
	t.Helper()
	checkOutput(t, testConfig(), code+"\nlikh "+resultVar+";", result)
}

func TestExpressions(t *testing.T) {

	// Arithmethic
	{
		// Number
		checkExpression(t, "1", "1")

		// Fraction
		checkExpression(t, "2.5", "2.5")

		// Negative
		checkExpression(t, "-1", "-1")

		// Add numbers
		checkExpression(t, "1 + 2 + 3", "6")

		// Subtract numbers
		checkExpression(t, "8 - 2", "6")

		// Multiply numbers
		checkExpression(t, "1 * 2 * 3", "6")

		// Divide numbers
		checkExpression(t, "12 / 2", "6")
		checkExpression(t, "1 / 2", "0.5")

		// Modulo
		checkExpression(t, "7 % 4", "3")

		// Precedence
		checkExpression(t, "2 + 3 * 4", "14")
		checkExpression(t, "(2 + 3) * 4", "20")
		checkExpression(t, "-2 * 3", "-6")
		checkExpression(t, "10 - 4 - 3", "3")
	}

	// Logical
	{
		// 'true' literal
		checkExpression(t, "true", "true")

		// 'false' literal
		checkExpression(t, "false", "false")

		// 'nil' literal
		checkExpression(t, "nil", "nil")

		// not
		checkExpression(t, "!false", "true")
		checkExpression(t, "!true", "false")
		checkExpression(t, "!nil", "true")
		checkExpression(t, `!""`, "false")
		checkExpression(t, `!0`, "false")
		checkExpression(t, "!!1", "true")

		// and
		checkExpression(t, "true and true", "true")
		checkExpression(t, "false and true", "false")
		checkExpression(t, "true and false", "false")
		checkExpression(t, "1 and 2", "2")
		checkExpression(t, "nil and 1", "nil")

		// or
		checkExpression(t, "false or false", "false")
		checkExpression(t, "false or true", "true")
		checkExpression(t, "nil or 3", "3")
		checkExpression(t, `"a" or 3`, "a")
		checkExpression(t, "false or nil", "nil")

		// short circuit
		checkExpression(t, "false and 1 / 0", "false")
		checkExpression(t, "true or 1 / 0", "true")
	}

	// Strings
	{
		// String literal
		checkExpression(t, `"test"`, "test")

		// Empty string
		checkExpression(t, `""`, "")
	}

	// Comparisons
	{
		// Equality
		checkExpression(t, "1 == 1", "true")
		checkExpression(t, "1 != 1", "false")
		checkExpression(t, `1 == "1"`, "false")
		checkExpression(t, `"test" == "test"`, "true")
		checkExpression(t, `"test" != "other"`, "true")
		checkExpression(t, "nil == nil", "true")
		checkExpression(t, "nil == false", "false")
		checkExpression(t, "true == true", "true")
		checkExpression(t, "1 + 2 == 3", "true")

		// Number gt
		checkExpression(t, "10 > 5", "true")

		// Number lt
		checkExpression(t, "10 < 5", "false")

		// Number gte
		checkExpression(t, "5 >= 5", "true")
		checkExpression(t, "4 >= 5", "false")

		// Number lte
		checkExpression(t, "5 <= 5", "true")
		checkExpression(t, "10 <= 5", "false")

		// Grouping
		checkExpression(t, "(5 <= 5) and (!true or ((1 * (1 + 4)) == 5))", "true")
	}
}

func TestStatements(t *testing.T) {
	// Var
	checkStatements(t, "var a = 1;", "a", "1")
	checkStatements(t, "var a;", "a", "nil")
	checkStatements(t, "var a = 1; var a = 2;", "a", "2")

	// Assignment
	checkStatements(t, "var a = 1; a = a + 1;", "a", "2")
	checkStatements(t, "var a; var b; a = b = 3;", "a", "3")

	// If
	checkStatements(t, `var a = "no"; agar (1 < 2) a = "yes";`, "a", "yes")
	checkStatements(t, `var a; agar (nil) a = "then"; nhito a = "else";`, "a", "else")
	checkStatements(t, `var a = 0; agar (0) a = 1;`, "a", "1")

	// While without a block keeps the assignment in the current frame
	checkStatements(t, "var i = 0; jabTak (i < 3) i = i + 1;", "i", "3")

	// Class declarations have no runtime effect
	checkStatements(t, "class A { m(x) { likh x; } } var a = 2;", "a", "2")

	// Print sequence
	checkOutput(t, testConfig(), `likh 1; likh "two"; likh true;`, "1\ntwo\ntrue")
}

func TestSnapshotScoping(t *testing.T) {
	cfg := testConfig()

	// Outer mutations inside a block do not escape it
	checkOutput(t, cfg, "var x = 1; { x = 2; } likh x;", "1")

	// Blocks see outer values at entry
	checkOutput(t, cfg, "var x = 1; { likh x; x = 3; likh x; }", "1\n3")

	// Nested blocks
	checkOutput(t, cfg, "var x = 1; { x = 2; { x = 3; } likh x; } likh x;", "2\n1")

	// Declarations stay inside their block
	checkErrorMsgWith(t, cfg, "{ var y = 1; }\nlikh y;", "Undefined variable: y", 2)

	// Calls only see their parameters
	checkErrorMsgWith(t, cfg, "var y = 1; functio f() { dede y; } f();", "Undefined variable: y", 1)
	checkOutput(t, cfg, "var y = 1; functio f(y) { dede y + 1; } likh f(5);", "6")
}

func TestLexicalScoping(t *testing.T) {
	cfg := lexicalConfig()

	// Outer mutations inside a block are visible afterwards
	checkOutput(t, cfg, "var x = 1; { x = 2; } likh x;", "2")

	// Shadowing
	checkOutput(t, cfg, "var x = 1; { var x = 2; likh x; } likh x;", "2\n1")

	// Declarations stay inside their block
	checkErrorMsgWith(t, cfg, "{ var y = 1; }\nlikh y;", "Undefined variable: y", 2)

	// Closures
	checkOutput(t, cfg, `
functio makeCounter() {
	var i = 0;
	functio count() {
		i = i + 1;
		dede i;
	}
	dede count;
}
var counter = makeCounter();
counter();
likh counter();
`, "2")

	// Recursion
	checkOutput(t, cfg, `
functio fib(n) {
	agar (n < 2) dede n;
	dede fib(n - 1) + fib(n - 2);
}
likh fib(10);
`, "55")

	// For loops
	checkOutput(t, cfg, "for (var i = 0; i < 3; i = i + 1) likh i;", "0\n1\n2")
	checkOutput(t, cfg, "var i = 0; for (; i < 2;) { i = i + 1; } likh i;", "2")

	// While with a block body
	checkOutput(t, cfg, "var i = 0; jabTak (i < 3) { i = i + 1; } likh i;", "3")
}

func TestFunctions(t *testing.T) {
	cfg := testConfig()

	// Return values reach the caller
	checkOutput(t, cfg, "functio f(x) { dede x; } likh f(3);", "3")

	// No return yields nil
	checkOutput(t, cfg, "functio f() { } likh f();", "nil")
	checkOutput(t, cfg, "functio f() { dede; } likh f();", "nil")

	// Return stops the body
	checkOutput(t, cfg, "functio f() { likh 1; dede; likh 2; } f();", "1")

	// Return from nested statements
	checkOutput(t, cfg, "functio f() { jabTak (true) { agar (true) { dede 5; } } } likh f();", "5")

	// Arguments are evaluated left to right
	checkOutput(t, cfg, "functio f(a, b) { dede a - b; } likh f(10, 4);", "6")

	// Functions are values
	checkOutput(t, cfg, "functio f() { } likh f;", "<fn f>")
	checkOutput(t, cfg, "functio f() { } var g = f; likh g == f;", "true")
	checkOutput(t, cfg, "functio f() { dede 1; } functio g() { dede 1; } likh f == g;", "false")

	// Chained calls
	checkOutput(t, lexicalConfig(), "functio f() { functio g() { dede 7; } dede g; } likh f()();", "7")

	// A top level return stops the program quietly
	checkOutput(t, cfg, "likh 1; dede; likh 2;", "1")

	// Zero arity
	checkOutput(t, cfg, "functio f() { dede 1; } likh f();", "1")
}

func TestDialects(t *testing.T) {
	cfg := testConfig()
	cfg.Dialect = DialectEnglish

	checkOutput(t, cfg, `
fun twice(x) { return x * 2; }
if (twice(2) == 4) print "four"; else print "other";
var i = 0;
while (i < 2) i = i + 1;
print i;
`, "four\n2")

	// Lin keywords are plain identifiers in the english dialect
	tp := &testPrinter{}
	if RunSourceWithPrinter("var likh = 1; print likh;", cfg, tp); !tp.Equals("1") {
		t.Errorf("unexpected output %q", tp.printed)
	}

	cfg.Dialect = "klingon"
	tp = &testPrinter{}
	if RunSourceWithPrinter("print 1;", cfg, tp) {
		t.Error("unknown dialect should fail")
	}
}

func TestErrors(t *testing.T) {
	// Arithmetic on non numbers
	checkErrorMsg(t, `likh "a" + "b";`, "Operands must be numbers: +", 1)
	checkErrorMsg(t, `likh 1 < "b";`, "Operands must be numbers: <", 1)
	checkErrorMsg(t, `likh -"a";`, "Operand must be a number: -", 1)

	// Division by zero
	checkErrorMsg(t, "likh 1 / 0;", "Division by zero: /", 1)
	checkErrorMsg(t, "likh 1 % 0;", "Division by zero: %", 1)

	// Undefined variables
	checkErrorMsg(t, "likh x;", "Undefined variable: x", 1)
	checkErrorMsg(t, "x = 1;", "Undefined variable: x", 1)
	checkErrorMsg(t, "\n\nlikh x;", "Undefined variable: x", 3)

	// Calls
	checkErrorMsg(t, "var a = 1; a();", "Can only call functions: )", 1)
	checkErrorMsg(t, `"f"();`, "Can only call functions: )", 1)
	checkErrorMsg(
		t,
		"functio f() { } f(1);",
		"Invalid number of arguments: )\n\tExpected 0 arguments but got 1.",
		1,
	)
	checkErrorMsg(
		t,
		"functio f(a, b) { } f(1);",
		"Invalid number of arguments: )\n\tExpected 2 arguments but got 1.",
		1,
	)
	checkErrorMsgWith(t, lexicalConfig(), "functio f() { dede f(); } f();", "Stack overflow: )", 1)

	// Execution stops at the first runtime error
	tp := &testPrinter{}
	RunSourceWithPrinter("likh 1; likh x; likh 2;", testConfig(), tp)
	if !tp.Equals("1\nRuntime Error on line 1\n\tUndefined variable: x") {
		t.Errorf("unexpected output %q", tp.printed)
	}
}

func TestRuntimeErrorTaxonomy(t *testing.T) {
	state := newInterpreterState("likh x;", &testPrinter{}, quietLogger())
	state.tokens = newLexer(state.source, nil).scan()
	state.stmts = newParser(state.tokens, state).parse()

	rErr := newExec(state, ScopeSnapshot, newImporter(testConfig())).interpret()
	if rErr == nil {
		t.Fatal("expected a runtime error")
	}
	if !errors.Is(rErr, ErrRuntime) || !errors.Is(rErr, errUndefinedVar) {
		t.Errorf("runtime error should match ErrRuntime and its kind: %v", rErr)
	}
	if errors.Is(rErr, ErrParse) || errors.Is(rErr, ErrLex) {
		t.Errorf("runtime error matches another class: %v", rErr)
	}
	if rErr.Line != 1 || rErr.Lexeme != "x" {
		t.Errorf("unexpected position %d %q", rErr.Line, rErr.Lexeme)
	}
}

func BenchmarkLoop(b *testing.B) {
	source := `
var a = 1;
jabTak (a < 100000) a = a + 1;
`
	for i := 0; i < b.N; i++ {
		RunSourceWithPrinter(source, testConfig(), &testPrinter{})
	}
}
