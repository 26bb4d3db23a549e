package internal

import (
	"fmt"
	"strings"
)

//R generic type
type R interface{}

// astPrinter renders trees as S-expressions
type astPrinter struct{}

func (v astPrinter) print(s stmt) string {
	return s.accept(v).(string)
}

func (v astPrinter) parenthesize(name string, parts ...interface{}) string {
	out := "(" + name
	for _, part := range parts {
		switch p := part.(type) {
		case expr:
			out += " " + p.accept(v).(string)
		case stmt:
			out += " " + p.accept(v).(string)
		default:
			out += fmt.Sprintf(" %v", p)
		}
	}
	return out + ")"
}

func (v astPrinter) visitBlockStmt(stmt *blockStmt) R {
	parts := make([]interface{}, 0, len(stmt.stmts))
	for _, s := range stmt.stmts {
		parts = append(parts, s)
	}
	return v.parenthesize("block", parts...)
}

func (v astPrinter) visitClassStmt(stmt *classStmt) R {
	parts := []interface{}{stmt.name.lexeme}
	if stmt.superclass != nil {
		parts = append(parts, "<", stmt.superclass.name.lexeme)
	}
	for _, method := range stmt.methods {
		parts = append(parts, method)
	}
	return v.parenthesize("class", parts...)
}

func (v astPrinter) visitExprStmt(stmt *exprStmt) R {
	return stmt.expression.accept(v)
}

func (v astPrinter) visitFnStmt(stmt *fnStmt) R {
	params := make([]string, 0, len(stmt.params))
	for _, param := range stmt.params {
		params = append(params, param.lexeme)
	}
	parts := []interface{}{stmt.name.lexeme, "(" + strings.Join(params, " ") + ")"}
	for _, s := range stmt.body {
		parts = append(parts, s)
	}
	return v.parenthesize("fun", parts...)
}

func (v astPrinter) visitIfStmt(stmt *ifStmt) R {
	if stmt.elseBranch == nil {
		return v.parenthesize("if", stmt.condition, stmt.thenBranch)
	}
	return v.parenthesize("if", stmt.condition, stmt.thenBranch, stmt.elseBranch)
}

func (v astPrinter) visitPrintStmt(stmt *printStmt) R {
	return v.parenthesize("print", stmt.expression)
}

func (v astPrinter) visitReturnStmt(stmt *returnStmt) R {
	if stmt.value == nil {
		return "(return)"
	}
	return v.parenthesize("return", stmt.value)
}

func (v astPrinter) visitVarStmt(stmt *varStmt) R {
	if stmt.initializer == nil {
		return v.parenthesize("var", stmt.name.lexeme)
	}
	return v.parenthesize("var", stmt.name.lexeme, stmt.initializer)
}

func (v astPrinter) visitWhileStmt(stmt *whileStmt) R {
	return v.parenthesize("while", stmt.condition, stmt.body)
}

func (v astPrinter) visitImportStmt(stmt *importStmt) R {
	return fmt.Sprintf("(import %q from %q)", stmt.function, stmt.pkg)
}

func (v astPrinter) visitAssignExpr(expr *assignExpr) R {
	return v.parenthesize("assign", expr.name.lexeme, expr.value)
}

func (v astPrinter) visitBinaryExpr(expr *binaryExpr) R {
	return v.parenthesize(expr.operator.lexeme, expr.left, expr.right)
}

func (v astPrinter) visitCallExpr(expr *callExpr) R {
	parts := []interface{}{expr.callee}
	for _, arg := range expr.arguments {
		parts = append(parts, arg)
	}
	return v.parenthesize("call", parts...)
}

func (v astPrinter) visitGroupingExpr(expr *groupingExpr) R {
	return v.parenthesize("group", expr.expression)
}

func (v astPrinter) visitLiteralExpr(expr *literalExpr) R {
	return repr(expr.value)
}

func (v astPrinter) visitLogicalExpr(expr *logicalExpr) R {
	return v.parenthesize(expr.operator.lexeme, expr.left, expr.right)
}

func (v astPrinter) visitUnaryExpr(expr *unaryExpr) R {
	return v.parenthesize(expr.operator.lexeme, expr.right)
}

func (v astPrinter) visitVariableExpr(expr *variableExpr) R {
	return expr.name.lexeme
}

// sourcePrinter renders trees back into lin source using the keyword
// spellings of one dialect. Parsing its output yields the same tree.
type sourcePrinter struct {
	words map[tokenType]string
}

func newSourcePrinter(keywords map[string]tokenType) sourcePrinter {
	return sourcePrinter{words: spellings(keywords)}
}

func (v sourcePrinter) stmt(s stmt) string {
	return s.accept(v).(string)
}

func (v sourcePrinter) expr(e expr) string {
	return e.accept(v).(string)
}

func (v sourcePrinter) body(stmts []stmt) string {
	if len(stmts) == 0 {
		return "{ }"
	}
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		parts = append(parts, v.stmt(s))
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func (v sourcePrinter) signature(fn *fnStmt) string {
	params := make([]string, 0, len(fn.params))
	for _, param := range fn.params {
		params = append(params, param.lexeme)
	}
	return fn.name.lexeme + "(" + strings.Join(params, ", ") + ") " + v.body(fn.body)
}

func (v sourcePrinter) visitBlockStmt(stmt *blockStmt) R {
	return v.body(stmt.stmts)
}

func (v sourcePrinter) visitClassStmt(stmt *classStmt) R {
	out := v.words[tkClass] + " " + stmt.name.lexeme
	if stmt.superclass != nil {
		out += " < " + stmt.superclass.name.lexeme
	}
	methods := make([]string, 0, len(stmt.methods))
	for _, method := range stmt.methods {
		methods = append(methods, v.signature(method))
	}
	if len(methods) == 0 {
		return out + " { }"
	}
	return out + " { " + strings.Join(methods, " ") + " }"
}

func (v sourcePrinter) visitExprStmt(stmt *exprStmt) R {
	return v.expr(stmt.expression) + ";"
}

func (v sourcePrinter) visitFnStmt(stmt *fnStmt) R {
	return v.words[tkFun] + " " + v.signature(stmt)
}

func (v sourcePrinter) visitIfStmt(stmt *ifStmt) R {
	out := v.words[tkIf] + " (" + v.expr(stmt.condition) + ") " + v.stmt(stmt.thenBranch)
	if stmt.elseBranch != nil {
		out += " " + v.words[tkElse] + " " + v.stmt(stmt.elseBranch)
	}
	return out
}

func (v sourcePrinter) visitPrintStmt(stmt *printStmt) R {
	return v.words[tkPrint] + " " + v.expr(stmt.expression) + ";"
}

func (v sourcePrinter) visitReturnStmt(stmt *returnStmt) R {
	if stmt.value == nil {
		return v.words[tkReturn] + ";"
	}
	return v.words[tkReturn] + " " + v.expr(stmt.value) + ";"
}

func (v sourcePrinter) visitVarStmt(stmt *varStmt) R {
	if stmt.initializer == nil {
		return v.words[tkVar] + " " + stmt.name.lexeme + ";"
	}
	return v.words[tkVar] + " " + stmt.name.lexeme + " = " + v.expr(stmt.initializer) + ";"
}

func (v sourcePrinter) visitWhileStmt(stmt *whileStmt) R {
	return v.words[tkWhile] + " (" + v.expr(stmt.condition) + ") " + v.stmt(stmt.body)
}

func (v sourcePrinter) visitImportStmt(stmt *importStmt) R {
	return v.words[tkImport] + ` "` + stmt.function + `" ` + v.words[tkFrom] + ` "` + stmt.pkg + `";`
}

func (v sourcePrinter) visitAssignExpr(expr *assignExpr) R {
	return expr.name.lexeme + " = " + v.expr(expr.value)
}

func (v sourcePrinter) visitBinaryExpr(expr *binaryExpr) R {
	return v.expr(expr.left) + " " + expr.operator.lexeme + " " + v.expr(expr.right)
}

func (v sourcePrinter) visitCallExpr(expr *callExpr) R {
	args := make([]string, 0, len(expr.arguments))
	for _, arg := range expr.arguments {
		args = append(args, v.expr(arg))
	}
	return v.expr(expr.callee) + "(" + strings.Join(args, ", ") + ")"
}

func (v sourcePrinter) visitGroupingExpr(expr *groupingExpr) R {
	return "(" + v.expr(expr.expression) + ")"
}

func (v sourcePrinter) visitLiteralExpr(expr *literalExpr) R {
	switch value := expr.value.(type) {
	case string:
		return `"` + value + `"`
	case nil:
		return v.words[tkNil]
	case bool:
		if value {
			return v.words[tkTrue]
		}
		return v.words[tkFalse]
	}
	return stringify(expr.value)
}

func (v sourcePrinter) visitLogicalExpr(expr *logicalExpr) R {
	return v.expr(expr.left) + " " + v.words[expr.operator.token] + " " + v.expr(expr.right)
}

func (v sourcePrinter) visitUnaryExpr(expr *unaryExpr) R {
	return expr.operator.lexeme + v.expr(expr.right)
}

func (v sourcePrinter) visitVariableExpr(expr *variableExpr) R {
	return expr.name.lexeme
}
