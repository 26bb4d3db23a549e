package main

import (
	"fmt"
	"go/format"
	"log"
	"os"
	"strings"
)

// Regenerate with:
//
//	go run ./cmd/ast Expr > internal/expr.go
//	go run ./cmd/ast Stmt > internal/stmt.go

var nodes = map[string][]string{
	"Stmt": {
		"Block: stmts []stmt",
		"Class: name *token, superclass *variableExpr, methods []*fnStmt",
		"Expr: expression expr",
		"Fn: name *token, params []*token, body []stmt",
		"If: keyword *token, condition expr, thenBranch stmt, elseBranch stmt",
		"Print: keyword *token, expression expr",
		"Return: keyword *token, value expr",
		"Var: name *token, initializer expr",
		"While: keyword *token, condition expr, body stmt",
		"Import: keyword *token, function string, pkg string",
	},
	"Expr": {
		"Assign: name *token, value expr",
		"Binary: left expr, operator *token, right expr",
		"Call: callee expr, paren *token, arguments []expr",
		"Grouping: expression expr",
		"Literal: value interface{}",
		"Logical: left expr, operator *token, right expr",
		"Unary: operator *token, right expr",
		"Variable: name *token",
	},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: ast Expr|Stmt")
		os.Exit(2)
	}
	types, ok := nodes[os.Args[1]]
	if !ok {
		log.Fatalf("unknown node family %q", os.Args[1])
	}
	out, err := format.Source([]byte(generateAst(os.Args[1], types)))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(out))
}

func generateAst(baseName string, types []string) string {
	out := "package internal\n\n"

	// Start base interface
	out += "type " + strings.ToLower(baseName) + " interface {\n"
	out += "\taccept(" + strings.ToLower(baseName) + "Visitor) R\n"
	out += "}\n\n"
	// End base interface

	// Start Visitor interface
	out += fmt.Sprintf("type %sVisitor interface {\n", strings.ToLower(baseName))
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		name := strings.TrimSpace(typeDef[0])
		structType := strings.ToLower(string(name[0])) + name[1:] + baseName
		out += "\tvisit" + name + baseName + "(" + strings.ToLower(baseName) + " *" + structType + ") R\n"
	}
	out += "}\n\n"
	// End Visitor interface

	// Start structs
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		structName := strings.TrimSpace(typeDef[0])
		structFields := strings.TrimSpace(typeDef[1])
		out += generateType(baseName, structName, structFields)
	}
	// End structs

	return out
}

func generateType(baseName, name, fields string) string {
	// Start Structure Definition
	structName := strings.ToLower(string(name[0])) + name[1:] + baseName
	out := "type " + structName + " struct {\n"
	for _, field := range strings.Split(fields, ",") {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"
	// End Structure Definition

	// Start Method Definition
	out += "func (s *" + structName + ") accept(visitor " + strings.ToLower(baseName) + "Visitor) R {\n"
	out += "\treturn visitor.visit" + name + baseName + "(s)\n"
	out += "}\n\n"
	// End Method Definition

	return out
}
