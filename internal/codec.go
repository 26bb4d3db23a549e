package internal

import (
	"errors"
	"fmt"

	"lin/internal/lockfile"
)

var errMalformedRecord = errors.New("malformed function record")

// encoder turns syntax trees into lock file records
type encoder struct{}

func encodeToken(tk *token) lockfile.Token {
	return lockfile.Token{
		Kind:   tk.token.String(),
		Lexeme: tk.lexeme,
		Line:   tk.line,
	}
}

func encodeTokenRef(tk *token) *lockfile.Token {
	if tk == nil {
		return nil
	}
	encoded := encodeToken(tk)
	return &encoded
}

func (v encoder) stmt(s stmt) *lockfile.Node {
	if s == nil {
		return nil
	}
	return s.accept(v).(*lockfile.Node)
}

func (v encoder) expr(e expr) *lockfile.Node {
	if e == nil {
		return nil
	}
	return e.accept(v).(*lockfile.Node)
}

func (v encoder) stmts(stmts []stmt) []*lockfile.Node {
	nodes := make([]*lockfile.Node, 0, len(stmts))
	for _, s := range stmts {
		nodes = append(nodes, v.stmt(s))
	}
	return nodes
}

// encodeFunction returns the canonical record of a function declaration
func encodeFunction(fn *fnStmt) *lockfile.Function {
	params := make([]lockfile.Token, 0, len(fn.params))
	for _, param := range fn.params {
		params = append(params, encodeToken(param))
	}
	return &lockfile.Function{
		Name:   encodeToken(fn.name),
		Params: params,
		Body:   encoder{}.stmts(fn.body),
	}
}

func (v encoder) visitBlockStmt(stmt *blockStmt) R {
	return &lockfile.Node{Kind: "Block", Stmts: v.stmts(stmt.stmts)}
}

func (v encoder) visitClassStmt(stmt *classStmt) R {
	node := &lockfile.Node{Kind: "Class", Name: encodeTokenRef(stmt.name)}
	if stmt.superclass != nil {
		node.Superclass = encodeTokenRef(stmt.superclass.name)
	}
	for _, method := range stmt.methods {
		node.Methods = append(node.Methods, v.stmt(method))
	}
	return node
}

func (v encoder) visitExprStmt(stmt *exprStmt) R {
	return &lockfile.Node{Kind: "Expression", Expression: v.expr(stmt.expression)}
}

func (v encoder) visitFnStmt(stmt *fnStmt) R {
	fn := encodeFunction(stmt)
	return &lockfile.Node{
		Kind:   "Function",
		Name:   &fn.Name,
		Params: fn.Params,
		Body:   fn.Body,
	}
}

func (v encoder) visitIfStmt(stmt *ifStmt) R {
	return &lockfile.Node{
		Kind:      "If",
		Keyword:   encodeTokenRef(stmt.keyword),
		Condition: v.expr(stmt.condition),
		Then:      v.stmt(stmt.thenBranch),
		Else:      v.stmt(stmt.elseBranch),
	}
}

func (v encoder) visitPrintStmt(stmt *printStmt) R {
	return &lockfile.Node{
		Kind:       "Print",
		Keyword:    encodeTokenRef(stmt.keyword),
		Expression: v.expr(stmt.expression),
	}
}

func (v encoder) visitReturnStmt(stmt *returnStmt) R {
	return &lockfile.Node{
		Kind:    "Return",
		Keyword: encodeTokenRef(stmt.keyword),
		Value:   v.expr(stmt.value),
	}
}

func (v encoder) visitVarStmt(stmt *varStmt) R {
	return &lockfile.Node{
		Kind:        "Var",
		Name:        encodeTokenRef(stmt.name),
		Initializer: v.expr(stmt.initializer),
	}
}

func (v encoder) visitWhileStmt(stmt *whileStmt) R {
	return &lockfile.Node{
		Kind:      "While",
		Keyword:   encodeTokenRef(stmt.keyword),
		Condition: v.expr(stmt.condition),
		Loop:      v.stmt(stmt.body),
	}
}

func (v encoder) visitImportStmt(stmt *importStmt) R {
	return &lockfile.Node{
		Kind:     "Import",
		Keyword:  encodeTokenRef(stmt.keyword),
		Function: stmt.function,
		Package:  stmt.pkg,
	}
}

func (v encoder) visitAssignExpr(expr *assignExpr) R {
	return &lockfile.Node{Kind: "Assign", Name: encodeTokenRef(expr.name), Value: v.expr(expr.value)}
}

func (v encoder) visitBinaryExpr(expr *binaryExpr) R {
	return &lockfile.Node{
		Kind:     "Binary",
		Left:     v.expr(expr.left),
		Operator: encodeTokenRef(expr.operator),
		Right:    v.expr(expr.right),
	}
}

func (v encoder) visitCallExpr(expr *callExpr) R {
	arguments := make([]*lockfile.Node, 0, len(expr.arguments))
	for _, arg := range expr.arguments {
		arguments = append(arguments, v.expr(arg))
	}
	return &lockfile.Node{
		Kind:      "Call",
		Callee:    v.expr(expr.callee),
		Paren:     encodeTokenRef(expr.paren),
		Arguments: arguments,
	}
}

func (v encoder) visitGroupingExpr(expr *groupingExpr) R {
	return &lockfile.Node{Kind: "Grouping", Expression: v.expr(expr.expression)}
}

func (v encoder) visitLiteralExpr(expr *literalExpr) R {
	return &lockfile.Node{Kind: "Literal", Literal: &lockfile.Literal{Value: expr.value}}
}

func (v encoder) visitLogicalExpr(expr *logicalExpr) R {
	return &lockfile.Node{
		Kind:     "Logical",
		Left:     v.expr(expr.left),
		Operator: encodeTokenRef(expr.operator),
		Right:    v.expr(expr.right),
	}
}

func (v encoder) visitUnaryExpr(expr *unaryExpr) R {
	return &lockfile.Node{Kind: "Unary", Operator: encodeTokenRef(expr.operator), Right: v.expr(expr.right)}
}

func (v encoder) visitVariableExpr(expr *variableExpr) R {
	return &lockfile.Node{Kind: "Variable", Name: encodeTokenRef(expr.name)}
}

// decodeFunction rebuilds a function declaration from its canonical record
func decodeFunction(fn *lockfile.Function) (*fnStmt, error) {
	name, err := decodeToken(&fn.Name)
	if err != nil {
		return nil, err
	}
	params := make([]*token, 0, len(fn.Params))
	for i := range fn.Params {
		param, err := decodeToken(&fn.Params[i])
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	body, err := decodeStmts(fn.Body)
	if err != nil {
		return nil, err
	}
	return &fnStmt{name: name, params: params, body: body}, nil
}

func decodeToken(tk *lockfile.Token) (*token, error) {
	if tk == nil {
		return nil, fmt.Errorf("%w: missing token", errMalformedRecord)
	}
	kind, ok := tokenTypeByName(tk.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown token kind %q", errMalformedRecord, tk.Kind)
	}
	return &token{token: kind, lexeme: tk.Lexeme, line: tk.Line}, nil
}

func decodeStmts(nodes []*lockfile.Node) ([]stmt, error) {
	stmts := make([]stmt, 0, len(nodes))
	for _, node := range nodes {
		st, err := decodeStmt(node)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return stmts, nil
}

// decodeOptionalStmt decodes an absent node as a nil statement
func decodeOptionalStmt(node *lockfile.Node) (stmt, error) {
	if node == nil {
		return nil, nil
	}
	return decodeStmt(node)
}

func decodeOptionalExpr(node *lockfile.Node) (expr, error) {
	if node == nil {
		return nil, nil
	}
	return decodeExpr(node)
}

func decodeStmt(node *lockfile.Node) (stmt, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: missing statement", errMalformedRecord)
	}
	switch node.Kind {
	case "Block":
		stmts, err := decodeStmts(node.Stmts)
		if err != nil {
			return nil, err
		}
		return &blockStmt{stmts: stmts}, nil

	case "Class":
		name, err := decodeToken(node.Name)
		if err != nil {
			return nil, err
		}
		st := &classStmt{name: name}
		if node.Superclass != nil {
			superclass, err := decodeToken(node.Superclass)
			if err != nil {
				return nil, err
			}
			st.superclass = &variableExpr{name: superclass}
		}
		for _, m := range node.Methods {
			method, err := decodeStmt(m)
			if err != nil {
				return nil, err
			}
			fn, isFn := method.(*fnStmt)
			if !isFn {
				return nil, fmt.Errorf("%w: class method is a %s", errMalformedRecord, m.Kind)
			}
			st.methods = append(st.methods, fn)
		}
		return st, nil

	case "Expression":
		expression, err := decodeExpr(node.Expression)
		if err != nil {
			return nil, err
		}
		return &exprStmt{expression: expression}, nil

	case "Function":
		return decodeFunction(&lockfile.Function{
			Name:   derefToken(node.Name),
			Params: node.Params,
			Body:   node.Body,
		})

	case "If":
		keyword, err := decodeToken(node.Keyword)
		if err != nil {
			return nil, err
		}
		condition, err := decodeExpr(node.Condition)
		if err != nil {
			return nil, err
		}
		thenBranch, err := decodeStmt(node.Then)
		if err != nil {
			return nil, err
		}
		elseBranch, err := decodeOptionalStmt(node.Else)
		if err != nil {
			return nil, err
		}
		return &ifStmt{keyword: keyword, condition: condition, thenBranch: thenBranch, elseBranch: elseBranch}, nil

	case "Print":
		keyword, err := decodeToken(node.Keyword)
		if err != nil {
			return nil, err
		}
		expression, err := decodeExpr(node.Expression)
		if err != nil {
			return nil, err
		}
		return &printStmt{keyword: keyword, expression: expression}, nil

	case "Return":
		keyword, err := decodeToken(node.Keyword)
		if err != nil {
			return nil, err
		}
		value, err := decodeOptionalExpr(node.Value)
		if err != nil {
			return nil, err
		}
		return &returnStmt{keyword: keyword, value: value}, nil

	case "Var":
		name, err := decodeToken(node.Name)
		if err != nil {
			return nil, err
		}
		initializer, err := decodeOptionalExpr(node.Initializer)
		if err != nil {
			return nil, err
		}
		return &varStmt{name: name, initializer: initializer}, nil

	case "While":
		keyword, err := decodeToken(node.Keyword)
		if err != nil {
			return nil, err
		}
		condition, err := decodeExpr(node.Condition)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(node.Loop)
		if err != nil {
			return nil, err
		}
		return &whileStmt{keyword: keyword, condition: condition, body: body}, nil

	case "Import":
		keyword, err := decodeToken(node.Keyword)
		if err != nil {
			return nil, err
		}
		return &importStmt{keyword: keyword, function: node.Function, pkg: node.Package}, nil
	}
	return nil, fmt.Errorf("%w: unknown statement kind %q", errMalformedRecord, node.Kind)
}

func decodeExpr(node *lockfile.Node) (expr, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: missing expression", errMalformedRecord)
	}
	switch node.Kind {
	case "Assign":
		name, err := decodeToken(node.Name)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(node.Value)
		if err != nil {
			return nil, err
		}
		return &assignExpr{name: name, value: value}, nil

	case "Binary", "Logical":
		left, err := decodeExpr(node.Left)
		if err != nil {
			return nil, err
		}
		operator, err := decodeToken(node.Operator)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(node.Right)
		if err != nil {
			return nil, err
		}
		if node.Kind == "Logical" {
			return &logicalExpr{left: left, operator: operator, right: right}, nil
		}
		return &binaryExpr{left: left, operator: operator, right: right}, nil

	case "Call":
		callee, err := decodeExpr(node.Callee)
		if err != nil {
			return nil, err
		}
		paren, err := decodeToken(node.Paren)
		if err != nil {
			return nil, err
		}
		arguments := make([]expr, 0, len(node.Arguments))
		for _, a := range node.Arguments {
			arg, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
		}
		return &callExpr{callee: callee, paren: paren, arguments: arguments}, nil

	case "Grouping":
		expression, err := decodeExpr(node.Expression)
		if err != nil {
			return nil, err
		}
		return &groupingExpr{expression: expression}, nil

	case "Literal":
		if node.Literal == nil {
			return nil, fmt.Errorf("%w: literal without value", errMalformedRecord)
		}
		switch node.Literal.Value.(type) {
		case nil, float64, string, bool:
			return &literalExpr{value: node.Literal.Value}, nil
		}
		return nil, fmt.Errorf("%w: unsupported literal %v", errMalformedRecord, node.Literal.Value)

	case "Unary":
		operator, err := decodeToken(node.Operator)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(node.Right)
		if err != nil {
			return nil, err
		}
		return &unaryExpr{operator: operator, right: right}, nil

	case "Variable":
		name, err := decodeToken(node.Name)
		if err != nil {
			return nil, err
		}
		return &variableExpr{name: name}, nil
	}
	return nil, fmt.Errorf("%w: unknown expression kind %q", errMalformedRecord, node.Kind)
}

func derefToken(tk *lockfile.Token) lockfile.Token {
	if tk == nil {
		return lockfile.Token{}
	}
	return *tk
}
