package internal

const maxFunctionParams = 255

// parser stores parser data
type parser struct {
	current int
	tokens  []token

	state *interpreterState
}

func newParser(tokens []token, state *interpreterState) *parser {
	return &parser{
		tokens: tokens,
		state:  state,
	}
}

func (p *parser) parse() []stmt {
	var stmts []stmt
	for !p.isAtEnd() {
		// Declarations that failed to parse were already reported,
		// they are dropped here.
		if st := p.parseStmt(); st != nil {
			stmts = append(stmts, st)
		}
	}
	return stmts
}

// parseStmt parses one declaration. A declaration aborted without consuming
// anything skips the offending token so the caller always makes progress.
func (p *parser) parseStmt() (s stmt) {
	start := p.current
	defer func() {
		if r := recover(); r != nil {
			if _, isAbort := r.(parseAbort); !isAbort {
				panic(r)
			}
			s = nil
			if p.current == start {
				p.advance()
			}
		}
	}()
	return p.declaration()
}

func (p *parser) declaration() stmt {
	if p.match(tkVar) {
		return p.varDeclaration()
	}
	if p.match(tkFun) {
		return p.function("function")
	}
	if p.match(tkClass) {
		return p.class()
	}
	if p.match(tkImport) {
		return p.importDeclaration()
	}
	return p.statement()
}

func (p *parser) varDeclaration() stmt {
	name := p.consume(tkIdentifier, errExpectedVarName)

	var init expr
	if p.match(tkEqual) {
		init = p.expression()
	}
	p.consume(tkSemicolon, errExpectedSemicolonVar)

	return &varStmt{
		name:        name,
		initializer: init,
	}
}

func (p *parser) class() stmt {
	name := p.consume(tkIdentifier, errExpectedClassName)

	var superclass *variableExpr
	if p.match(tkLess) {
		superclass = &variableExpr{
			name: p.consume(tkIdentifier, errExpectedSuperclassName),
		}
	}

	p.consume(tkLeftCurlyBrace, errExpectedClassBody)

	var methods []*fnStmt
	for !p.check(tkRightCurlyBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(tkRightCurlyBrace, errUnclosedClassBody)

	return &classStmt{
		name:       name,
		superclass: superclass,
		methods:    methods,
	}
}

func (p *parser) function(kind string) *fnStmt {
	name := p.consume(tkIdentifier, errExpectedName(kind))

	p.consume(tkLeftParen, errExpectedOpenParen(kind+" name"))

	var params []*token
	if !p.check(tkRightParen) {
		for {
			if len(params) >= maxFunctionParams {
				p.state.setError(errMaxParameters, p.peek())
			}
			params = append(params, p.consume(tkIdentifier, errExpectedParamName))
			if !p.match(tkComma) {
				break
			}
		}
	}
	p.consume(tkRightParen, errUnclosedParams)

	p.consume(tkLeftCurlyBrace, errExpectedFunctionBody)
	body := p.block()

	return &fnStmt{
		name:   name,
		params: params,
		body:   body,
	}
}

func (p *parser) importDeclaration() stmt {
	keyword := p.previous()
	function := p.consume(tkString, errExpectedImportName)
	p.consume(tkFrom, errExpectedFrom)
	pkg := p.consume(tkString, errExpectedPackageName)
	p.consume(tkSemicolon, errExpectedSemicolonImport)
	return &importStmt{
		keyword:  keyword,
		function: function.literal.(string),
		pkg:      pkg.literal.(string),
	}
}

func (p *parser) statement() stmt {
	if p.match(tkPrint) {
		return p.printStatement()
	}
	if p.match(tkReturn) {
		return p.ret()
	}
	if p.match(tkLeftCurlyBrace) {
		return &blockStmt{stmts: p.block()}
	}
	if p.match(tkIf) {
		return p.ifStatement()
	}
	if p.match(tkWhile) {
		return p.while()
	}
	if p.match(tkFor) {
		return p.forLoop()
	}
	return p.expressionStmt()
}

func (p *parser) printStatement() stmt {
	keyword := p.previous()
	value := p.expression()
	p.consume(tkSemicolon, errExpectedSemicolonValue)
	return &printStmt{
		keyword:    keyword,
		expression: value,
	}
}

func (p *parser) ret() stmt {
	keyword := p.previous()
	var value expr
	if !p.check(tkSemicolon) {
		value = p.expression()
	}
	p.consume(tkSemicolon, errExpectedSemicolonReturn)
	return &returnStmt{
		keyword: keyword,
		value:   value,
	}
}

func (p *parser) ifStatement() stmt {
	keyword := p.previous()
	p.consume(tkLeftParen, errExpectedOpenParen("'"+keyword.lexeme+"'"))
	condition := p.expression()
	p.consume(tkRightParen, errExpectedCloseParen("condition"))

	st := &ifStmt{
		keyword:    keyword,
		condition:  condition,
		thenBranch: p.statement(),
	}
	if p.match(tkElse) {
		st.elseBranch = p.statement()
	}
	return st
}

func (p *parser) while() stmt {
	keyword := p.previous()
	p.consume(tkLeftParen, errExpectedOpenParen("'"+keyword.lexeme+"'"))
	condition := p.expression()
	p.consume(tkRightParen, errExpectedCloseParen("condition"))
	return &whileStmt{
		keyword:   keyword,
		condition: condition,
		body:      p.statement(),
	}
}

// forLoop desugars into
// { initializer; while (condition) { body; increment; } }
func (p *parser) forLoop() stmt {
	keyword := p.previous()
	p.consume(tkLeftParen, errExpectedOpenParen("'"+keyword.lexeme+"'"))

	var initializer stmt
	if p.match(tkSemicolon) {
		initializer = nil
	} else if p.match(tkVar) {
		initializer = p.varDeclaration()
	} else {
		initializer = p.expressionStmt()
	}

	var condition expr
	if !p.check(tkSemicolon) {
		condition = p.expression()
	}
	p.consume(tkSemicolon, errExpectedSemicolonLoop)

	var increment expr
	if !p.check(tkRightParen) {
		increment = p.expression()
	}
	p.consume(tkRightParen, errExpectedCloseParen("for clauses"))

	body := p.statement()
	if increment != nil {
		body = &blockStmt{stmts: []stmt{body, &exprStmt{expression: increment}}}
	}
	if condition == nil {
		condition = &literalExpr{value: true}
	}
	body = &whileStmt{
		keyword:   keyword,
		condition: condition,
		body:      body,
	}
	if initializer != nil {
		body = &blockStmt{stmts: []stmt{initializer, body}}
	}
	return body
}

func (p *parser) block() []stmt {
	var stmts []stmt
	for !p.check(tkRightCurlyBrace) && !p.isAtEnd() {
		if st := p.parseStmt(); st != nil {
			stmts = append(stmts, st)
		}
	}
	p.consume(tkRightCurlyBrace, errUnclosedBlock)
	return stmts
}

func (p *parser) expressionStmt() stmt {
	expr := p.expression()
	p.consume(tkSemicolon, errExpectedSemicolonExpr)
	return &exprStmt{expression: expr}
}

func (p *parser) expression() expr {
	return p.assignment()
}

func (p *parser) assignment() expr {
	expr := p.or()
	if p.match(tkEqual) {
		equals := p.previous()
		value := p.assignment()

		if variable, isVar := expr.(*variableExpr); isVar {
			return &assignExpr{
				name:  variable.name,
				value: value,
			}
		}

		p.state.setError(errInvalidAssignment, equals)
	}
	return expr
}

func (p *parser) or() expr {
	expr := p.and()
	for p.match(tkOr) {
		operator := p.previous()
		right := p.and()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) and() expr {
	expr := p.equality()
	for p.match(tkAnd) {
		operator := p.previous()
		right := p.equality()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) equality() expr {
	expr := p.comparison()
	for p.match(tkEqualEqual, tkBangEqual) {
		operator := p.previous()
		right := p.comparison()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) comparison() expr {
	expr := p.addition()
	for p.match(tkGreater, tkGreaterEqual, tkLess, tkLessEqual) {
		operator := p.previous()
		right := p.addition()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) addition() expr {
	expr := p.multiplication()
	for p.match(tkPlus, tkMinus) {
		operator := p.previous()
		right := p.multiplication()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) multiplication() expr {
	expr := p.unary()
	for p.match(tkSlash, tkMod, tkStar) {
		operator := p.previous()
		right := p.unary()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) unary() expr {
	if p.match(tkBang, tkMinus) {
		operator := p.previous()
		right := p.unary()
		return &unaryExpr{
			operator: operator,
			right:    right,
		}
	}
	return p.call()
}

func (p *parser) call() expr {
	expr := p.primary()
	for p.match(tkLeftParen) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *parser) finishCall(callee expr) expr {
	arguments := make([]expr, 0)
	if !p.check(tkRightParen) {
		for {
			if len(arguments) >= maxFunctionParams {
				p.state.setError(errMaxArguments, p.peek())
			}
			arguments = append(arguments, p.expression())
			if !p.match(tkComma) {
				break
			}
		}
	}
	paren := p.consume(tkRightParen, errUnclosedArguments)
	return &callExpr{
		callee:    callee,
		paren:     paren,
		arguments: arguments,
	}
}

func (p *parser) primary() expr {
	if p.match(tkFalse) {
		return &literalExpr{value: false}
	}
	if p.match(tkTrue) {
		return &literalExpr{value: true}
	}
	if p.match(tkNil) {
		return &literalExpr{value: nil}
	}
	if p.match(tkNumber, tkString) {
		return &literalExpr{value: p.previous().literal}
	}
	if p.match(tkIdentifier) {
		return &variableExpr{name: p.previous()}
	}
	if p.match(tkLeftParen) {
		expr := p.expression()
		p.consume(tkRightParen, errUnclosedParen)
		return &groupingExpr{expression: expr}
	}

	p.state.fatalError(errExpectedExpr, p.peek())
	return nil
}

func (p *parser) consume(tk tokenType, err error) *token {
	if p.check(tk) {
		return p.advance()
	}

	p.state.fatalError(err, p.peek())
	return nil
}

func (p *parser) advance() *token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(tokens ...tokenType) bool {
	for _, tk := range tokens {
		if p.check(tk) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(tk tokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().token == tk
}

func (p *parser) peek() *token {
	return &p.tokens[p.current]
}

func (p *parser) previous() *token {
	return &p.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().token == tkEOF
}
