package internal

import (
	"math"

	"github.com/edwingeng/deque"
	"github.com/sirupsen/logrus"
)

const maxCallDepth = 1024

type returnValue struct {
	value interface{}
}

type exec struct {
	state *interpreterState

	scoping Scoping
	env     *env
	// frames saved on block and call entry, restored on exit
	saved deque.Deque
	depth int

	importer *importer
}

func newExec(state *interpreterState, scoping Scoping, importer *importer) *exec {
	return &exec{
		state:    state,
		scoping:  scoping,
		env:      newEnv(state, nil),
		saved:    deque.NewDeque(),
		importer: importer,
	}
}

// interpret runs every statement in order. The first runtime error stops
// the program and is returned.
func (e *exec) interpret() (rErr *RuntimeError) {
	defer func() {
		if r := recover(); r != nil {
			failure, isRuntime := r.(*RuntimeError)
			if !isRuntime {
				panic(r)
			}
			rErr = failure
		}
	}()
	for _, s := range e.state.stmts {
		if _, isReturn := s.accept(e).(*returnValue); isReturn {
			e.state.logger.Debug("return at top level, stopping")
			return nil
		}
	}
	return nil
}

func (e *exec) visitExprStmt(stmt *exprStmt) R {
	stmt.expression.accept(e)
	return nil
}

func (e *exec) visitPrintStmt(stmt *printStmt) R {
	e.state.printer.Println(stringify(stmt.expression.accept(e)))
	return nil
}

func (e *exec) visitVarStmt(stmt *varStmt) R {
	var val interface{}
	if stmt.initializer != nil {
		val = stmt.initializer.accept(e)
	}
	e.env.define(stmt.name.lexeme, val)
	return nil
}

func (e *exec) visitBlockStmt(stmt *blockStmt) R {
	if e.scoping == ScopeLexical {
		return e.executeBlock(stmt.stmts, newEnv(e.state, e.env))
	}
	return e.executeBlock(stmt.stmts, e.env.snapshot())
}

// executeBlock runs stmts against frame and restores the current frame
// afterwards. A return signal stops the block and is passed up.
func (e *exec) executeBlock(stmts []stmt, frame *env) R {
	e.saved.PushBack(e.env)
	defer func() {
		e.env = e.saved.PopBack().(*env)
	}()
	e.env = frame
	for _, s := range stmts {
		if result := s.accept(e); result != nil {
			return result
		}
	}
	return nil
}

func (e *exec) visitClassStmt(stmt *classStmt) R {
	return nil
}

func (e *exec) visitWhileStmt(stmt *whileStmt) R {
	for truthy(stmt.condition.accept(e)) {
		if result := stmt.body.accept(e); result != nil {
			return result
		}
	}
	return nil
}

func (e *exec) visitReturnStmt(stmt *returnStmt) R {
	result := &returnValue{}
	if stmt.value != nil {
		result.value = stmt.value.accept(e)
	}
	return result
}

func (e *exec) visitIfStmt(stmt *ifStmt) R {
	if truthy(stmt.condition.accept(e)) {
		return stmt.thenBranch.accept(e)
	}
	if stmt.elseBranch != nil {
		return stmt.elseBranch.accept(e)
	}
	return nil
}

func (e *exec) visitFnStmt(stmt *fnStmt) R {
	e.declare(stmt)
	return nil
}

// declare binds a function value in the current frame
func (e *exec) declare(stmt *fnStmt) {
	fn := &function{declaration: stmt}
	if e.scoping == ScopeLexical {
		fn.closure = e.env
	}
	e.env.define(stmt.name.lexeme, fn)
}

func (e *exec) visitImportStmt(stmt *importStmt) R {
	e.state.logger.WithFields(logrus.Fields{
		"function": stmt.function,
		"package":  stmt.pkg,
	}).Debug("import")

	decl, err := e.importer.resolve(stmt.pkg, stmt.function)
	if err != nil {
		e.state.runtimeFailure(&RuntimeError{
			Line:   stmt.keyword.line,
			Lexeme: stmt.function,
			Kind:   errImportNotFound,
			Cause:  err,
		})
	}
	e.declare(decl)
	return nil
}

func (e *exec) visitAssignExpr(expr *assignExpr) R {
	val := expr.value.accept(e)
	e.env.assign(expr.name, val)
	return val
}

func (e *exec) visitBinaryExpr(expr *binaryExpr) R {
	left := expr.left.accept(e)
	right := expr.right.accept(e)
	switch expr.operator.token {
	case tkEqualEqual:
		return equals(left, right)
	case tkBangEqual:
		return !equals(left, right)
	case tkGreater:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum > rightNum
	case tkGreaterEqual:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum >= rightNum
	case tkLess:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum < rightNum
	case tkLessEqual:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum <= rightNum
	case tkPlus:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum + rightNum
	case tkMinus:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum - rightNum
	case tkSlash:
		leftNum, rightNum := e.getNums(expr, left, right)
		if rightNum == 0 {
			e.state.runtimeErr(errDivisionByZero, expr.operator)
		}
		return leftNum / rightNum
	case tkMod:
		leftNum, rightNum := e.getNums(expr, left, right)
		if rightNum == 0 {
			e.state.runtimeErr(errDivisionByZero, expr.operator)
		}
		return math.Mod(leftNum, rightNum)
	case tkStar:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum * rightNum
	default:
		e.state.runtimeErr(errUndefinedOp, expr.operator)
	}
	return nil
}

func (e *exec) getNums(binExpr *binaryExpr, left, right interface{}) (float64, float64) {
	leftNum, ok := left.(float64)
	if !ok {
		e.state.runtimeErr(errOnlyNumbers, binExpr.operator)
	}
	rightNum, ok := right.(float64)
	if !ok {
		e.state.runtimeErr(errOnlyNumbers, binExpr.operator)
	}
	return leftNum, rightNum
}

func (e *exec) visitCallExpr(expr *callExpr) R {
	callee := expr.callee.accept(e)
	arguments := make([]interface{}, len(expr.arguments))
	for i := range expr.arguments {
		arguments[i] = expr.arguments[i].accept(e)
	}

	fn, isFn := callee.(callable)
	if !isFn {
		e.state.runtimeErr(errOnlyFunction, expr.paren)
	}

	if len(arguments) != fn.arity() {
		e.state.runtimeFailure(&RuntimeError{
			Line:   expr.paren.line,
			Lexeme: expr.paren.lexeme,
			Kind:   errInvalidNumberArguments,
			Cause:  errArity(fn.arity(), len(arguments)),
		})
	}

	if e.depth >= maxCallDepth {
		e.state.runtimeErr(errStackOverflow, expr.paren)
	}
	e.depth++
	defer func() {
		e.depth--
	}()

	return fn.call(e, arguments)
}

func (e *exec) visitGroupingExpr(expr *groupingExpr) R {
	return expr.expression.accept(e)
}

func (e *exec) visitLiteralExpr(expr *literalExpr) R {
	return expr.value
}

func (e *exec) visitLogicalExpr(expr *logicalExpr) R {
	left := expr.left.accept(e)

	if expr.operator.token == tkOr {
		if truthy(left) {
			return left
		}
		return expr.right.accept(e)
	}

	if expr.operator.token == tkAnd {
		if !truthy(left) {
			return left
		}
		return expr.right.accept(e)
	}

	e.state.runtimeErr(errUndefinedOp, expr.operator)
	return nil
}

func (e *exec) visitUnaryExpr(expr *unaryExpr) R {
	value := expr.right.accept(e)
	switch expr.operator.token {
	case tkBang:
		return !truthy(value)
	case tkMinus:
		valueNum, ok := value.(float64)
		if !ok {
			e.state.runtimeErr(errOnlyNumber, expr.operator)
		}
		return -valueNum
	default:
		e.state.runtimeErr(errUndefinedOp, expr.operator)
	}
	return nil
}

func (e *exec) visitVariableExpr(expr *variableExpr) R {
	return e.env.get(expr.name)
}
