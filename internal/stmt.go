package internal

type stmt interface {
	accept(stmtVisitor) R
}

type stmtVisitor interface {
	visitBlockStmt(stmt *blockStmt) R
	visitClassStmt(stmt *classStmt) R
	visitExprStmt(stmt *exprStmt) R
	visitFnStmt(stmt *fnStmt) R
	visitIfStmt(stmt *ifStmt) R
	visitPrintStmt(stmt *printStmt) R
	visitReturnStmt(stmt *returnStmt) R
	visitVarStmt(stmt *varStmt) R
	visitWhileStmt(stmt *whileStmt) R
	visitImportStmt(stmt *importStmt) R
}

type blockStmt struct {
	stmts []stmt
}

func (s *blockStmt) accept(visitor stmtVisitor) R {
	return visitor.visitBlockStmt(s)
}

type classStmt struct {
	name       *token
	superclass *variableExpr
	methods    []*fnStmt
}

func (s *classStmt) accept(visitor stmtVisitor) R {
	return visitor.visitClassStmt(s)
}

type exprStmt struct {
	expression expr
}

func (s *exprStmt) accept(visitor stmtVisitor) R {
	return visitor.visitExprStmt(s)
}

type fnStmt struct {
	name   *token
	params []*token
	body   []stmt
}

func (s *fnStmt) accept(visitor stmtVisitor) R {
	return visitor.visitFnStmt(s)
}

type ifStmt struct {
	keyword    *token
	condition  expr
	thenBranch stmt
	elseBranch stmt
}

func (s *ifStmt) accept(visitor stmtVisitor) R {
	return visitor.visitIfStmt(s)
}

type printStmt struct {
	keyword    *token
	expression expr
}

func (s *printStmt) accept(visitor stmtVisitor) R {
	return visitor.visitPrintStmt(s)
}

type returnStmt struct {
	keyword *token
	value   expr
}

func (s *returnStmt) accept(visitor stmtVisitor) R {
	return visitor.visitReturnStmt(s)
}

type varStmt struct {
	name        *token
	initializer expr
}

func (s *varStmt) accept(visitor stmtVisitor) R {
	return visitor.visitVarStmt(s)
}

type whileStmt struct {
	keyword   *token
	condition expr
	body      stmt
}

func (s *whileStmt) accept(visitor stmtVisitor) R {
	return visitor.visitWhileStmt(s)
}

type importStmt struct {
	keyword  *token
	function string
	pkg      string
}

func (s *importStmt) accept(visitor stmtVisitor) R {
	return visitor.visitImportStmt(s)
}
