package internal

import "fmt"

type callable interface {
	arity() int
	call(exec *exec, arguments []interface{}) interface{}
}

// function is a callable declared in source or bound by an import.
// closure is nil in snapshot scoping: calls then start from an empty frame.
type function struct {
	declaration *fnStmt
	closure     *env
}

func (f *function) arity() int {
	return len(f.declaration.params)
}

func (f *function) call(exec *exec, arguments []interface{}) interface{} {
	frame := newEnv(exec.state, f.closure)
	for i := range f.declaration.params {
		frame.define(f.declaration.params[i].lexeme, arguments[i])
	}

	if ret, isReturn := exec.executeBlock(f.declaration.body, frame).(*returnValue); isReturn {
		return ret.value
	}
	return nil
}

func (f *function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
}
