package internal

import "github.com/sirupsen/logrus"

type env struct {
	state *interpreterState

	enclosing *env
	values    map[string]interface{}
}

func newEnv(state *interpreterState, enclosing *env) *env {
	return &env{
		state:     state,
		enclosing: enclosing,
		values:    make(map[string]interface{}),
	}
}

// snapshot duplicates the bindings of this frame. The copy shares the
// enclosing frame, so only this frame's own bindings are isolated.
func (e *env) snapshot() *env {
	values := make(map[string]interface{}, len(e.values))
	for name, value := range e.values {
		values[name] = value
	}
	return &env{
		state:     e.state,
		enclosing: e.enclosing,
		values:    values,
	}
}

func (e *env) get(name *token) interface{} {
	if value, ok := e.values[name.lexeme]; ok {
		return value
	}
	if e.enclosing != nil {
		return e.enclosing.get(name)
	}
	e.state.runtimeErr(errUndefinedVar, name)
	return nil
}

func (e *env) define(name string, value interface{}) {
	if e.state.logger.IsLevelEnabled(logrus.TraceLevel) {
		e.state.logger.WithField("name", name).Trace("define")
	}
	e.values[name] = value
}

func (e *env) assign(name *token, value interface{}) {
	if _, ok := e.values[name.lexeme]; ok {
		e.values[name.lexeme] = value
		return
	}
	if e.enclosing != nil {
		e.enclosing.assign(name, value)
		return
	}
	e.state.runtimeErr(errUndefinedVar, name)
}
