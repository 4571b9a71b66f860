package engine

// Env is the binding environment: a store of variable bindings together
// with a trail that records them in order, so that any prefix of the
// work can be undone exactly.
type Env struct {
	bindings map[Variable]Term
	trail    []Variable
}

// Mark is a trail checkpoint, as returned by (*Env).Mark.
type Mark int

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{bindings: map[Variable]Term{}}
}

// Bind records that v resolves to t. v must be unbound; unification
// guarantees this by binding only the end of a dereference chain.
func (e *Env) Bind(v Variable, t Term) {
	e.bindings[v] = t
	e.trail = append(e.trail, v)
}

// Lookup returns the term v is bound to, if any.
func (e *Env) Lookup(v Variable) (Term, bool) {
	if e == nil {
		return nil, false
	}
	t, ok := e.bindings[v]
	return t, ok
}

// Resolve follows the binding chain of t and returns the first
// non-variable term or the last unbound variable.
func (e *Env) Resolve(t Term) Term {
	for {
		v, ok := t.(Variable)
		if !ok {
			return t
		}
		ref, ok := e.Lookup(v)
		if !ok {
			return v
		}
		t = ref
	}
}

// Mark returns a checkpoint for the current trail position.
func (e *Env) Mark() Mark {
	return Mark(len(e.trail))
}

// Rewind undoes every binding recorded after m, in reverse order. After
// Mark followed by Rewind the environment is indistinguishable from
// before the intervening work.
func (e *Env) Rewind(m Mark) {
	for len(e.trail) > int(m) {
		var v Variable
		v, e.trail = e.trail[len(e.trail)-1], e.trail[:len(e.trail)-1]
		delete(e.bindings, v)
	}
}

// Simplify returns a copy of t with every bound variable replaced by its
// value. Unbound variables remain.
func (e *Env) Simplify(t Term) Term {
	switch t := e.Resolve(t).(type) {
	case *Compound:
		args := make([]Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = e.Simplify(a)
		}
		return &Compound{Functor: t.Functor, Args: args}
	default:
		return t
	}
}
