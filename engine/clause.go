package engine

// clause is one stored fact or rule. head and body keep the parse-time
// variables; each use renames them to fresh ones.
type clause struct {
	pi   ProcedureIndicator
	head Term
	body Term
	raw  Term
}

func newClause(t Term, env *Env) (clause, error) {
	t = env.Simplify(t)
	head, body := t, Term(Atom("true"))
	if c, ok := t.(*Compound); ok && c.Functor == ":-" && len(c.Args) == 2 {
		head, body = c.Args[0], c.Args[1]
	}
	var c clause
	switch h := head.(type) {
	case Atom:
		c.pi = ProcedureIndicator{Name: h, Arity: 0}
	case *Compound:
		c.pi = ProcedureIndicator{Name: h.Functor, Arity: len(h.Args)}
	default:
		return c, &TypeError{ValidType: "callable", Culprit: head}
	}
	c.head, c.body, c.raw = head, body, t
	return c, nil
}

// renamed returns the clause's head and body with fresh variables,
// shared variables staying shared.
func (c clause) renamed() (Term, Term) {
	r := renaming{}
	return r.rename(c.head), r.rename(c.body)
}

// rulify returns t as an explicit Head :- Body term.
func rulify(t Term, env *Env) Term {
	t = env.Resolve(t)
	if c, ok := t.(*Compound); ok && c.Functor == ":-" && len(c.Args) == 2 {
		return t
	}
	return &Compound{Functor: ":-", Args: []Term{t, Atom("true")}}
}

// clauses is a user-defined predicate: its clauses in insertion order,
// which is the resolution order.
type clauses []clause

func (cs clauses) call(m *Machine, goal Term, env *Env, k Cont) *Promise {
	if len(cs) == 0 {
		return Bool(false)
	}
	mark := env.Mark()
	// The activation is its own cut parent: a cut in a body commits to
	// that clause without pruning the caller's alternatives.
	var parent *Promise
	ks := make([]func() *Promise, len(cs))
	for i := range cs {
		c := cs[i]
		ks[i] = func() *Promise {
			env.Rewind(mark)
			head, body := c.renamed()
			if !head.Unify(goal, m.occursCheck, env) {
				return Bool(false)
			}
			return m.solve(body, env, k, parent)
		}
	}
	parent = Delay(ks...)
	return parent
}

// Assertz appends a clause to the database.
func (m *Machine) Assertz(t Term, env *Env) error {
	return m.assert(t, env, func(cs clauses, c clause) clauses {
		return append(cs, c)
	})
}

// Asserta prepends a clause to the database.
func (m *Machine) Asserta(t Term, env *Env) error {
	return m.assert(t, env, func(cs clauses, c clause) clauses {
		return append(clauses{c}, cs...)
	})
}

func (m *Machine) assert(t Term, env *Env, merge func(clauses, clause) clauses) error {
	c, err := newClause(t, env)
	if err != nil {
		return err
	}
	p, ok := m.procedures[c.pi]
	if !ok {
		p = clauses{}
		m.userOrder = append(m.userOrder, c.pi)
	}
	cs, ok := p.(clauses)
	if !ok {
		return &DomainError{ValidDomain: "dynamic_procedure", Culprit: c.pi.Apply()}
	}
	m.procedures[c.pi] = merge(cs, c)
	return nil
}

// Retract removes clauses unifying with t, one per solution: the first
// match on the initial call, the next remaining match on each re-entry
// by backtracking. Removals are kept even when the continuation fails.
func (m *Machine) Retract(t Term, env *Env, k Cont) *Promise {
	r := rulify(t, env)
	head := r.(*Compound).Args[0]
	var pi ProcedureIndicator
	switch h := env.Resolve(head).(type) {
	case Variable:
		return Error(ErrInstantiation)
	case Atom:
		pi = ProcedureIndicator{Name: h, Arity: 0}
	case *Compound:
		pi = ProcedureIndicator{Name: h.Functor, Arity: len(h.Args)}
	default:
		return Error(&TypeError{ValidType: "callable", Culprit: h})
	}

	p, ok := m.procedures[pi]
	if !ok {
		return Bool(false)
	}
	cs, ok := p.(clauses)
	if !ok {
		return Error(&DomainError{ValidDomain: "dynamic_procedure", Culprit: pi.Apply()})
	}

	return Delay(func() *Promise {
		mark := env.Mark()

		for _, c := range cs {
			env.Rewind(mark)

			rh, rb := c.renamed()
			raw := &Compound{Functor: ":-", Args: []Term{rh, rb}}
			if !r.Unify(raw, m.occursCheck, env) {
				continue
			}

			// Remove the match before the continuation runs, so that it
			// sees the updated database.
			if cur, ok := m.procedures[pi].(clauses); ok {
				for j := range cur {
					if cur[j] == c {
						m.procedures[pi] = append(cur[:j:j], cur[j+1:]...)
						break
					}
				}
			}

			ok, err := k().Force()
			if err != nil {
				return Error(err)
			}
			if ok {
				return Bool(true)
			}
		}
		env.Rewind(mark)
		return Bool(false)
	})
}

// Rules returns the raw terms of every user-defined clause, predicates
// in definition order and clauses in database order.
func (m *Machine) Rules() []Term {
	var ret []Term
	for _, pi := range m.userOrder {
		cs, ok := m.procedures[pi].(clauses)
		if !ok {
			continue
		}
		for _, c := range cs {
			ret = append(ret, c.raw)
		}
	}
	return ret
}

// Reset discards every user-defined clause.
func (m *Machine) Reset() {
	for _, pi := range m.userOrder {
		if _, ok := m.procedures[pi].(clauses); ok {
			delete(m.procedures, pi)
		}
	}
	m.userOrder = m.userOrder[:0]
}
