package engine

import (
	"io"
	"strings"
)

type predicate0 func(*Machine, *Env, Cont) *Promise

func (p predicate0) call(m *Machine, goal Term, env *Env, k Cont) *Promise {
	return p(m, env, k)
}

type predicate1 func(*Machine, Term, *Env, Cont) *Promise

func (p predicate1) call(m *Machine, goal Term, env *Env, k Cont) *Promise {
	c := goal.(*Compound)
	return p(m, c.Args[0], env, k)
}

type predicate2 func(*Machine, Term, Term, *Env, Cont) *Promise

func (p predicate2) call(m *Machine, goal Term, env *Env, k Cont) *Promise {
	c := goal.(*Compound)
	return p(m, c.Args[0], c.Args[1], env, k)
}

type predicate3 func(*Machine, Term, Term, Term, *Env, Cont) *Promise

func (p predicate3) call(m *Machine, goal Term, env *Env, k Cont) *Promise {
	c := goal.(*Compound)
	return p(m, c.Args[0], c.Args[1], c.Args[2], env, k)
}

// Register0 registers a built-in predicate of arity 0.
func (m *Machine) Register0(name string, p func(*Machine, *Env, Cont) *Promise) {
	m.procedures[ProcedureIndicator{Name: Atom(name), Arity: 0}] = predicate0(p)
}

// Register1 registers a built-in predicate of arity 1.
func (m *Machine) Register1(name string, p func(*Machine, Term, *Env, Cont) *Promise) {
	m.procedures[ProcedureIndicator{Name: Atom(name), Arity: 1}] = predicate1(p)
}

// Register2 registers a built-in predicate of arity 2.
func (m *Machine) Register2(name string, p func(*Machine, Term, Term, *Env, Cont) *Promise) {
	m.procedures[ProcedureIndicator{Name: Atom(name), Arity: 2}] = predicate2(p)
}

// Register3 registers a built-in predicate of arity 3.
func (m *Machine) Register3(name string, p func(*Machine, Term, Term, Term, *Env, Cont) *Promise) {
	m.procedures[ProcedureIndicator{Name: Atom(name), Arity: 3}] = predicate3(p)
}

func (m *Machine) registerBuiltins() {
	// Unification and comparison
	m.Register2("=", Unify)
	m.Register2("\\=", NotUnifiable)
	m.Register2("==", StructuralEqual)
	m.Register2("\\==", StructuralNotEqual)
	m.Register3("compare", CompareOrder)
	m.Register2("@<", orderPredicate(func(d int) bool { return d < 0 }))
	m.Register2("@=<", orderPredicate(func(d int) bool { return d <= 0 }))
	m.Register2("@>", orderPredicate(func(d int) bool { return d > 0 }))
	m.Register2("@>=", orderPredicate(func(d int) bool { return d >= 0 }))

	// Control
	m.Register1("call", Call)
	m.Register1("once", Once)
	m.Register1("\\+", Negation)
	m.Register1("not", Negation)

	// Type testing
	m.Register1("var", typeTest(func(t Term) bool { _, ok := t.(Variable); return ok }))
	m.Register1("nonvar", typeTest(func(t Term) bool { _, ok := t.(Variable); return !ok }))
	m.Register1("atom", typeTest(func(t Term) bool { _, ok := t.(Atom); return ok }))
	m.Register1("number", typeTest(func(t Term) bool {
		switch t.(type) {
		case Integer, Float:
			return true
		}
		return false
	}))
	m.Register1("integer", typeTest(func(t Term) bool { _, ok := t.(Integer); return ok }))
	m.Register1("float", typeTest(func(t Term) bool { _, ok := t.(Float); return ok }))
	m.Register1("string", typeTest(func(t Term) bool { _, ok := t.(String); return ok }))
	m.Register1("compound", typeTest(func(t Term) bool { _, ok := t.(*Compound); return ok }))

	// Term construction and decomposition
	m.Register3("functor", Functor)
	m.Register3("arg", Arg)
	m.Register2("=..", Univ)

	// Arithmetic
	m.Register2("is", Is)
	m.Register2("=:=", arithPredicate(func(d int) bool { return d == 0 }))
	m.Register2("=\\=", arithPredicate(func(d int) bool { return d != 0 }))
	m.Register2("<", arithPredicate(func(d int) bool { return d < 0 }))
	m.Register2("=<", arithPredicate(func(d int) bool { return d <= 0 }))
	m.Register2(">", arithPredicate(func(d int) bool { return d > 0 }))
	m.Register2(">=", arithPredicate(func(d int) bool { return d >= 0 }))

	// Database
	m.Register1("asserta", func(m *Machine, t Term, env *Env, k Cont) *Promise {
		if err := m.Asserta(t, env); err != nil {
			return Error(err)
		}
		return k()
	})
	m.Register1("assertz", func(m *Machine, t Term, env *Env, k Cont) *Promise {
		if err := m.Assertz(t, env); err != nil {
			return Error(err)
		}
		return k()
	})
	m.Register1("retract", func(m *Machine, t Term, env *Env, k Cont) *Promise {
		return m.Retract(t, env, k)
	})

	// All solutions
	m.Register3("findall", FindAll)

	// I/O
	m.Register1("write", Write)
	m.Register0("nl", NL)
	m.Register1("tab", Tab)
	m.Register1("put_char", PutChar)
	m.Register1("get_char", GetChar)
}

// Unify unifies t1 and t2.
func Unify(m *Machine, t1, t2 Term, env *Env, k Cont) *Promise {
	if !t1.Unify(t2, m.occursCheck, env) {
		return Bool(false)
	}
	return k()
}

// NotUnifiable succeeds iff t1 and t2 are not unifiable. Trial bindings
// are rewound.
func NotUnifiable(m *Machine, t1, t2 Term, env *Env, k Cont) *Promise {
	mark := env.Mark()
	ok := t1.Unify(t2, m.occursCheck, env)
	env.Rewind(mark)
	if ok {
		return Bool(false)
	}
	return k()
}

// StructuralEqual succeeds iff t1 and t2 are identical terms, without
// binding anything.
func StructuralEqual(m *Machine, t1, t2 Term, env *Env, k Cont) *Promise {
	if Compare(t1, t2, env) != 0 {
		return Bool(false)
	}
	return k()
}

// StructuralNotEqual succeeds iff t1 and t2 are not identical terms.
func StructuralNotEqual(m *Machine, t1, t2 Term, env *Env, k Cont) *Promise {
	if Compare(t1, t2, env) == 0 {
		return Bool(false)
	}
	return k()
}

// CompareOrder unifies order with <, = or > per the standard order of
// terms.
func CompareOrder(m *Machine, order, t1, t2 Term, env *Env, k Cont) *Promise {
	var a Atom
	switch d := Compare(t1, t2, env); {
	case d < 0:
		a = "<"
	case d > 0:
		a = ">"
	default:
		a = "="
	}
	return Unify(m, order, a, env, k)
}

func orderPredicate(ok func(int) bool) func(*Machine, Term, Term, *Env, Cont) *Promise {
	return func(m *Machine, t1, t2 Term, env *Env, k Cont) *Promise {
		if !ok(Compare(t1, t2, env)) {
			return Bool(false)
		}
		return k()
	}
}

// Call solves goal. A cut inside goal does not prune choice points
// outside of it.
func Call(m *Machine, goal Term, env *Env, k Cont) *Promise {
	var parent *Promise
	parent = Delay(func() *Promise {
		return m.solve(goal, env, k, parent)
	})
	return parent
}

// Once succeeds at most once: the first solution of goal is committed
// to.
func Once(m *Machine, goal Term, env *Env, k Cont) *Promise {
	return Delay(func() *Promise {
		ok, err := m.Solve(goal, env, done).Force()
		if err != nil {
			return Error(err)
		}
		if !ok {
			return Bool(false)
		}
		return k()
	})
}

// Negation is negation as failure: it succeeds iff goal has no
// solution. Bindings made while proving goal are rewound.
func Negation(m *Machine, goal Term, env *Env, k Cont) *Promise {
	return Delay(func() *Promise {
		mark := env.Mark()
		ok, err := m.Solve(goal, env, done).Force()
		env.Rewind(mark)
		if err != nil {
			return Error(err)
		}
		if ok {
			return Bool(false)
		}
		return k()
	})
}

func typeTest(ok func(Term) bool) func(*Machine, Term, *Env, Cont) *Promise {
	return func(m *Machine, t Term, env *Env, k Cont) *Promise {
		if !ok(env.Resolve(t)) {
			return Bool(false)
		}
		return k()
	}
}

// Functor decomposes a compound or atomic t into name and arity, or
// constructs t from a bound name and arity.
func Functor(m *Machine, t, name, arity Term, env *Env, k Cont) *Promise {
	switch t := env.Resolve(t).(type) {
	case *Compound:
		pattern := &Compound{Args: []Term{name, arity}}
		return Unify(m, pattern, &Compound{Args: []Term{t.Functor, Integer(len(t.Args))}}, env, k)
	case Variable:
		a, ok := env.Resolve(arity).(Integer)
		if !ok {
			if _, isVar := env.Resolve(arity).(Variable); isVar {
				return Error(ErrInstantiation)
			}
			return Error(&TypeError{ValidType: "integer", Culprit: env.Resolve(arity)})
		}
		switch {
		case a < 0:
			return Error(&DomainError{ValidDomain: "not_less_than_zero", Culprit: a})
		case a == 0:
			n := env.Resolve(name)
			if _, isVar := n.(Variable); isVar {
				return Error(ErrInstantiation)
			}
			if _, isCompound := n.(*Compound); isCompound {
				return Error(&TypeError{ValidType: "atomic", Culprit: n})
			}
			return Unify(m, t, n, env, k)
		default:
			n, ok := env.Resolve(name).(Atom)
			if !ok {
				if _, isVar := env.Resolve(name).(Variable); isVar {
					return Error(ErrInstantiation)
				}
				return Error(&TypeError{ValidType: "atom", Culprit: env.Resolve(name)})
			}
			args := make([]Term, a)
			for i := range args {
				args[i] = NewVariable()
			}
			return Unify(m, t, &Compound{Functor: n, Args: args}, env, k)
		}
	default:
		// Atomic terms are their own functor with arity 0.
		pattern := &Compound{Args: []Term{name, arity}}
		return Unify(m, pattern, &Compound{Args: []Term{t, Integer(0)}}, env, k)
	}
}

// Arg unifies arg with the nth argument (1-based) of compound t.
func Arg(m *Machine, nth, t, arg Term, env *Env, k Cont) *Promise {
	c, ok := env.Resolve(t).(*Compound)
	if !ok {
		if _, isVar := env.Resolve(t).(Variable); isVar {
			return Error(ErrInstantiation)
		}
		return Error(&TypeError{ValidType: "compound", Culprit: env.Resolve(t)})
	}
	switch n := env.Resolve(nth).(type) {
	case Variable:
		return Error(ErrInstantiation)
	case Integer:
		if n < 1 {
			return Error(&DomainError{ValidDomain: "argument_index", Culprit: n})
		}
		if int(n) > len(c.Args) {
			return Bool(false)
		}
		return Unify(m, arg, c.Args[n-1], env, k)
	default:
		return Error(&TypeError{ValidType: "integer", Culprit: n})
	}
}

// Univ relates a term and the list of its functor and arguments.
func Univ(m *Machine, t, list Term, env *Env, k Cont) *Promise {
	switch t := env.Resolve(t).(type) {
	case Variable:
		elems, ok := Slice(list, env)
		if !ok {
			return Error(&TypeError{ValidType: "list", Culprit: env.Resolve(list)})
		}
		if len(elems) == 0 {
			return Error(&DomainError{ValidDomain: "non_empty_list", Culprit: env.Resolve(list)})
		}
		switch f := env.Resolve(elems[0]).(type) {
		case Variable:
			return Error(ErrInstantiation)
		case Atom:
			return Unify(m, t, f.Apply(elems[1:]...), env, k)
		default:
			if len(elems) > 1 {
				return Error(&TypeError{ValidType: "atom", Culprit: f})
			}
			return Unify(m, t, f, env, k)
		}
	case *Compound:
		return Unify(m, list, List(append([]Term{t.Functor}, t.Args...)...), env, k)
	default:
		return Unify(m, list, List(t), env, k)
	}
}

// FindAll collects an instance of template for every solution of goal
// and unifies instances with the list. Bindings made while proving goal
// do not leak to the caller.
func FindAll(m *Machine, template, goal, instances Term, env *Env, k Cont) *Promise {
	return Delay(func() *Promise {
		mark := env.Mark()
		var results []Term
		_, err := m.Solve(goal, env, func() *Promise {
			results = append(results, RenameTerm(template, env))
			return Bool(false)
		}).Force()
		env.Rewind(mark)
		if err != nil {
			return Error(err)
		}
		return Unify(m, instances, List(results...), env, k)
	})
}

// Write writes t to the machine's output stream in operator syntax.
func Write(m *Machine, t Term, env *Env, k Cont) *Promise {
	if err := WriteTerm(m.output, t, env, m.operators); err != nil {
		return Error(err)
	}
	return k()
}

// NL writes a newline to the machine's output stream.
func NL(m *Machine, env *Env, k Cont) *Promise {
	if _, err := io.WriteString(m.output, "\n"); err != nil {
		return Error(err)
	}
	return k()
}

// Tab writes n spaces to the machine's output stream.
func Tab(m *Machine, n Term, env *Env, k Cont) *Promise {
	v, err := m.eval(n, env)
	if err != nil {
		return Error(err)
	}
	i, ok := v.(Integer)
	if !ok {
		return Error(&TypeError{ValidType: "integer", Culprit: v})
	}
	if i < 0 {
		return Error(&DomainError{ValidDomain: "not_less_than_zero", Culprit: i})
	}
	if _, err := io.WriteString(m.output, strings.Repeat(" ", int(i))); err != nil {
		return Error(err)
	}
	return k()
}

// PutChar writes the single-character atom char to the output stream.
func PutChar(m *Machine, char Term, env *Env, k Cont) *Promise {
	switch c := env.Resolve(char).(type) {
	case Variable:
		return Error(ErrInstantiation)
	case Atom:
		if len([]rune(string(c))) != 1 {
			return Error(&TypeError{ValidType: "character", Culprit: c})
		}
		if _, err := io.WriteString(m.output, string(c)); err != nil {
			return Error(err)
		}
		return k()
	default:
		return Error(&TypeError{ValidType: "character", Culprit: c})
	}
}

// GetChar reads one character from the input stream and unifies char
// with it, or with the atom end_of_file at end of input.
func GetChar(m *Machine, char Term, env *Env, k Cont) *Promise {
	r, _, err := m.input.ReadRune()
	if err == io.EOF {
		return Unify(m, char, Atom("end_of_file"), env, k)
	}
	if err != nil {
		return Error(err)
	}
	return Unify(m, char, Atom(string(r)), env, k)
}
