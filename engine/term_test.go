package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnify_Atomic(t *testing.T) {
	env := NewEnv()
	assert.True(t, Atom("a").Unify(Atom("a"), false, env))
	assert.False(t, Atom("a").Unify(Atom("b"), false, env))
	assert.True(t, Integer(1).Unify(Integer(1), false, env))
	assert.False(t, Integer(1).Unify(Float(1), false, env))
	assert.True(t, Float(1.5).Unify(Float(1.5), false, env))
	assert.True(t, String("abc").Unify(String("abc"), false, env))
	assert.False(t, String("abc").Unify(Atom("abc"), false, env))
}

func TestUnify_Variable(t *testing.T) {
	t.Run("binds an unbound variable", func(t *testing.T) {
		env := NewEnv()
		v := NewVariable()
		assert.True(t, v.Unify(Atom("a"), false, env))
		assert.Equal(t, Atom("a"), env.Resolve(v))
	})

	t.Run("two variables become aliases", func(t *testing.T) {
		env := NewEnv()
		v, w := NewVariable(), NewVariable()
		assert.True(t, v.Unify(w, false, env))
		assert.True(t, w.Unify(Integer(7), false, env))
		assert.Equal(t, Integer(7), env.Resolve(v))
	})

	t.Run("a variable against itself binds nothing", func(t *testing.T) {
		env := NewEnv()
		v := NewVariable()
		m := env.Mark()
		assert.True(t, v.Unify(v, false, env))
		assert.Equal(t, m, env.Mark())
	})
}

func TestUnify_Compound(t *testing.T) {
	t.Run("same functor and arity unify argument-wise", func(t *testing.T) {
		env := NewEnv()
		x := NewVariable()
		a := &Compound{Functor: "f", Args: []Term{Atom("a"), x}}
		b := &Compound{Functor: "f", Args: []Term{Atom("a"), Integer(2)}}
		assert.True(t, a.Unify(b, false, env))
		assert.Equal(t, Integer(2), env.Resolve(x))
	})

	t.Run("different functor fails", func(t *testing.T) {
		env := NewEnv()
		a := &Compound{Functor: "f", Args: []Term{Atom("a")}}
		b := &Compound{Functor: "g", Args: []Term{Atom("a")}}
		assert.False(t, a.Unify(b, false, env))
	})

	t.Run("different arity fails", func(t *testing.T) {
		env := NewEnv()
		a := &Compound{Functor: "f", Args: []Term{Atom("a")}}
		b := &Compound{Functor: "f", Args: []Term{Atom("a"), Atom("b")}}
		assert.False(t, a.Unify(b, false, env))
	})

	t.Run("the caller rewinds partial bindings on failure", func(t *testing.T) {
		env := NewEnv()
		x := NewVariable()
		a := &Compound{Functor: "f", Args: []Term{x, Atom("b")}}
		b := &Compound{Functor: "f", Args: []Term{Atom("a"), Atom("c")}}
		m := env.Mark()
		assert.False(t, a.Unify(b, false, env))
		env.Rewind(m)
		_, ok := env.Lookup(x)
		assert.False(t, ok)
	})
}

func TestUnify_Symmetry(t *testing.T) {
	x := NewVariable()
	pairs := []struct{ a, b Term }{
		{Atom("a"), Atom("a")},
		{Atom("a"), Atom("b")},
		{x, Atom("a")},
		{&Compound{Functor: "f", Args: []Term{x}}, &Compound{Functor: "f", Args: []Term{Integer(1)}}},
		{Integer(1), Float(1)},
	}
	for _, p := range pairs {
		ab := p.a.Unify(p.b, false, NewEnv())
		ba := p.b.Unify(p.a, false, NewEnv())
		assert.Equal(t, ab, ba)
	}
}

func TestUnify_Idempotence(t *testing.T) {
	env := NewEnv()
	x := NewVariable()
	a := &Compound{Functor: "f", Args: []Term{x, Atom("b")}}
	b := &Compound{Functor: "f", Args: []Term{Atom("a"), Atom("b")}}

	assert.True(t, a.Unify(b, false, env))
	m := env.Mark()
	assert.True(t, a.Unify(b, false, env))
	assert.Equal(t, m, env.Mark())
}

func TestUnify_OccursCheck(t *testing.T) {
	x := NewVariable()
	f := &Compound{Functor: "f", Args: []Term{x}}

	t.Run("enabled", func(t *testing.T) {
		assert.False(t, x.Unify(f, true, NewEnv()))
	})

	t.Run("disabled", func(t *testing.T) {
		assert.True(t, x.Unify(f, false, NewEnv()))
	})
}

func TestCompare(t *testing.T) {
	env := NewEnv()
	v, w := NewVariable(), NewVariable()

	t.Run("order of kinds", func(t *testing.T) {
		terms := []Term{v, Integer(1), Atom("a"), String("s"), &Compound{Functor: "f", Args: []Term{Atom("a")}}}
		for i := range terms {
			for j := range terms {
				switch {
				case i < j:
					assert.True(t, Compare(terms[i], terms[j], env) < 0)
				case i > j:
					assert.True(t, Compare(terms[i], terms[j], env) > 0)
				default:
					assert.Zero(t, Compare(terms[i], terms[j], env))
				}
			}
		}
	})

	t.Run("numbers compare by value", func(t *testing.T) {
		assert.True(t, Compare(Integer(1), Integer(2), env) < 0)
		assert.True(t, Compare(Integer(1), Float(1.5), env) < 0)
		assert.True(t, Compare(Integer(1), Float(1), env) < 0) // integer first on a tie
	})

	t.Run("compounds compare by arity, functor, then arguments", func(t *testing.T) {
		f1 := &Compound{Functor: "f", Args: []Term{Atom("a")}}
		f2 := &Compound{Functor: "f", Args: []Term{Atom("a"), Atom("b")}}
		g1 := &Compound{Functor: "g", Args: []Term{Atom("a")}}
		assert.True(t, Compare(f1, f2, env) < 0)
		assert.True(t, Compare(f1, g1, env) < 0)
		assert.Zero(t, Compare(f1, &Compound{Functor: "f", Args: []Term{Atom("a")}}, env))
	})

	t.Run("resolves through the environment", func(t *testing.T) {
		env := NewEnv()
		env.Bind(w, Atom("a"))
		assert.Zero(t, Compare(w, Atom("a"), env))
	})
}

func TestSlice(t *testing.T) {
	env := NewEnv()

	ts, ok := Slice(List(Integer(1), Integer(2)), env)
	assert.True(t, ok)
	assert.Equal(t, []Term{Integer(1), Integer(2)}, ts)

	_, ok = Slice(ListRest(NewVariable(), Integer(1)), env)
	assert.False(t, ok)

	ts, ok = Slice(Atom("[]"), env)
	assert.True(t, ok)
	assert.Empty(t, ts)
}

func TestRename_Disjoint(t *testing.T) {
	c, err := newClause(&Compound{Functor: ":-", Args: []Term{
		&Compound{Functor: "p", Args: []Term{Variable(-1), Variable(-2)}},
		&Compound{Functor: "q", Args: []Term{Variable(-1)}},
	}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	h1, b1 := c.renamed()
	h2, b2 := c.renamed()

	// Shared variables stay shared within one renaming.
	assert.Equal(t, h1.(*Compound).Args[0], b1.(*Compound).Args[0])

	// Independent renamings share no identities.
	assert.NotEqual(t, h1.(*Compound).Args[0], h2.(*Compound).Args[0])
	assert.NotEqual(t, h1.(*Compound).Args[1], h2.(*Compound).Args[1])
	assert.NotEqual(t, b1.(*Compound).Args[0], b2.(*Compound).Args[0])
}
