package engine

// Promise is a delayed execution that results in (bool, error). The zero
// value for Promise is equivalent to Bool(false).
type Promise struct {
	delayed []func() *Promise

	// cut prunes the pending alternatives up to cutParent when the
	// promise is forced. Each user-predicate activation is its own cut
	// parent, so a cut commits to the clause without pruning the
	// caller's alternatives. A nil cutParent prunes everything.
	cut       bool
	cutParent *Promise

	ok  bool
	err error
}

// Delay delays an execution of ks. The alternatives are tried from left
// to right.
func Delay(ks ...func() *Promise) *Promise {
	return &Promise{delayed: ks}
}

// Bool returns a promise that simply returns ok.
func Bool(ok bool) *Promise {
	return &Promise{ok: ok}
}

// Error returns a promise that simply returns err.
func Error(err error) *Promise {
	return &Promise{err: err}
}

func cutPromise(parent *Promise, k func() *Promise) *Promise {
	return &Promise{delayed: []func() *Promise{k}, cut: true, cutParent: parent}
}

func done() *Promise {
	return Bool(true)
}

// Force enforces the delayed execution and returns the result.
// (i.e. trampoline)
func (p *Promise) Force() (bool, error) {
	stack := []*Promise{p}
	for len(stack) > 0 {
		var q *Promise
		q, stack = stack[len(stack)-1], stack[:len(stack)-1]

		if len(q.delayed) == 0 {
			switch {
			case q.err != nil:
				return false, q.err
			case q.ok:
				return true, nil
			default:
				continue
			}
		}

		// Try the leftmost alternative first; the rest stays on the
		// stack and keeps its identity for cuts to aim at.
		next := q.delayed[0]()
		q.delayed = q.delayed[1:]
		stack = append(stack, q)

		if err := next.err; err != nil {
			return false, err
		}

		if next.cut {
			for len(stack) > 0 && stack[len(stack)-1] != next.cutParent {
				stack = stack[:len(stack)-1]
			}
			// The parent's own remaining alternatives are pruned too,
			// but it stays on the stack so that a later cut in the same
			// body still finds it.
			if p := next.cutParent; p != nil {
				p.delayed = nil
			}
		}

		stack = append(stack, next)
	}
	return false, nil
}
