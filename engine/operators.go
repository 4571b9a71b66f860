package engine

// OperatorSpecifier specifies the class and associativity of an
// operator.
type OperatorSpecifier byte

const (
	XFX OperatorSpecifier = iota // infix, non-associative
	XFY                          // infix, right-associative
	YFX                          // infix, left-associative
	FX                           // prefix, non-associative
	FY                           // prefix, associative
)

func (s OperatorSpecifier) String() string {
	return [...]string{"xfx", "xfy", "yfx", "fx", "fy"}[s]
}

func (s OperatorSpecifier) prefix() bool {
	return s == FX || s == FY
}

// OperatorKind classifies what an operator is for.
type OperatorKind byte

const (
	KindArithmetic OperatorKind = iota
	KindComparison
	KindUnification
	KindLogical
	KindControl
	KindIO
)

// Operator is an entry of the operator table.
type Operator struct {
	Priority  int // 1 ~ 1200, lower binds tighter
	Specifier OperatorSpecifier
	Name      Atom
	Kind      OperatorKind
}

// leftRight reports the maximum priorities the operands may have.
func (o *Operator) leftRight() (int, int) {
	switch o.Specifier {
	case XFX:
		return o.Priority - 1, o.Priority - 1
	case XFY:
		return o.Priority - 1, o.Priority
	case YFX:
		return o.Priority, o.Priority - 1
	case FX:
		return -1, o.Priority - 1
	case FY:
		return -1, o.Priority
	default:
		return -1, -1
	}
}

// Operators is an operator table indexed by name and class. The same
// name may carry both a prefix and an infix entry.
type Operators []Operator

// Infix returns the infix entry for name, if any.
func (os Operators) Infix(name Atom) (Operator, bool) {
	for _, o := range os {
		if o.Name == name && !o.Specifier.prefix() {
			return o, true
		}
	}
	return Operator{}, false
}

// Prefix returns the prefix entry for name, if any.
func (os Operators) Prefix(name Atom) (Operator, bool) {
	for _, o := range os {
		if o.Name == name && o.Specifier.prefix() {
			return o, true
		}
	}
	return Operator{}, false
}

// DefaultOperators is the standard operator table.
var DefaultOperators = Operators{
	{Priority: 1200, Specifier: XFX, Name: `:-`, Kind: KindControl},
	{Priority: 1200, Specifier: FX, Name: `:-`, Kind: KindControl},
	{Priority: 1200, Specifier: FX, Name: `?-`, Kind: KindControl},
	{Priority: 1100, Specifier: XFY, Name: `;`, Kind: KindLogical},
	{Priority: 1050, Specifier: XFY, Name: `->`, Kind: KindControl},
	{Priority: 1000, Specifier: XFY, Name: `,`, Kind: KindLogical},
	{Priority: 900, Specifier: FY, Name: `\+`, Kind: KindLogical},
	{Priority: 700, Specifier: XFX, Name: `=`, Kind: KindUnification},
	{Priority: 700, Specifier: XFX, Name: `\=`, Kind: KindUnification},
	{Priority: 700, Specifier: XFX, Name: `==`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `\==`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `@<`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `@=<`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `@>`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `@>=`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `is`, Kind: KindArithmetic},
	{Priority: 700, Specifier: XFX, Name: `=:=`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `=\=`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `<`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `=<`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `>`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `>=`, Kind: KindComparison},
	{Priority: 700, Specifier: XFX, Name: `=..`, Kind: KindUnification},
	{Priority: 500, Specifier: YFX, Name: `+`, Kind: KindArithmetic},
	{Priority: 500, Specifier: YFX, Name: `-`, Kind: KindArithmetic},
	{Priority: 400, Specifier: YFX, Name: `*`, Kind: KindArithmetic},
	{Priority: 400, Specifier: YFX, Name: `/`, Kind: KindArithmetic},
	{Priority: 400, Specifier: YFX, Name: `//`, Kind: KindArithmetic},
	{Priority: 400, Specifier: YFX, Name: `mod`, Kind: KindArithmetic},
	{Priority: 200, Specifier: XFY, Name: `**`, Kind: KindArithmetic},
	{Priority: 200, Specifier: FY, Name: `-`, Kind: KindArithmetic},
	{Priority: 200, Specifier: FY, Name: `+`, Kind: KindArithmetic},
}
