// Package symbolic provides the exact symbolic kernel used by the curvature
// engine.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat), no floating point
//   - Deterministic simplification and stable output
//   - A decidable zero test through a rational normal form (Canonicalize)
//   - Plain-text, LaTeX and JSON renderings of every expression
package symbolic

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable symbolic expression. Constructors (AddOf, MulOf,
// PowOf, ...) return structurally simplified trees; Canonicalize maps an
// expression to its rational normal form.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Diff(varName string) Expr
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NRat wraps a copy of r.
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string {
	if cmd, ok := greekLaTeX[s.name]; ok {
		return cmd
	}
	return s.name
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

var greekLaTeX = map[string]string{
	"alpha": `\alpha`, "beta": `\beta`, "gamma": `\gamma`, "delta": `\delta`,
	"epsilon": `\epsilon`, "eta": `\eta`, "theta": `\theta`, "iota": `\iota`,
	"kappa": `\kappa`, "lambda": `\lambda`, "mu": `\mu`, "nu": `\nu`,
	"xi": `\xi`, "rho": `\rho`, "sigma": `\sigma`, "tau": `\tau`,
	"phi": `\phi`, "chi": `\chi`, "psi": `\psi`, "omega": `\omega`,
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

// NegOf returns -e.
func NegOf(e Expr) Expr { return MulOf(N(-1), e) }

// Simplify flattens nested sums, folds numbers and collects like terms.
// Terms are ordered by the string form of their non-numeric part so equal
// sums always print the same way.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	sort.Strings(order)
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.String())
			continue
		}
		if neg, ok := negated(t); ok {
			sb.WriteString(" - ")
			sb.WriteString(factorString(neg))
			continue
		}
		sb.WriteString(" + ")
		sb.WriteString(t.String())
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.LaTeX())
			continue
		}
		if neg, ok := negated(t); ok {
			sb.WriteString(" - ")
			sb.WriteString(factorLaTeX(neg))
			continue
		}
		sb.WriteString(" + ")
		sb.WriteString(t.LaTeX())
	}
	return sb.String()
}

// negated reports whether t prints with a leading minus sign and returns -t.
func negated(t Expr) (Expr, bool) {
	switch v := t.(type) {
	case *Num:
		if v.IsNegative() {
			return numNeg(v), true
		}
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok && c.IsNegative() {
			return MulOf(append([]Expr{numNeg(c)}, v.factors[1:]...)...), true
		}
	}
	return nil, false
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// DivOf returns a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// Simplify flattens nested products, folds the numeric coefficient and
// merges factors sharing a base when their exponents are numeric.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	type group struct {
		base Expr
		exp  Expr
	}
	groups := map[string]*group{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			if _, numeric := p.exp.(*Num); numeric {
				base, exp = p.base, p.exp
			}
		}
		key := base.String()
		if g, seen := groups[key]; seen {
			g.exp = AddOf(g.exp, exp)
			continue
		}
		groups[key] = &group{base: base, exp: exp}
		order = append(order, key)
	}
	if coeff.IsZero() {
		return N(0)
	}
	others := make([]Expr, 0, len(order))
	for _, key := range order {
		g := groups[key]
		merged := Expr(g.base)
		if !isNumEqual(g.exp, 1) {
			merged = PowOf(g.base, g.exp)
		}
		switch v := merged.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			for _, f := range v.factors {
				if c, ok := f.(*Num); ok {
					coeff = numMul(coeff, c)
				} else {
					others = append(others, f)
				}
			}
		default:
			others = append(others, merged)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sortedOthers := make([]Expr, len(ks))
	for i := range ks {
		sortedOthers[i] = ks[i].e
	}
	others = sortedOthers

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// split separates the factors of m into the numerator and denominator parts
// used by the text and LaTeX renderings. Negative numeric exponents and the
// denominator of a rational coefficient go below the line; below renders
// those factors.
func (m *Mul) split(render, below func(Expr) string) (sign string, num, den []string) {
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			r := new(big.Rat).Set(v.val)
			if r.Sign() < 0 {
				sign = "-"
				r.Neg(r)
			}
			if !r.Num().IsInt64() || r.Num().Int64() != 1 {
				num = append(num, r.Num().String())
			}
			if !r.IsInt() {
				den = append(den, r.Denom().String())
			}
		case *Pow:
			if e, ok := v.exp.(*Num); ok && e.IsNegative() {
				den = append(den, below(PowOf(v.base, numNeg(e))))
				continue
			}
			num = append(num, render(f))
		default:
			num = append(num, render(f))
		}
	}
	return sign, num, den
}

func factorString(e Expr) string {
	if _, isAdd := e.(*Add); isAdd {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// denominatorString renders e after a "/" so that it reads as one operand.
func denominatorString(e Expr) string {
	switch e.(type) {
	case *Add, *Mul:
		return "(" + e.String() + ")"
	}
	return e.String()
}

func factorLaTeX(e Expr) string {
	if _, isAdd := e.(*Add); isAdd {
		return "\\left(" + e.LaTeX() + "\\right)"
	}
	return e.LaTeX()
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	sign, num, den := m.split(factorString, denominatorString)
	numStr := "1"
	if len(num) > 0 {
		numStr = strings.Join(num, "*")
	}
	switch len(den) {
	case 0:
		return sign + numStr
	case 1:
		return sign + numStr + "/" + den[0]
	}
	return sign + numStr + "/(" + strings.Join(den, "*") + ")"
}

func (m *Mul) LaTeX() string {
	sign, num, den := m.split(factorLaTeX, factorLaTeX)
	numStr := "1"
	if len(num) > 0 {
		numStr = strings.Join(num, " ")
	}
	if len(den) == 0 {
		return sign + numStr
	}
	return sign + "\\frac{" + numStr + "}{" + strings.Join(den, " ") + "}"
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// extractCoefficient splits a term into its numeric coefficient and the rest.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	// Handle 0^exp carefully.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 {
			// 0^0 is indeterminate; 0^negative is division by zero.
			if en.IsZero() || en.IsNegative() {
				return &Pow{base: base, exp: exp}
			}
		}
		return N(0)
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			e := en.val.Num().Int64()
			if e >= 0 && e <= 20 {
				result := N(1)
				for i := int64(0); i < e; i++ {
					result = numMul(result, bn)
				}
				return result
			}
			if e < 0 && e >= -20 {
				result := N(1)
				for i := int64(0); i < -e; i++ {
					result = numMul(result, bn)
				}
				// base==0 was handled above.
				return numRecip(result)
			}
		}
	}
	if inner, ok := base.(*Pow); ok {
		if _, numeric := inner.exp.(*Num); numeric {
			if _, numeric := exp.(*Num); numeric {
				return PowOf(inner.base, MulOf(inner.exp, exp))
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	if e, ok := p.exp.(*Num); ok && e.IsNegative() {
		return "1/" + denominatorString(PowOf(p.base, numNeg(e)))
	}
	return p.baseString() + "^" + p.expString()
}

func (p *Pow) baseString() string {
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		return "(" + b.String() + ")"
	case *Num:
		if !b.IsInteger() || b.IsNegative() {
			return "(" + b.String() + ")"
		}
	}
	return p.base.String()
}

func (p *Pow) expString() string {
	switch e := p.exp.(type) {
	case *Sym:
		return e.String()
	case *Num:
		if e.IsInteger() {
			return e.String()
		}
	}
	return "(" + p.exp.String() + ")"
}

func (p *Pow) LaTeX() string {
	if e, ok := p.exp.(*Num); ok && e.IsNegative() {
		return "\\frac{1}{" + PowOf(p.base, numNeg(e)).LaTeX() + "}"
	}
	if e, ok := p.exp.(*Num); ok && e.val.Cmp(big.NewRat(1, 2)) == 0 {
		return "\\sqrt{" + p.base.LaTeX() + "}"
	}
	baseStr := p.base.LaTeX()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	case *Num:
		if b.IsNegative() {
			baseStr = "\\left(" + baseStr + "\\right)"
		}
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	_, expIsNum := p.exp.(*Num)
	if expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	_, baseIsNum := p.base.(*Num)
	if baseIsNum {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }

// Apply builds name(arg). Known names map to their constructors; any other
// name yields an opaque function application that Diff refuses to
// differentiate.
func Apply(name string, arg Expr) Expr {
	if name == "sqrt" {
		return SqrtOf(arg)
	}
	return funcOf(name, arg).Simplify()
}

// differentiable lists the functions with a derivative rule in Func.Diff.
var differentiable = map[string]bool{
	"sin": true, "cos": true, "tan": true, "exp": true, "ln": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if isNumEqual(arg, 0) {
		switch f.name {
		case "sin", "tan", "asin", "atan", "sinh", "tanh", "abs", "sign":
			return N(0)
		case "cos", "cosh", "exp":
			return N(1)
		}
	}
	switch f.name {
	case "ln":
		if n2, ok := arg.(*Num); ok && n2.IsOne() {
			return N(0)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if n2, ok := arg.(*Num); ok && !n2.IsNegative() {
			return n2
		}
		if n2, ok := arg.(*Num); ok {
			return numNeg(n2)
		}
		if m, ok := arg.(*Mul); ok && len(m.factors) >= 2 {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegOne() {
				inner := m.factors[1:]
				if len(inner) == 1 {
					return AbsOf(inner[0])
				}
				return AbsOf(MulOf(inner...))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	case "floor":
		return "\\lfloor " + f.arg.LaTeX() + " \\rfloor"
	case "ceil":
		return "\\lceil " + f.arg.LaTeX() + " \\rceil"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

// Diff applies the chain rule. Functions without a rule differentiate to a
// formal D[name](arg) factor; the package-level Diff rejects those before
// they reach a caller.
func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	default:
		return MulOf(funcOf("D["+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(big.NewRat(v, 1)) == 0
}

// ============================================================
// Top-level helpers
// ============================================================

func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// IsZero reports whether e is the literal number zero. It does not
// normalize; use ZeroEquivalent to decide whether an arbitrary expression
// vanishes.
func IsZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n != nil && n.IsZero()
}

// FreeSymbols returns the names of the symbols occurring in e.
func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}
