package symbolic

import (
	"fmt"
	"math/big"
	"sort"
)

// ============================================================
// Rational normal form
// ============================================================
//
// Expressions are mapped into the field of rational functions over kernels:
// symbols, function applications with canonical arguments, radicals
// b^(1/q) and powers with non-numeric exponents. Numerators are expanded
// polynomials reduced modulo cos²+sin²=1, cosh²−sinh²=1 and (b^(1/q))^q=b,
// which makes "numerator is the zero polynomial" a complete zero test for
// the supported expression class. Denominators are kept factored.

// maxIntPower bounds integer exponents that are expanded. Larger powers stay
// opaque kernels.
const maxIntPower = 64

// denFactor is a primitive polynomial with integer coefficients and a
// positive leading coefficient, raised to mult.
type denFactor struct {
	p    poly
	key  string
	mult int
}

type rat struct {
	num poly
	den []denFactor // sorted by key
}

func ratInt(v int64) rat { return rat{num: polyConst(big.NewRat(v, 1))} }

func ratConst(c *big.Rat) rat { return rat{num: polyConst(c)} }

func (r rat) isZero() bool { return r.num.isZero() }

func (r rat) neg() rat { return rat{num: r.num.neg(), den: r.den} }

type kernel struct {
	expr Expr
	fn   string // function name for function kernels
	arg  Expr   // canonical argument of a function kernel
	base *rat   // radicand of a radical kernel
	root int    // q of a radical kernel b^(1/q)
}

// normalizer carries the kernel table and the denominator factors seen so
// far. It is not safe for concurrent use; every exported entry point builds
// its own.
type normalizer struct {
	kernels map[string]*kernel
	known   map[string]poly
}

func newNormalizer() *normalizer {
	return &normalizer{kernels: map[string]*kernel{}, known: map[string]poly{}}
}

// Canonicalize returns the normal form of e. Two expressions are equal as
// rational functions over their kernels exactly when their normal forms
// print identically.
func Canonicalize(e Expr) (Expr, error) {
	nz := newNormalizer()
	r, err := nz.toRat(e)
	if err != nil {
		return nil, err
	}
	return nz.expr(r), nil
}

// ZeroEquivalent reports whether e is identically zero under the normal
// form.
func ZeroEquivalent(e Expr) (bool, error) {
	r, err := newNormalizer().toRat(e)
	if err != nil {
		return false, err
	}
	return r.isZero(), nil
}

// ============================================================
// Expression → rational function
// ============================================================

func (nz *normalizer) toRat(e Expr) (rat, error) {
	switch v := e.(type) {
	case nil:
		return rat{}, ErrUnsupported
	case *Num:
		if v == nil || v.val == nil {
			return rat{}, ErrUnsupported
		}
		return ratConst(v.val), nil
	case *Sym:
		if v == nil {
			return rat{}, ErrUnsupported
		}
		return nz.kernelRat("s:"+v.name, &kernel{expr: v}), nil
	case *Add:
		acc := ratInt(0)
		for _, t := range v.terms {
			r, err := nz.toRat(t)
			if err != nil {
				return rat{}, err
			}
			acc = nz.add(acc, r)
		}
		return acc, nil
	case *Mul:
		acc := ratInt(1)
		for _, f := range v.factors {
			r, err := nz.toRat(f)
			if err != nil {
				return rat{}, err
			}
			acc = nz.mul(acc, r)
		}
		return acc, nil
	case *Pow:
		return nz.powRat(v)
	case *Func:
		return nz.funcRat(v.name, v.arg)
	}
	return rat{}, fmt.Errorf("%w: %T", ErrUnsupported, e)
}

func (nz *normalizer) kernelRat(key string, k *kernel) rat {
	if _, ok := nz.kernels[key]; !ok {
		nz.kernels[key] = k
	}
	return rat{num: polyKernel(key, 1)}
}

func (nz *normalizer) powRat(p *Pow) (rat, error) {
	exp, ok := p.exp.(*Num)
	if !ok {
		return nz.opaquePow(p)
	}
	if exp.IsInteger() {
		k := exp.val.Num()
		if !k.IsInt64() || k.Int64() > maxIntPower || k.Int64() < -maxIntPower {
			return nz.opaquePow(p)
		}
		base, err := nz.toRat(p.base)
		if err != nil {
			return rat{}, err
		}
		return nz.pow(base, int(k.Int64()))
	}

	base, err := nz.toRat(p.base)
	if err != nil {
		return rat{}, err
	}
	num, q := exp.val.Num(), exp.val.Denom()
	if !num.IsInt64() || !q.IsInt64() || num.Int64() > maxIntPower || num.Int64() < -maxIntPower || q.Int64() > maxIntPower {
		return nz.opaquePow(p)
	}
	canon := nz.expr(base)
	root := PowOf(canon, F(1, q.Int64()))
	rp, isPow := root.(*Pow)
	if !isPow {
		r, err := nz.toRat(root)
		if err != nil {
			return rat{}, err
		}
		return nz.pow(r, int(num.Int64()))
	}
	re, _ := rp.exp.(*Num)
	if re == nil || !re.IsPositive() || !re.val.Num().IsInt64() || re.val.Num().Int64() != 1 {
		// The root folded into the base's own exponent, e.g. (x^3)^(1/2).
		r, err := nz.toRat(rp)
		if err != nil {
			return rat{}, err
		}
		return nz.pow(r, int(num.Int64()))
	}
	rootBase, err := nz.toRat(rp.base)
	if err != nil {
		return rat{}, err
	}
	kr := nz.kernelRat("r:"+rp.String(), &kernel{expr: rp, base: &rootBase, root: int(re.val.Denom().Int64())})
	return nz.pow(kr, int(num.Int64()))
}

func (nz *normalizer) opaquePow(p *Pow) (rat, error) {
	base, err := nz.canonical(p.base)
	if err != nil {
		return rat{}, err
	}
	exp, err := nz.canonical(p.exp)
	if err != nil {
		return rat{}, err
	}
	e := PowOf(base, exp)
	if ep, ok := e.(*Pow); ok {
		return nz.kernelRat("p:"+ep.String(), &kernel{expr: ep}), nil
	}
	return nz.toRat(e)
}

// canonical normalizes e with the normalizer's kernel table.
func (nz *normalizer) canonical(e Expr) (Expr, error) {
	r, err := nz.toRat(e)
	if err != nil {
		return nil, err
	}
	return nz.expr(r), nil
}

var oddFuncs = map[string]bool{"sin": true, "sinh": true, "asin": true, "atan": true}
var evenFuncs = map[string]bool{"cos": true, "cosh": true}

func (nz *normalizer) funcRat(name string, rawArg Expr) (rat, error) {
	arg, err := nz.toRat(rawArg)
	if err != nil {
		return rat{}, err
	}
	switch name {
	case "tan", "tanh":
		num, den := "sin", "cos"
		if name == "tanh" {
			num, den = "sinh", "cosh"
		}
		argExpr := nz.expr(arg)
		s, err := nz.funcRat(num, argExpr)
		if err != nil {
			return rat{}, err
		}
		c, err := nz.funcRat(den, argExpr)
		if err != nil {
			return rat{}, err
		}
		ci, err := nz.inv(c)
		if err != nil {
			return rat{}, err
		}
		return nz.mul(s, ci), nil
	}

	negate := false
	if !arg.isZero() && arg.num.leading().c.Sign() < 0 {
		switch {
		case oddFuncs[name]:
			arg, negate = arg.neg(), true
		case evenFuncs[name]:
			arg = arg.neg()
		}
	}
	argExpr := nz.expr(arg)
	applied := Apply(name, argExpr)
	f, ok := applied.(*Func)
	if !ok || f.name != name {
		r, err := nz.toRat(applied)
		if err != nil {
			return rat{}, err
		}
		if negate {
			r = r.neg()
		}
		return r, nil
	}
	r := nz.kernelRat("f:"+f.String(), &kernel{expr: f, fn: name, arg: f.arg})
	if negate {
		r = r.neg()
	}
	return r, nil
}

// ============================================================
// Field operations
// ============================================================

func (nz *normalizer) add(a, b rat) rat {
	if a.isZero() {
		return b
	}
	if b.isZero() {
		return a
	}
	lcm := mergeDen(a.den, b.den, func(x, y int) int { return max(x, y) })
	num := a.num.mul(cofactor(lcm, a.den)).add(b.num.mul(cofactor(lcm, b.den)))
	return nz.cancel(rat{num: num, den: lcm})
}

func (nz *normalizer) mul(a, b rat) rat {
	if a.isZero() || b.isZero() {
		return ratInt(0)
	}
	den := mergeDen(a.den, b.den, func(x, y int) int { return x + y })
	return nz.cancel(rat{num: a.num.mul(b.num), den: den})
}

func (nz *normalizer) inv(a rat) (rat, error) {
	if a.isZero() {
		return rat{}, ErrDivisionByZero
	}
	num := polyConst(big.NewRat(1, 1))
	for _, f := range a.den {
		num = num.mul(f.p.pow(f.mult))
	}
	c, fs := nz.factorize(a.num)
	num = num.scale(new(big.Rat).Inv(c))
	return nz.cancel(rat{num: num, den: fs}), nil
}

func (nz *normalizer) pow(a rat, k int) (rat, error) {
	if k < 0 {
		ia, err := nz.inv(a)
		if err != nil {
			return rat{}, err
		}
		a, k = ia, -k
	}
	out := ratInt(1)
	for i := 0; i < k; i++ {
		out = nz.mul(out, a)
	}
	return out, nil
}

func mergeDen(a, b []denFactor, combine func(int, int) int) []denFactor {
	out := make([]denFactor, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].key == b[j].key:
			f := a[i]
			f.mult = combine(a[i].mult, b[j].mult)
			out = append(out, f)
			i++
			j++
		case a[i].key < b[j].key:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// cofactor returns lcm / part for denominator lists sorted by key.
func cofactor(lcm, part []denFactor) poly {
	out := polyConst(big.NewRat(1, 1))
	j := 0
	for _, f := range lcm {
		m := f.mult
		for j < len(part) && part[j].key < f.key {
			j++
		}
		if j < len(part) && part[j].key == f.key {
			m -= part[j].mult
		}
		if m > 0 {
			out = out.mul(f.p.pow(m))
		}
	}
	return out
}

// cancel reduces the numerator and divides out every denominator factor it
// is a multiple of.
func (nz *normalizer) cancel(r rat) rat {
	num := nz.reduce(r.num)
	if num.isZero() {
		return ratInt(0)
	}
	den := make([]denFactor, 0, len(r.den))
	for _, f := range r.den {
		m := f.mult
		for m > 0 {
			q, ok := num.divExact(f.p)
			if !ok {
				break
			}
			num = q
			m--
		}
		if m > 0 {
			f.mult = m
			den = append(den, f)
		}
	}
	return rat{num: num, den: den}
}

// factorize writes p as c·Πfᵢ^mᵢ with primitive factors. Single-kernel
// factors are split off first, then factors already seen by this normalizer
// are divided out; whatever remains becomes a new factor.
func (nz *normalizer) factorize(p poly) (*big.Rat, []denFactor) {
	c, prim := p.primitive()
	if v, ok := prim.constant(); ok {
		return c.Mul(c, v), nil
	}
	var fs []denFactor
	mono, rest := prim.monomialContent()
	for _, pw := range mono {
		fp := polyKernel(pw.k, 1)
		fs = append(fs, denFactor{p: fp, key: fp.key(), mult: pw.e})
	}

	if _, ok := rest.constant(); !ok {
		keys := make([]string, 0, len(nz.known))
		for k := range nz.known {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			f := nz.known[k]
			mult := 0
			for {
				q, ok := rest.divExact(f)
				if !ok {
					break
				}
				rest = q
				mult++
			}
			if mult > 0 {
				fs = append(fs, denFactor{p: f, key: k, mult: mult})
			}
			if _, done := rest.constant(); done {
				break
			}
		}
	}

	if v, ok := rest.constant(); ok {
		c.Mul(c, v)
	} else {
		rc, rp := rest.primitive()
		c.Mul(c, rc)
		key := rp.key()
		nz.known[key] = rp
		fs = append(fs, denFactor{p: rp, key: key, mult: 1})
	}

	sort.Slice(fs, func(i, j int) bool { return fs[i].key < fs[j].key })
	merged := fs[:0]
	for _, f := range fs {
		if n := len(merged); n > 0 && merged[n-1].key == f.key {
			merged[n-1].mult += f.mult
			continue
		}
		merged = append(merged, f)
	}
	return c, merged
}

// reduce rewrites p modulo the trigonometric, hyperbolic and radical
// identities until no kernel power can be lowered further.
func (nz *normalizer) reduce(p poly) poly {
	for {
		out := poly{}
		changed := false
		for _, t := range p {
			rep, rest, ok := nz.rewrite(t.m)
			if !ok {
				out.addTerm(t.m, t.c)
				continue
			}
			changed = true
			restPoly := poly{rest.key(): {m: rest, c: t.c}}
			out = out.add(restPoly.mul(rep))
		}
		if !changed {
			return out
		}
		p = out
	}
}

// rewrite finds the first reducible power in m and returns its replacement
// together with the remaining monomial.
func (nz *normalizer) rewrite(m monomial) (poly, monomial, bool) {
	for i, pw := range m {
		k := nz.kernels[pw.k]
		if k == nil {
			continue
		}
		var rep poly
		lower := 0
		switch {
		case k.fn == "cos" && pw.e >= 2:
			rep = polyConst(big.NewRat(1, 1)).add(nz.funcKernelPoly("sin", k.arg).pow(2).neg())
			lower = 2
		case k.fn == "cosh" && pw.e >= 2:
			rep = polyConst(big.NewRat(1, 1)).add(nz.funcKernelPoly("sinh", k.arg).pow(2))
			lower = 2
		case k.root > 0 && pw.e >= k.root && len(k.base.den) == 0:
			rep = k.base.num
			lower = k.root
		default:
			continue
		}
		rest := append(monomial(nil), m[:i]...)
		if pw.e > lower {
			rest = append(rest, power{k: pw.k, e: pw.e - lower})
		}
		rest = append(rest, m[i+1:]...)
		return rep, rest, true
	}
	return nil, nil, false
}

// funcKernelPoly registers name(arg) for an argument that is already
// canonical and sign-normalized.
func (nz *normalizer) funcKernelPoly(name string, arg Expr) poly {
	f := &Func{name: name, arg: arg}
	key := "f:" + f.String()
	if _, ok := nz.kernels[key]; !ok {
		nz.kernels[key] = &kernel{expr: f, fn: name, arg: arg}
	}
	return polyKernel(key, 1)
}

// ============================================================
// Rational function → expression
// ============================================================

func (nz *normalizer) expr(r rat) Expr {
	num := nz.polyExpr(r.num)
	if len(r.den) == 0 {
		return num
	}
	factors := make([]Expr, 0, len(r.den)+1)
	factors = append(factors, num)
	for _, f := range r.den {
		factors = append(factors, PowOf(nz.polyExpr(f.p), N(int64(-f.mult))))
	}
	return MulOf(factors...)
}

func (nz *normalizer) polyExpr(p poly) Expr {
	if p.isZero() {
		return N(0)
	}
	ts := p.sorted()
	terms := make([]Expr, len(ts))
	for i, t := range ts {
		factors := make([]Expr, 0, len(t.m)+1)
		factors = append(factors, NRat(t.c))
		for _, pw := range t.m {
			k := nz.kernels[pw.k]
			if pw.e == 1 {
				factors = append(factors, k.expr)
			} else {
				factors = append(factors, PowOf(k.expr, N(int64(pw.e))))
			}
		}
		terms[i] = MulOf(factors...)
	}
	return AddOf(terms...)
}
