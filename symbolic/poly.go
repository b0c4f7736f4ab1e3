package symbolic

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Monomials over kernels
// ============================================================

// power is one kernel raised to a positive integer exponent. Kernels are
// identified by their key; the normalizer maps keys back to expressions.
type power struct {
	k string
	e int
}

// monomial is a product of powers sorted by kernel key. The empty monomial
// is the constant 1.
type monomial []power

func (m monomial) degree() int {
	d := 0
	for _, p := range m {
		d += p.e
	}
	return d
}

func (m monomial) key() string {
	if len(m) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, p := range m {
		if i > 0 {
			sb.WriteByte('\x01')
		}
		sb.WriteString(p.k)
		sb.WriteByte('\x00')
		sb.WriteString(strconv.Itoa(p.e))
	}
	return sb.String()
}

func (m monomial) exponent(k string) int {
	i := sort.Search(len(m), func(i int) bool { return m[i].k >= k })
	if i < len(m) && m[i].k == k {
		return m[i].e
	}
	return 0
}

// compareMono orders monomials graded-lexicographically: higher total degree
// first, then by exponent of kernels taken in ascending key order.
func compareMono(a, b monomial) int {
	if da, db := a.degree(), b.degree(); da != db {
		if da > db {
			return 1
		}
		return -1
	}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].k == b[j].k:
			if a[i].e != b[j].e {
				if a[i].e > b[j].e {
					return 1
				}
				return -1
			}
			i++
			j++
		case a[i].k < b[j].k:
			return 1
		default:
			return -1
		}
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return 0
}

func mulMono(a, b monomial) monomial {
	out := make(monomial, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].k == b[j].k:
			out = append(out, power{k: a[i].k, e: a[i].e + b[j].e})
			i++
			j++
		case a[i].k < b[j].k:
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

// divMono returns a/b when b divides a.
func divMono(a, b monomial) (monomial, bool) {
	out := make(monomial, 0, len(a))
	j := 0
	for _, p := range a {
		if j < len(b) && b[j].k < p.k {
			return nil, false
		}
		if j < len(b) && b[j].k == p.k {
			if b[j].e > p.e {
				return nil, false
			}
			if p.e > b[j].e {
				out = append(out, power{k: p.k, e: p.e - b[j].e})
			}
			j++
			continue
		}
		out = append(out, p)
	}
	if j < len(b) {
		return nil, false
	}
	return out, true
}

// ============================================================
// Sparse polynomials with exact coefficients
// ============================================================

type term struct {
	m monomial
	c *big.Rat
}

// poly is an expanded polynomial keyed by monomial key. Zero coefficients
// are never stored, so the zero polynomial is the empty map.
type poly map[string]term

func polyConst(c *big.Rat) poly {
	if c.Sign() == 0 {
		return poly{}
	}
	return poly{"": {m: nil, c: new(big.Rat).Set(c)}}
}

func polyKernel(k string, e int) poly {
	m := monomial{{k: k, e: e}}
	return poly{m.key(): {m: m, c: big.NewRat(1, 1)}}
}

func (p poly) isZero() bool { return len(p) == 0 }

// constant returns the value of p when p has no kernels.
func (p poly) constant() (*big.Rat, bool) {
	switch len(p) {
	case 0:
		return new(big.Rat), true
	case 1:
		if t, ok := p[""]; ok {
			return t.c, true
		}
	}
	return nil, false
}

func (p poly) addTerm(m monomial, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	key := m.key()
	if t, ok := p[key]; ok {
		sum := new(big.Rat).Add(t.c, c)
		if sum.Sign() == 0 {
			delete(p, key)
			return
		}
		p[key] = term{m: t.m, c: sum}
		return
	}
	p[key] = term{m: m, c: new(big.Rat).Set(c)}
}

func (p poly) add(q poly) poly {
	out := make(poly, len(p)+len(q))
	for k, t := range p {
		out[k] = t
	}
	for _, t := range q {
		out.addTerm(t.m, t.c)
	}
	return out
}

func (p poly) neg() poly {
	out := make(poly, len(p))
	for k, t := range p {
		out[k] = term{m: t.m, c: new(big.Rat).Neg(t.c)}
	}
	return out
}

func (p poly) scale(c *big.Rat) poly {
	if c.Sign() == 0 {
		return poly{}
	}
	out := make(poly, len(p))
	for k, t := range p {
		out[k] = term{m: t.m, c: new(big.Rat).Mul(t.c, c)}
	}
	return out
}

func (p poly) mul(q poly) poly {
	out := make(poly, len(p)*len(q))
	for _, a := range p {
		for _, b := range q {
			out.addTerm(mulMono(a.m, b.m), new(big.Rat).Mul(a.c, b.c))
		}
	}
	return out
}

func (p poly) pow(e int) poly {
	out := polyConst(big.NewRat(1, 1))
	base := p
	for e > 0 {
		if e&1 == 1 {
			out = out.mul(base)
		}
		e >>= 1
		if e > 0 {
			base = base.mul(base)
		}
	}
	return out
}

// sorted returns the terms of p in decreasing monomial order.
func (p poly) sorted() []term {
	ts := make([]term, 0, len(p))
	for _, t := range p {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return compareMono(ts[i].m, ts[j].m) > 0 })
	return ts
}

func (p poly) leading() term {
	var lead term
	first := true
	for _, t := range p {
		if first || compareMono(t.m, lead.m) > 0 {
			lead = t
			first = false
		}
	}
	return lead
}

// key is a canonical string for p, stable across map iteration order.
func (p poly) key() string {
	var sb strings.Builder
	for i, t := range p.sorted() {
		if i > 0 {
			sb.WriteByte('\x02')
		}
		sb.WriteString(t.c.RatString())
		sb.WriteByte('\x03')
		sb.WriteString(t.m.key())
	}
	return sb.String()
}

// divExact returns p/d when d divides p in the polynomial ring.
func (p poly) divExact(d poly) (poly, bool) {
	if d.isZero() {
		return nil, false
	}
	lead := d.leading()
	rem := p.add(poly{})
	quo := poly{}
	for !rem.isZero() {
		lt := rem.leading()
		m, ok := divMono(lt.m, lead.m)
		if !ok {
			return nil, false
		}
		c := new(big.Rat).Quo(lt.c, lead.c)
		step := poly{m.key(): {m: m, c: c}}
		quo.addTerm(m, c)
		rem = rem.add(step.mul(d).neg())
	}
	return quo, true
}

// primitive splits p into content and primitive part: p = c·q where q has
// coprime integer coefficients and a positive leading coefficient.
func (p poly) primitive() (*big.Rat, poly) {
	if p.isZero() {
		return new(big.Rat), p
	}
	g := new(big.Int)
	l := big.NewInt(1)
	for _, t := range p {
		g.GCD(nil, nil, g, new(big.Int).Abs(t.c.Num()))
		d := t.c.Denom()
		l.Div(new(big.Int).Mul(l, d), new(big.Int).GCD(nil, nil, l, d))
	}
	c := new(big.Rat).SetFrac(g, l)
	if p.leading().c.Sign() < 0 {
		c.Neg(c)
	}
	return c, p.scale(new(big.Rat).Inv(c))
}

// monomialContent returns the largest monomial dividing every term of p and
// the quotient.
func (p poly) monomialContent() (monomial, poly) {
	var common monomial
	first := true
	for _, t := range p {
		if first {
			common = append(monomial(nil), t.m...)
			first = false
			continue
		}
		next := common[:0:0]
		for _, pw := range common {
			if e := t.m.exponent(pw.k); e > 0 {
				next = append(next, power{k: pw.k, e: min(e, pw.e)})
			}
		}
		common = next
	}
	if len(common) == 0 {
		return nil, p
	}
	out := make(poly, len(p))
	for _, t := range p {
		m, _ := divMono(t.m, common)
		out[m.key()] = term{m: m, c: t.c}
	}
	return common, out
}
