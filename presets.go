package curvature

import "github.com/njchilds90/curvature/symbolic"

// Minkowski returns flat spacetime in Cartesian coordinates (t, x, y, z)
// with signature (-,+,+,+).
func Minkowski() ([]*symbolic.Sym, *symbolic.Matrix) {
	coords := []*symbolic.Sym{symbolic.S("t"), symbolic.S("x"), symbolic.S("y"), symbolic.S("z")}
	return coords, symbolic.Diagonal(symbolic.N(-1), symbolic.N(1), symbolic.N(1), symbolic.N(1))
}

// Schwarzschild returns the exterior Schwarzschild metric of mass m in
// coordinates (t, r, theta, phi), geometric units:
//
//	diag(-1 + 2m/r, (1 - 2m/r)^-1, r², r² sin²θ)
func Schwarzschild() ([]*symbolic.Sym, *symbolic.Matrix) {
	t, r, theta, phi := symbolic.S("t"), symbolic.S("r"), symbolic.S("theta"), symbolic.S("phi")
	m := symbolic.S("m")
	twoMOverR := symbolic.DivOf(symbolic.MulOf(symbolic.N(2), m), r)
	r2 := symbolic.PowOf(r, symbolic.N(2))
	return []*symbolic.Sym{t, r, theta, phi}, symbolic.Diagonal(
		symbolic.AddOf(symbolic.N(-1), twoMOverR),
		symbolic.PowOf(symbolic.SubOf(symbolic.N(1), twoMOverR), symbolic.N(-1)),
		r2,
		symbolic.MulOf(r2, symbolic.PowOf(symbolic.SinOf(theta), symbolic.N(2))),
	)
}

// TwoSphere returns the round 2-sphere of constant radius r0 in coordinates
// (theta, phi). Its Ricci scalar is 2/r0².
func TwoSphere() ([]*symbolic.Sym, *symbolic.Matrix) {
	theta, phi := symbolic.S("theta"), symbolic.S("phi")
	r02 := symbolic.PowOf(symbolic.S("r0"), symbolic.N(2))
	return []*symbolic.Sym{theta, phi}, symbolic.Diagonal(
		r02,
		symbolic.MulOf(r02, symbolic.PowOf(symbolic.SinOf(theta), symbolic.N(2))),
	)
}

// Preset returns the named preset: "minkowski", "schwarzschild" or "sphere".
func Preset(name string) ([]*symbolic.Sym, *symbolic.Matrix, bool) {
	switch name {
	case "minkowski":
		c, m := Minkowski()
		return c, m, true
	case "schwarzschild":
		c, m := Schwarzschild()
		return c, m, true
	case "sphere", "two_sphere":
		c, m := TwoSphere()
		return c, m, true
	}
	return nil, nil, false
}
