package symbolic

import "fmt"

// ============================================================
// Differentiation
// ============================================================

// Diff returns ∂e/∂varName. It refuses expressions that apply a function
// without a derivative rule (abs, sign, floor, ceil or an unknown name) to an
// argument depending on varName; such an application would otherwise yield a
// formal derivative the normal form cannot reason about.
func Diff(e Expr, varName string) (Expr, error) {
	if e == nil {
		return nil, ErrUnsupported
	}
	if err := checkDifferentiable(e, varName); err != nil {
		return nil, err
	}
	return e.Diff(varName), nil
}

// DiffN returns the n-th derivative of e with respect to varName.
func DiffN(e Expr, varName string, n int) (Expr, error) {
	var err error
	for i := 0; i < n; i++ {
		if e, err = Diff(e, varName); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func checkDifferentiable(e Expr, varName string) error {
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if err := checkDifferentiable(t, varName); err != nil {
				return err
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if err := checkDifferentiable(f, varName); err != nil {
				return err
			}
		}
	case *Pow:
		if err := checkDifferentiable(v.base, varName); err != nil {
			return err
		}
		return checkDifferentiable(v.exp, varName)
	case *Func:
		if !differentiable[v.name] {
			if _, depends := FreeSymbols(v.arg)[varName]; depends {
				return fmt.Errorf("%w: %s with respect to %s", ErrNotDifferentiable, v.String(), varName)
			}
			return nil
		}
		return checkDifferentiable(v.arg, varName)
	case *Num, *Sym:
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, e)
	}
	return nil
}
