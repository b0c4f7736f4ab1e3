package symbolic

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes e as its tree form, e.g. {"type":"sym","name":"r"}.
func ToJSON(e Expr) (string, error) {
	if e == nil {
		return "", ErrUnsupported
	}
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// JSONValue returns the tree form of e as a value ready to embed in a
// larger JSON document.
func JSONValue(e Expr) map[string]interface{} { return e.toJSON() }

// jsonNode is the decoded shape of every tree-form node. Which fields are
// meaningful depends on Type.
type jsonNode struct {
	Type    string      `json:"type"`
	Value   string      `json:"value"`
	Name    string      `json:"name"`
	Terms   []*jsonNode `json:"terms"`
	Factors []*jsonNode `json:"factors"`
	Base    *jsonNode   `json:"base"`
	Exp     *jsonNode   `json:"exp"`
	Arg     *jsonNode   `json:"arg"`
}

// ParseJSON decodes a tree-form document produced by ToJSON. Every error
// wraps ErrParse.
func ParseJSON(data []byte) (Expr, error) {
	var root *jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: decode expression: %w", ErrParse, err)
	}
	e, err := root.expr("$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return e, nil
}

// expr rebuilds the node at path, which names it in error messages.
func (n *jsonNode) expr(path string) (Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("%s: missing expression", path)
	}
	switch n.Type {
	case "num":
		r, ok := new(big.Rat).SetString(n.Value)
		if !ok {
			return nil, fmt.Errorf("%s: invalid num value %q", path, n.Value)
		}
		return NRat(r), nil

	case "sym":
		if n.Name == "" {
			return nil, fmt.Errorf("%s: sym without a name", path)
		}
		return S(n.Name), nil

	case "add":
		terms, err := jsonList(path+".terms", n.Terms)
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := jsonList(path+".factors", n.Factors)
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := n.Base.expr(path + ".base")
		if err != nil {
			return nil, err
		}
		exp, err := n.Exp.expr(path + ".exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		if n.Name == "" {
			return nil, fmt.Errorf("%s: func without a name", path)
		}
		arg, err := n.Arg.expr(path + ".arg")
		if err != nil {
			return nil, err
		}
		return funcOf(n.Name, arg).Simplify(), nil

	case "":
		return nil, fmt.Errorf("%s: missing type", path)
	}
	return nil, fmt.Errorf("%s: unknown expression type %q", path, n.Type)
}

func jsonList(path string, nodes []*jsonNode) ([]Expr, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: empty", path)
	}
	out := make([]Expr, len(nodes))
	for i, n := range nodes {
		e, err := n.expr(fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
