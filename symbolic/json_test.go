package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/curvature/symbolic"
)

func TestToJSON_Num(t *testing.T) {
	s, err := symbolic.ToJSON(symbolic.N(3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"num","value":"3"}`, s)
}

func TestToJSON_Add(t *testing.T) {
	s, err := symbolic.ToJSON(symbolic.AddOf(x, symbolic.N(1)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"num","value":"1"}]}`, s)
}

func TestJSON_RoundTrip(t *testing.T) {
	exprs := []symbolic.Expr{
		symbolic.MustParse("-1 + 2*m/r"),
		symbolic.MustParse("r^2*sin(theta)^2"),
		symbolic.MustParse("sqrt(x + 1)/3"),
		symbolic.MustParse("f(t)"),
	}
	for _, e := range exprs {
		s, err := symbolic.ToJSON(e)
		require.NoError(t, err)
		back, err := symbolic.ParseJSON([]byte(s))
		require.NoError(t, err)
		assert.True(t, e.Equal(back), "%s != %s", e, back)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"not json":     {`{`, "decode expression"},
		"null":         {`null`, "$: missing expression"},
		"missing type": {`{}`, "$: missing type"},
		"unknown type": {`{"type":"matrix"}`, `unknown expression type "matrix"`},
		"bad number":   {`{"type":"num","value":"abc"}`, `invalid num value "abc"`},
		"bad terms":    {`{"type":"add","terms":[1]}`, "decode expression"},
		"empty terms":  {`{"type":"add","terms":[]}`, "$.terms: empty"},
		"missing exp":  {`{"type":"pow","base":{"type":"sym","name":"x"}}`, "$.exp: missing expression"},
		"nested":       {`{"type":"mul","factors":[{"type":"sym","name":"x"},{"type":"func","name":"sin"}]}`, "$.factors[1].arg"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := symbolic.ParseJSON([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, symbolic.ErrParse)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
