package curvature

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/njchilds90/curvature/symbolic"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest is a JSON tool call, e.g.
//
//	{"tool":"ricci","params":{"coordinates":["theta","phi"],
//	 "metric":[["r0^2",0],[0,"r0^2*sin(theta)^2"]]}}
//
// A "preset" param may replace coordinates and metric.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ToolComponent is one independent non-zero tensor component of a tool
// result.
type ToolComponent struct {
	Index  []int                  `json:"index"`
	Label  string                 `json:"label"`
	String string                 `json:"string"`
	LaTeX  string                 `json:"latex"`
	Expr   map[string]interface{} `json:"expr"`
}

// HandleToolCall builds an engine from the request params and answers the
// requested tool. Errors are reported in ToolResponse.Error.
func HandleToolCall(ctx context.Context, req ToolRequest, opts ...Option) ToolResponse {
	if req.Tool == "tool_spec" {
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}
	if _, ok := toolQuantities[req.Tool]; !ok && req.Tool != "vacuum" {
		return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
	}

	eng, err := engineFromParams(req.Params, opts...)
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}

	switch req.Tool {
	case "vacuum":
		ok, err := eng.IsVacuum(ctx)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: ok, String: strconv.FormatBool(ok)}
	case "ricci_scalar":
		r, err := eng.RicciScalar(ctx)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: symbolic.JSONValue(r), LaTeX: symbolic.LaTeX(r), String: symbolic.String(r)}
	}

	t, err := eng.Tensor(ctx, toolQuantities[req.Tool])
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}
	return respondTensor(t)
}

var toolQuantities = map[string]Quantity{
	"inverse_metric": QuantityInverseMetric,
	"christoffel":    QuantityChristoffel,
	"riemann":        QuantityRiemann,
	"ricci":          QuantityRicci,
	"ricci_scalar":   QuantityRicciScalar,
	"einstein":       QuantityEinstein,
}

func respondTensor(t *Tensor) ToolResponse {
	comps := ToolComponents(t)
	lines := make([]string, len(comps))
	latex := make([]string, len(comps))
	for i, c := range comps {
		lines[i] = c.Label + " = " + c.String
		latex[i] = c.LaTeX
	}
	return ToolResponse{
		Result: comps,
		String: strings.Join(lines, "\n"),
		LaTeX:  strings.Join(latex, ` \\ `),
	}
}

// ToolComponents renders the independent non-zero components of t.
func ToolComponents(t *Tensor) []ToolComponent {
	comps := t.Independent()
	out := make([]ToolComponent, len(comps))
	for i, c := range comps {
		out[i] = ToolComponent{
			Index:  c.Index,
			Label:  c.Label(t.Name()),
			String: c.Expr.String(),
			LaTeX:  c.Expr.LaTeX(),
			Expr:   symbolic.JSONValue(c.Expr),
		}
	}
	return out
}

// maxToolDim bounds the metrics a tool call may submit. Inverting the metric
// in New does not observe the request context.
const maxToolDim = 8

func engineFromParams(params map[string]interface{}, opts ...Option) (*Engine, error) {
	if name, ok := params["preset"].(string); ok {
		coords, metric, found := Preset(name)
		if !found {
			return nil, fmt.Errorf("unknown preset: %s", name)
		}
		return New(coords, metric, opts...)
	}

	rawCoords, ok := params["coordinates"]
	if !ok {
		return nil, fmt.Errorf("missing param: coordinates")
	}
	coordList, ok := rawCoords.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param coordinates must be array")
	}
	if len(coordList) > maxToolDim {
		return nil, fmt.Errorf("%w: %d coordinates exceeds the tool limit of %d", ErrDimensionMismatch, len(coordList), maxToolDim)
	}
	coords := make([]string, len(coordList))
	for i, c := range coordList {
		s, ok := c.(string)
		if !ok {
			return nil, fmt.Errorf("param coordinates[%d] must be string", i)
		}
		coords[i] = s
	}

	rawMetric, ok := params["metric"]
	if !ok {
		return nil, fmt.Errorf("missing param: metric")
	}
	rowList, ok := rawMetric.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param metric must be array of arrays")
	}
	if len(rowList) > maxToolDim {
		return nil, fmt.Errorf("%w: %d metric rows exceeds the tool limit of %d", ErrDimensionMismatch, len(rowList), maxToolDim)
	}
	rows := make([][]string, len(rowList))
	for i, r := range rowList {
		cells, ok := r.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param metric[%d] must be array", i)
		}
		rows[i] = make([]string, len(cells))
		for j, cell := range cells {
			s, err := EntryString(cell)
			if err != nil {
				return nil, fmt.Errorf("param metric[%d][%d]: %w", i, j, err)
			}
			rows[i][j] = s
		}
	}
	return NewFromStrings(coords, rows, opts...)
}

// EntryString converts a decoded JSON or YAML metric entry to the text
// symbolic.Parse reads. Strings pass through; numbers are formatted exactly.
func EntryString(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case json.Number:
		return t.String(), nil
	}
	return "", fmt.Errorf("entry must be a string or number, got %T", v)
}

// ToolSpec returns the JSON schema of the tools for agent registration.
func ToolSpec() string {
	params := map[string]string{"coordinates": "array", "metric": "array", "preset": "string"}
	tools := []map[string]interface{}{
		ts("inverse_metric", "Exact inverse of the metric", params),
		ts("christoffel", "Independent non-zero Christoffel symbols Gamma[i,j,k] (k <= j)", params),
		ts("riemann", "Independent non-zero Riemann components Riemann[i,j,k,l] (l < k)", params),
		ts("ricci", "Independent non-zero Ricci components Ricci[j,l] (l <= j)", params),
		ts("ricci_scalar", "Ricci scalar", params),
		ts("einstein", "Independent non-zero Einstein components Einstein[j,l] (l <= j)", params),
		ts("vacuum", "Whether the Einstein tensor vanishes identically", params),
		ts("tool_spec", "Return this tool schema", map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
		},
	}
}
