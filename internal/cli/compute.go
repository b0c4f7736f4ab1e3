package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/njchilds90/curvature"
	"github.com/njchilds90/curvature/symbolic"
)

// ComputeOptions holds the flags of the compute command.
type ComputeOptions struct {
	Quantities []string
	Preset     string
	LaTeX      bool
	Timeout    time.Duration
	Workers    int
}

// ComputeResult is the JSON payload of the compute command.
type ComputeResult struct {
	Name        string           `json:"name,omitempty"`
	Coordinates []string         `json:"coordinates"`
	Quantities  []QuantityResult `json:"quantities"`
}

// QuantityResult is one derived quantity. Tensors list their independent
// non-zero components; the Ricci scalar fills Scalar.
type QuantityResult struct {
	Quantity   curvature.Quantity        `json:"quantity"`
	Components []curvature.ToolComponent `json:"components,omitempty"`
	Scalar     *ScalarResult             `json:"scalar,omitempty"`
}

// ScalarResult is a rendered scalar expression.
type ScalarResult struct {
	String string                 `json:"string"`
	LaTeX  string                 `json:"latex"`
	Expr   map[string]interface{} `json:"expr"`
}

var headers = map[curvature.Quantity]string{
	curvature.QuantityMetric:        "The metric is:",
	curvature.QuantityInverseMetric: "The inverse metric is:",
	curvature.QuantityChristoffel:   "The independent non-zero Christoffel symbols are:",
	curvature.QuantityRiemann:       "The independent non-zero Riemann tensor components are:",
	curvature.QuantityRicci:         "The independent non-zero Ricci tensor components are:",
	curvature.QuantityRicciScalar:   "The Ricci scalar is:",
	curvature.QuantityEinstein:      "The independent non-zero Einstein tensor components are:",
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComputeOptions{}

	cmd := &cobra.Command{
		Use:   "compute [metric.yaml|-]",
		Short: "Derive curvature quantities of a metric",
		Long: `Derive curvature quantities of a metric read from a YAML file
(or stdin with "-"), or of a built-in preset.

Quantities: metric, inverse_metric, christoffel, riemann, ricci,
ricci_scalar, einstein. All are printed unless --quantity is given.`,
		Example: `  curvature compute --preset schwarzschild -q ricci -q einstein
  curvature compute metric.yaml --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd.Context(), rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Quantities, "quantity", "q", nil, "quantity to print (repeatable; default all)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "built-in metric instead of a file (minkowski|schwarzschild|sphere)")
	cmd.Flags().BoolVar(&opts.LaTeX, "latex", false, "render expressions as LaTeX in text output")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "abort the derivation after this long (0 means no limit)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "components evaluated concurrently per stage")

	return cmd
}

func runCompute(ctx context.Context, rootOpts *RootOptions, opts *ComputeOptions, args []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	quantities, err := parseQuantities(opts.Quantities)
	if err != nil {
		return formatter.Fail(ExitCommandError, "invalid quantity", err)
	}

	engineOpts := []curvature.Option{
		curvature.WithLogger(newLogger(rootOpts, cmd.ErrOrStderr())),
		curvature.WithWorkers(opts.Workers),
	}
	var (
		eng  *curvature.Engine
		name string
	)
	switch {
	case opts.Preset != "" && len(args) > 0:
		return formatter.Fail(ExitCommandError, "invalid input", fmt.Errorf("give either --preset or a metric file, not both"))
	case opts.Preset != "":
		name = opts.Preset
		eng, err = presetEngine(opts.Preset, engineOpts...)
	case len(args) == 1:
		var f *MetricFile
		f, err = LoadMetric(args[0], cmd.InOrStdin())
		if err == nil {
			name = f.Name
			eng, err = f.Engine(engineOpts...)
		}
	default:
		return formatter.Fail(ExitCommandError, "invalid input", fmt.Errorf("a metric file or --preset is required"))
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, "invalid metric", err)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if rootOpts.Format == "json" {
		result, err := collect(ctx, eng, name, quantities)
		if err != nil {
			return formatter.Fail(ExitFailure, "derivation failed", err)
		}
		return formatter.Success(result)
	}
	if err := writeText(ctx, cmd.OutOrStdout(), eng, quantities, opts.LaTeX); err != nil {
		return formatter.Fail(ExitFailure, "derivation failed", err)
	}
	return nil
}

func parseQuantities(names []string) ([]curvature.Quantity, error) {
	if len(names) == 0 {
		return curvature.Quantities(), nil
	}
	out := make([]curvature.Quantity, 0, len(names))
	for _, n := range names {
		q, err := curvature.ParseQuantity(n)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// writeText prints the coordinates and then one section per quantity, in
// the order requested.
func writeText(ctx context.Context, w io.Writer, eng *curvature.Engine, quantities []curvature.Quantity, latex bool) error {
	var displayOpts []curvature.DisplayOption
	if latex {
		displayOpts = append(displayOpts, curvature.DisplayLaTeX())
	}

	coords := eng.Coordinates()
	names := make([]string, len(coords))
	for i, c := range coords {
		names[i] = c.Name()
	}
	fmt.Fprintf(w, "The coordinates are:\n[%s]\n", strings.Join(names, ", "))

	for _, q := range quantities {
		var buf bytes.Buffer
		if err := eng.Display(ctx, &buf, q, displayOpts...); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", headers[q])
		if buf.Len() == 0 {
			fmt.Fprintln(w, "(none)")
			continue
		}
		if _, err := buf.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

func collect(ctx context.Context, eng *curvature.Engine, name string, quantities []curvature.Quantity) (*ComputeResult, error) {
	result := &ComputeResult{Name: name}
	for _, c := range eng.Coordinates() {
		result.Coordinates = append(result.Coordinates, c.Name())
	}

	for _, q := range quantities {
		if q == curvature.QuantityRicciScalar {
			r, err := eng.RicciScalar(ctx)
			if err != nil {
				return nil, err
			}
			result.Quantities = append(result.Quantities, QuantityResult{
				Quantity: q,
				Scalar: &ScalarResult{
					String: symbolic.String(r),
					LaTeX:  symbolic.LaTeX(r),
					Expr:   symbolic.JSONValue(r),
				},
			})
			continue
		}

		t, err := eng.Tensor(ctx, q)
		if err != nil {
			return nil, err
		}
		result.Quantities = append(result.Quantities, QuantityResult{Quantity: q, Components: curvature.ToolComponents(t)})
	}
	return result, nil
}
