package cli

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/curvature"
)

// MetricFile is the YAML description of a metric:
//
//	name: sphere
//	coordinates: [theta, phi]
//	metric:
//	  - ["r0^2", 0]
//	  - [0, "r0^2*sin(theta)^2"]
//
// Entries are expressions in symbolic.Parse syntax; plain numbers may be
// left unquoted.
type MetricFile struct {
	Name        string          `yaml:"name"`
	Coordinates []string        `yaml:"coordinates"`
	Metric      [][]interface{} `yaml:"metric"`
}

// LoadMetric reads a metric file from path, or from stdin when path is "-".
func LoadMetric(path string, stdin io.Reader) (*MetricFile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read metric: %w", err)
	}
	return ParseMetric(data)
}

// ParseMetric decodes a YAML metric description.
func ParseMetric(data []byte) (*MetricFile, error) {
	var f MetricFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode metric: %w", err)
	}
	if len(f.Coordinates) == 0 {
		return nil, fmt.Errorf("decode metric: no coordinates")
	}
	if len(f.Metric) == 0 {
		return nil, fmt.Errorf("decode metric: no metric rows")
	}
	return &f, nil
}

// Engine builds an engine for the described metric.
func (f *MetricFile) Engine(opts ...curvature.Option) (*curvature.Engine, error) {
	rows := make([][]string, len(f.Metric))
	for i, row := range f.Metric {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			s, err := curvature.EntryString(v)
			if err != nil {
				return nil, fmt.Errorf("metric[%d][%d]: %w", i, j, err)
			}
			rows[i][j] = s
		}
	}
	return curvature.NewFromStrings(f.Coordinates, rows, opts...)
}

// presetEngine builds an engine for a named preset.
func presetEngine(name string, opts ...curvature.Option) (*curvature.Engine, error) {
	coords, metric, ok := curvature.Preset(name)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q: must be one of minkowski, schwarzschild, sphere", name)
	}
	return curvature.New(coords, metric, opts...)
}
