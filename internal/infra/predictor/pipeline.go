package predictor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
)

const (
	BoosterTree   = "gbtree"
	BoosterLinear = "gblinear"
)

var _ domain.DemandPredictor = (*Pipeline)(nil)

// Pipeline is a serialized fitted regression pipeline: categorical encoding
// followed by a gradient-boosted ensemble or a linear booster. Its output is
// on the log scale.
type Pipeline struct {
	ID          string              `json:"version"`
	Columns     []string            `json:"columns"`
	Categorical map[string][]string `json:"categorical"`
	Booster     Booster             `json:"booster"`

	vocab map[int]map[string]int
}

type Booster struct {
	Type      string    `json:"type"`
	BaseScore float64   `json:"base_score,omitempty"`
	Trees     []Tree    `json:"trees,omitempty"`
	Bias      float64   `json:"bias,omitempty"`
	Weights   []float64 `json:"weights,omitempty"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split when Leaf is nil: inputs below Threshold go to Yes, others
// to No, and missing inputs to Missing.
type Node struct {
	Feature   int      `json:"feature,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Yes       int      `json:"yes,omitempty"`
	No        int      `json:"no,omitempty"`
	Missing   int      `json:"missing,omitempty"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

// Unmarshal decodes and validates a pipeline.
func Unmarshal(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
	}
	if p.ID == "" {
		sum := sha256.Sum256(data)
		p.ID = hex.EncodeToString(sum[:])[:12]
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Pipeline) Marshal() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func Load(ctx context.Context, fs afs.Service, url string) (*Pipeline, error) {
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download model pipeline %s: %w", url, err)
	}
	p, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("load model pipeline %s: %w", url, err)
	}
	return p, nil
}

func (p *Pipeline) Save(ctx context.Context, fs afs.Service, url string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := fs.Upload(ctx, url, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upload model pipeline %s: %w", url, err)
	}
	return nil
}

func (p *Pipeline) init() error {
	if len(p.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidPipeline)
	}

	position := make(map[string]int, len(p.Columns))
	for i, col := range p.Columns {
		if _, dup := position[col]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidPipeline, col)
		}
		position[col] = i
	}

	p.vocab = make(map[int]map[string]int, len(p.Categorical))
	for col, categories := range p.Categorical {
		i, ok := position[col]
		if !ok {
			return fmt.Errorf("%w: vocabulary for unknown column %q", ErrInvalidPipeline, col)
		}
		codes := make(map[string]int, len(categories))
		for code, category := range categories {
			codes[category] = code
		}
		p.vocab[i] = codes
	}

	switch p.Booster.Type {
	case BoosterTree:
		for t, tree := range p.Booster.Trees {
			if err := tree.validate(len(p.Columns)); err != nil {
				return fmt.Errorf("%w: tree %d: %v", ErrInvalidPipeline, t, err)
			}
		}
	case BoosterLinear:
		if len(p.Booster.Weights) != len(p.Columns) {
			return fmt.Errorf("%w: %d weights for %d columns", ErrInvalidPipeline, len(p.Booster.Weights), len(p.Columns))
		}
	default:
		return fmt.Errorf("%w: unknown booster %q", ErrInvalidPipeline, p.Booster.Type)
	}
	return nil
}

// children must point forward so evaluation always terminates.
func (t Tree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf != nil {
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d splits on feature %d", i, n.Feature)
		}
		for _, child := range []int{n.Yes, n.No, n.Missing} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d has child %d", i, child)
			}
		}
	}
	return nil
}

// Version identifies the fitted model; it defaults to a digest of the source.
func (p *Pipeline) Version() string {
	return p.ID
}

// Predict returns the log-scale prediction for an ordered covariate vector.
func (p *Pipeline) Predict(_ context.Context, vector domain.CovariateVector) (float64, error) {
	x, err := p.encode(vector)
	if err != nil {
		return 0, err
	}

	switch p.Booster.Type {
	case BoosterLinear:
		sum := p.Booster.Bias
		for i, v := range x {
			if !math.IsNaN(v) {
				sum += p.Booster.Weights[i] * v
			}
		}
		return sum, nil
	default:
		sum := p.Booster.BaseScore
		for _, tree := range p.Booster.Trees {
			sum += tree.eval(x)
		}
		return sum, nil
	}
}

func (p *Pipeline) encode(vector domain.CovariateVector) ([]float64, error) {
	if len(vector) != len(p.Columns) {
		return nil, fmt.Errorf("%w: got %d covariates, want %d", ErrColumnMismatch, len(vector), len(p.Columns))
	}

	x := make([]float64, len(vector))
	for i, c := range vector {
		if c.Name != p.Columns[i] {
			return nil, fmt.Errorf("%w: position %d is %q, want %q", ErrColumnMismatch, i, c.Name, p.Columns[i])
		}
		codes, categorical := p.vocab[i]
		if categorical != c.Categorical {
			return nil, fmt.Errorf("%w: column %q", ErrCategoryType, c.Name)
		}
		if categorical {
			code, ok := codes[c.Text]
			if !ok {
				x[i] = math.NaN()
				continue
			}
			x[i] = float64(code)
			continue
		}
		x[i] = c.Number
	}
	return x, nil
}

func (t Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return *n.Leaf
		}
		v := x[n.Feature]
		switch {
		case math.IsNaN(v):
			i = n.Missing
		case v < n.Threshold:
			i = n.Yes
		default:
			i = n.No
		}
	}
}
