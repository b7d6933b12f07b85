package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/KasumiMercury/primind-demand-allocation/internal/service/allocation"
)

var (
	ErrEmptyInstitutions  = errors.New("institution list is empty")
	ErrInvalidCapacityRng = errors.New("invalid capacity range")
)

// structuredConstraint is the mapping form of a constraints file entry.
type structuredConstraint struct {
	Relation string            `yaml:"relation"`
	Bound    float64           `yaml:"bound"`
	Terms    []allocation.Term `yaml:"terms"`
}

func readYAML(ctx context.Context, fs afs.Service, url string, out any) error {
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// loadInstitutions reads a YAML list of institution ids, or returns the
// defaults when url is empty.
func loadInstitutions(ctx context.Context, fs afs.Service, url string) ([]string, error) {
	if url == "" {
		return append([]string(nil), defaultInstitutions...), nil
	}

	var raw []string
	if err := readYAML(ctx, fs, url, &raw); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(raw))
	institutions := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		institutions = append(institutions, id)
	}
	if len(institutions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInstitutions, url)
	}
	return institutions, nil
}

// loadConstraints reads a YAML map of constraint name to either an expression
// string or a structured {relation, bound, terms} mapping.
func loadConstraints(ctx context.Context, fs afs.Service, url string) ([]allocation.Constraint, error) {
	if url == "" {
		return allocation.ParseConstraints(defaultConstraints)
	}

	var raw map[string]yaml.Node
	if err := readYAML(ctx, fs, url, &raw); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	constraints := make([]allocation.Constraint, 0, len(names))
	for _, name := range names {
		node := raw[name]
		switch node.Kind {
		case yaml.ScalarNode:
			c, err := allocation.ParseConstraint(name, node.Value)
			if err != nil {
				return nil, err
			}
			constraints = append(constraints, c)
		case yaml.MappingNode:
			var s structuredConstraint
			if err := node.Decode(&s); err != nil {
				return nil, fmt.Errorf("%w: constraint %q: %v", allocation.ErrInvalidConstraint, name, err)
			}
			relation, err := allocation.ParseRelation(s.Relation)
			if err != nil {
				return nil, fmt.Errorf("constraint %q: %w", name, err)
			}
			constraints = append(constraints, allocation.Constraint{
				Name:     name,
				Relation: relation,
				Terms:    s.Terms,
				Bound:    s.Bound,
			})
		default:
			return nil, fmt.Errorf("%w: constraint %q must be an expression or a mapping",
				allocation.ErrInvalidConstraint, name)
		}
	}
	return constraints, nil
}

// loadCapacities reads a YAML map of institution to capacity. Institutions
// missing from the file get a random capacity.
func loadCapacities(ctx context.Context, fs afs.Service, url string, institutions []string, rng *rand.Rand, lo, hi int) (map[string]int, error) {
	if lo < 0 || hi < lo {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidCapacityRng, lo, hi)
	}

	capacity := make(map[string]int, len(institutions))
	if url != "" {
		if err := readYAML(ctx, fs, url, &capacity); err != nil {
			return nil, err
		}
	}

	for _, inst := range institutions {
		if _, ok := capacity[inst]; !ok {
			capacity[inst] = lo + rng.IntN(hi-lo+1)
		}
	}
	return capacity, nil
}
