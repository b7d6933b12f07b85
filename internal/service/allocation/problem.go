package allocation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/KasumiMercury/primind-demand-allocation/internal/service/ilp"
)

const (
	resourceRowPrefix  = "ResourceConstraint_"
	maxRowPrefix       = "max_allocation_"
	minRowPrefix       = "min_allocation_"
	customRowPrefix    = "CustomConstraint_"
	totalLimitRowName  = "total_allocation_limit"
	fulfillmentRowName = "demand_fulfillment_ratio"
)

// Validate reports every problem with the request, joined.
func (p Problem) Validate() error {
	if len(p.Demand) == 0 {
		return ErrEmptyDemand
	}

	var errs []error
	for _, inst := range sortedInstitutions(p.Demand) {
		if p.Demand[inst] < 0 {
			errs = append(errs, fmt.Errorf("%w: %q has %d", ErrNegativeDemand, inst, p.Demand[inst]))
		}
		capacity, ok := p.Capacity[inst]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrMissingCapacity, inst))
			continue
		}
		if capacity < 0 {
			errs = append(errs, fmt.Errorf("%w: %q has %d", ErrNegativeCapacity, inst, capacity))
		}
	}

	known := make(map[string]struct{}, len(p.Demand))
	for inst := range p.Demand {
		known[inst] = struct{}{}
	}
	seen := make(map[string]struct{}, len(p.Constraints))
	for _, c := range p.Constraints {
		if _, dup := seen[c.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateConstraint, c.Name))
			continue
		}
		seen[c.Name] = struct{}{}
		if err := c.validate(known); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// BuildModel translates a validated problem into an integer program with one
// variable per institution, ordered by institution id.
func BuildModel(cfg Config, p Problem) (*ilp.Model, error) {
	institutions := sortedInstitutions(p.Demand)
	index := make(map[string]int, len(institutions))
	for i, inst := range institutions {
		index[inst] = i
	}
	n := len(institutions)

	model := ilp.NewModel(institutions)

	objective := make([]float64, n)
	totalDemand := 0.0
	for i, inst := range institutions {
		objective[i] = float64(p.Demand[inst])
		totalDemand += float64(p.Demand[inst])
	}
	if err := model.SetObjective(objective); err != nil {
		return nil, err
	}

	add := func(name string, coef []float64, sense ilp.Sense, rhs float64) error {
		if err := model.AddRow(name, coef, sense, rhs); err != nil {
			return fmt.Errorf("add row %s: %w", name, err)
		}
		return nil
	}

	for i, inst := range institutions {
		if err := add(resourceRowPrefix+inst, unit(n, i), ilp.LessOrEqual, float64(p.Capacity[inst])); err != nil {
			return nil, err
		}
	}

	if err := add(totalLimitRowName, ones(n), ilp.LessOrEqual, float64(cfg.PoolSize)); err != nil {
		return nil, err
	}

	if cfg.MaxPerInstitution > 0 {
		for i, inst := range institutions {
			if err := add(maxRowPrefix+inst, unit(n, i), ilp.LessOrEqual, float64(cfg.MaxPerInstitution)); err != nil {
				return nil, err
			}
		}
	}

	if cfg.MinPerInstitution > 0 {
		for i, inst := range institutions {
			if err := add(minRowPrefix+inst, unit(n, i), ilp.GreaterOrEqual, float64(cfg.MinPerInstitution)); err != nil {
				return nil, err
			}
		}
	}

	if cfg.FulfillmentRatio > 0 {
		if err := add(fulfillmentRowName, objective, ilp.GreaterOrEqual, cfg.FulfillmentRatio*totalDemand); err != nil {
			return nil, err
		}
	}

	for _, c := range p.Constraints {
		c = c.normalize()
		coef := make([]float64, n)
		for _, t := range c.Terms {
			coef[index[t.Institution]] += t.Coefficient
		}
		if err := add(customRowPrefix+c.Name, coef, c.Relation.sense(), c.Bound); err != nil {
			return nil, err
		}
	}

	return model, nil
}

func sortedInstitutions(demand map[string]int) []string {
	institutions := make([]string, 0, len(demand))
	for inst := range demand {
		institutions = append(institutions, inst)
	}
	sort.Strings(institutions)
	return institutions
}

func unit(n, i int) []float64 {
	v := make([]float64, n)
	v[i] = 1
	return v
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}
