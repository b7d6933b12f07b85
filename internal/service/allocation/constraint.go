package allocation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KasumiMercury/primind-demand-allocation/internal/service/ilp"
)

// Relation is the comparison a custom constraint imposes on its weighted sum.
type Relation string

const (
	RelationLE Relation = "LE"
	RelationGE Relation = "GE"
	RelationEQ Relation = "EQ"
)

// ParseRelation accepts the symbolic and named spellings of a relation.
func ParseRelation(s string) (Relation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LE", "<=":
		return RelationLE, nil
	case "GE", ">=":
		return RelationGE, nil
	case "EQ", "==", "=":
		return RelationEQ, nil
	default:
		return "", fmt.Errorf("%w: unknown relation %q", ErrInvalidConstraint, s)
	}
}

func (r Relation) sense() ilp.Sense {
	switch r {
	case RelationGE:
		return ilp.GreaterOrEqual
	case RelationEQ:
		return ilp.Equal
	default:
		return ilp.LessOrEqual
	}
}

func (r Relation) Symbol() string {
	return r.sense().String()
}

// Term is one coefficient-weighted institution allocation.
type Term struct {
	Institution string  `json:"institution" yaml:"institution"`
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
}

// Constraint is a named linear relation over allocation variables:
// Σ coefficient·alloc[institution] <relation> bound.
type Constraint struct {
	Name     string   `json:"name" yaml:"name"`
	Relation Relation `json:"relation" yaml:"relation"`
	Terms    []Term   `json:"terms" yaml:"terms"`
	Bound    float64  `json:"bound" yaml:"bound"`
}

func (c Constraint) String() string {
	var b strings.Builder
	for i, t := range c.Terms {
		coef := t.Coefficient
		switch {
		case i == 0 && coef < 0:
			b.WriteString("-")
			coef = -coef
		case i > 0 && coef < 0:
			b.WriteString(" - ")
			coef = -coef
		case i > 0:
			b.WriteString(" + ")
		}
		if coef != 1 {
			fmt.Fprintf(&b, "%g*", coef)
		}
		fmt.Fprintf(&b, "alloc[%q]", t.Institution)
	}
	fmt.Fprintf(&b, " %s %g", c.Relation.Symbol(), c.Bound)
	return b.String()
}

// normalize merges repeated institutions and drops zero coefficients,
// keeping first-appearance order.
func (c Constraint) normalize() Constraint {
	index := make(map[string]int, len(c.Terms))
	merged := make([]Term, 0, len(c.Terms))
	for _, t := range c.Terms {
		if i, ok := index[t.Institution]; ok {
			merged[i].Coefficient += t.Coefficient
			continue
		}
		index[t.Institution] = len(merged)
		merged = append(merged, t)
	}

	terms := merged[:0]
	for _, t := range merged {
		if t.Coefficient != 0 {
			terms = append(terms, t)
		}
	}
	c.Terms = terms
	return c
}

// validate checks the constraint against the known institution set.
func (c Constraint) validate(known map[string]struct{}) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: constraint name is empty", ErrInvalidConstraint)
	}
	if c.Relation != RelationLE && c.Relation != RelationGE && c.Relation != RelationEQ {
		return fmt.Errorf("%w: constraint %q has relation %q", ErrInvalidConstraint, c.Name, c.Relation)
	}
	if math.IsNaN(c.Bound) || math.IsInf(c.Bound, 0) {
		return fmt.Errorf("%w: constraint %q has a non-finite bound", ErrInvalidConstraint, c.Name)
	}
	for _, t := range c.Terms {
		if math.IsNaN(t.Coefficient) || math.IsInf(t.Coefficient, 0) {
			return fmt.Errorf("%w: constraint %q has a non-finite coefficient for %q",
				ErrInvalidConstraint, c.Name, t.Institution)
		}
		if _, ok := known[t.Institution]; !ok {
			return fmt.Errorf("%w: constraint %q references %q", ErrUnknownInstitution, c.Name, t.Institution)
		}
	}
	if len(c.normalize().Terms) == 0 {
		return fmt.Errorf("%w: constraint %q", ErrEmptyConstraint, c.Name)
	}
	return nil
}

// ParseConstraints parses a name -> expression map into constraints ordered by name.
func ParseConstraints(expressions map[string]string) ([]Constraint, error) {
	names := make([]string, 0, len(expressions))
	for name := range expressions {
		names = append(names, name)
	}
	sort.Strings(names)

	constraints := make([]Constraint, 0, len(names))
	for _, name := range names {
		c, err := ParseConstraint(name, expressions[name])
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}
