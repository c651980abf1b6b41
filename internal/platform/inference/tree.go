package inference

import (
	"fmt"
	"strings"
)

const leaf = -1

// Tree is one fitted decision tree in scikit-learn's array layout. Node i
// is a leaf when ChildrenLeft[i] == -1; otherwise samples with
// x[Feature[i]] <= Threshold[i] go left. Value[i] holds the regression
// output, or per-class counts or fractions for classifiers.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

func (t *Tree) leafFor(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

func (t *Tree) validate(width, outputs int) error {
	n := len(t.ChildrenLeft)
	if n == 0 || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("%w: tree node arrays differ in length", ErrMalformed)
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			if len(t.Value[i]) != outputs {
				return fmt.Errorf("%w: leaf %d has %d outputs, want %d", ErrMalformed, i, len(t.Value[i]), outputs)
			}
			continue
		}
		// Children always follow their parent in a fitted tree, which also
		// rules out cycles.
		if l <= i || r <= i || l >= n || r >= n {
			return fmt.Errorf("%w: node %d has invalid children", ErrMalformed, i)
		}
		if f := t.Feature[i]; f < 0 || f >= width {
			return fmt.Errorf("%w: node %d splits on feature %d of %d", ErrMalformed, i, f, width)
		}
	}
	return nil
}

const (
	TaskRegression     = "regression"
	TaskClassification = "classification"
)

// TreeEnsemble averages its trees: leaf values for regression, normalized
// class distributions for classification.
type TreeEnsemble struct {
	Task      string    `json:"task"`
	NFeatures int       `json:"n_features"`
	Classes   []float64 `json:"classes"`
	Trees     []Tree    `json:"trees"`
}

func (m *TreeEnsemble) Width() int { return m.NFeatures }

func (m *TreeEnsemble) Predict(x []float64) (float64, error) {
	if m.Task != TaskRegression {
		return 0, fmt.Errorf("inference: Predict on a %s ensemble", m.Task)
	}
	if err := checkWidth(x, m.NFeatures); err != nil {
		return 0, err
	}
	var sum float64
	for i := range m.Trees {
		sum += m.Trees[i].leafFor(x)[0]
	}
	return sum / float64(len(m.Trees)), nil
}

// Proba returns the averaged class distribution, aligned with Classes.
func (m *TreeEnsemble) Proba(x []float64) ([]float64, error) {
	if m.Task != TaskClassification {
		return nil, fmt.Errorf("inference: Proba on a %s ensemble", m.Task)
	}
	if err := checkWidth(x, m.NFeatures); err != nil {
		return nil, err
	}
	proba := make([]float64, len(m.Classes))
	for i := range m.Trees {
		v := m.Trees[i].leafFor(x)
		var total float64
		for _, c := range v {
			total += c
		}
		if total == 0 {
			continue
		}
		for k, c := range v {
			proba[k] += c / total
		}
	}
	for k := range proba {
		proba[k] /= float64(len(m.Trees))
	}
	return proba, nil
}

// Classify returns the most probable class; ties go to the first class.
func (m *TreeEnsemble) Classify(x []float64) (float64, error) {
	proba, err := m.Proba(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for k := 1; k < len(proba); k++ {
		if proba[k] > proba[best] {
			best = k
		}
	}
	return m.Classes[best], nil
}

func (m *TreeEnsemble) validate() error {
	if m.NFeatures <= 0 {
		return fmt.Errorf("%w: n_features must be positive", ErrMalformed)
	}
	if len(m.Trees) == 0 {
		return fmt.Errorf("%w: ensemble without trees", ErrMalformed)
	}
	outputs := 1
	switch m.Task {
	case TaskRegression:
	case TaskClassification:
		if len(m.Classes) < 2 {
			return fmt.Errorf("%w: classifier needs at least two classes", ErrMalformed)
		}
		outputs = len(m.Classes)
	default:
		return fmt.Errorf("%w: unknown task %q", ErrMalformed, m.Task)
	}
	for i := range m.Trees {
		if err := m.Trees[i].validate(m.NFeatures, outputs); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
