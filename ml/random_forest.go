package ml

import (
	"errors"
	"fmt"
)

// RandomForest takes the majority vote of its trees. Ties go to the lowest class index.
type RandomForest struct {
	trees     []*DecisionTree
	nFeatures int
	nClasses  int
}

func NewRandomForest(trees []*DecisionTree) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, errors.New("random forest has no trees")
	}
	nFeatures, nClasses := trees[0].NumFeatures(), trees[0].NumClasses()
	for i, tree := range trees[1:] {
		if tree.NumFeatures() != nFeatures || tree.NumClasses() != nClasses {
			return nil, fmt.Errorf("tree %d shape %d/%d differs from %d/%d",
				i+1, tree.NumFeatures(), tree.NumClasses(), nFeatures, nClasses)
		}
	}
	return &RandomForest{trees: trees, nFeatures: nFeatures, nClasses: nClasses}, nil
}

func (rf *RandomForest) NumFeatures() int { return rf.nFeatures }

func (rf *RandomForest) NumClasses() int { return rf.nClasses }

func (rf *RandomForest) Predict(x [][]float64) ([]int, error) {
	if err := checkMatrix(x, rf.nFeatures); err != nil {
		return nil, err
	}
	out := make([]int, len(x))
	votes := make([]int, rf.nClasses)
	for i, row := range x {
		clear(votes)
		for _, tree := range rf.trees {
			votes[tree.predictRow(row)]++
		}
		out[i] = argmaxInt(votes)
	}
	return out, nil
}

func argmaxInt(values []int) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
