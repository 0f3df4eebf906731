package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a fitted binary tree stored as a flat node array. Children always sit
// after their parent, so traversal terminates.
type DecisionTree struct {
	nodes     []TreeNode
	nFeatures int
	nClasses  int
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

func NewDecisionTree(nodes []TreeNode, nFeatures, nClasses int) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("decision tree has no nodes")
	}
	if nFeatures <= 0 || nClasses <= 0 {
		return nil, fmt.Errorf("decision tree needs positive n_features and n_classes, got %d/%d", nFeatures, nClasses)
	}
	for idx, node := range nodes {
		if node.IsLeaf {
			if node.ClassLabel < 0 || node.ClassLabel >= nClasses {
				return nil, fmt.Errorf("node %d: class %d out of range", idx, node.ClassLabel)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= nFeatures {
			return nil, fmt.Errorf("node %d: feature index %d out of range", idx, node.FeatureIdx)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= idx || child >= len(nodes) {
				return nil, fmt.Errorf("node %d: invalid child %d", idx, child)
			}
		}
	}
	return &DecisionTree{
		nodes:     append([]TreeNode(nil), nodes...),
		nFeatures: nFeatures,
		nClasses:  nClasses,
	}, nil
}

func (dt *DecisionTree) NumFeatures() int { return dt.nFeatures }

func (dt *DecisionTree) NumClasses() int { return dt.nClasses }

func (dt *DecisionTree) Predict(x [][]float64) ([]int, error) {
	if err := checkMatrix(x, dt.nFeatures); err != nil {
		return nil, err
	}
	out := make([]int, len(x))
	for i, row := range x {
		out[i] = dt.predictRow(row)
	}
	return out, nil
}

func (dt *DecisionTree) predictRow(features []float64) int {
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}
