package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionTreePredict(t *testing.T) {
	model, err := NewDecisionTree([]TreeNode{
		{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, ClassLabel: 0},
		{FeatureIdx: 1, Threshold: 0.5, LeftChild: 3, RightChild: 4},
		{IsLeaf: true, ClassLabel: 1},
		{IsLeaf: true, ClassLabel: 2},
	}, 2, 3)
	require.NoError(t, err)

	labels, err := model.Predict([][]float64{{0.15, 0.15}, {0.9, 0.1}, {0.9, 0.8}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, labels)
}

func TestDecisionTreeRejectsBrokenNodes(t *testing.T) {
	cases := map[string][]TreeNode{
		"empty":          nil,
		"class range":    {{IsLeaf: true, ClassLabel: 7}},
		"feature range":  {{FeatureIdx: 5, LeftChild: 1, RightChild: 2}, {IsLeaf: true}, {IsLeaf: true}},
		"backward child": {{FeatureIdx: 0, LeftChild: 0, RightChild: 1}, {IsLeaf: true}},
		"dangling child": {{FeatureIdx: 0, LeftChild: 1, RightChild: 9}, {IsLeaf: true}},
	}
	for name, nodes := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewDecisionTree(nodes, 2, 3)
			assert.Error(t, err)
		})
	}
}

func TestRandomForestMajorityVote(t *testing.T) {
	leaf := func(class int) *DecisionTree {
		tree, err := NewDecisionTree([]TreeNode{{IsLeaf: true, ClassLabel: class}}, 2, 3)
		require.NoError(t, err)
		return tree
	}
	forest, err := NewRandomForest([]*DecisionTree{leaf(2), leaf(1), leaf(2)})
	require.NoError(t, err)
	got, err := forest.Predict([][]float64{{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got)

	tie, err := NewRandomForest([]*DecisionTree{leaf(2), leaf(1)})
	require.NoError(t, err)
	got, err = tie.Predict([][]float64{{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestLinearClassifier(t *testing.T) {
	multi, err := NewLinearClassifier([][]float64{{1, 0}, {0, 1}, {-1, -1}}, []float64{0, 0, 0.5}, 3)
	require.NoError(t, err)
	got, err := multi.Predict([][]float64{{2, 1}, {1, 2}, {0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	binary, err := NewLinearClassifier([][]float64{{1, -1}}, []float64{0}, 2)
	require.NoError(t, err)
	got, err = binary.Predict([][]float64{{2, 1}, {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, got)

	_, err = NewLinearClassifier([][]float64{{1, 0}}, []float64{0}, 3)
	assert.Error(t, err)
}

func TestLoadClassifier(t *testing.T) {
	tree := `{"type":"decision_tree","n_features":2,"n_classes":2,"nodes":[
		{"feature_idx":0,"threshold":1,"left_child":1,"right_child":2},
		{"is_leaf":true,"class_label":0},
		{"is_leaf":true,"class_label":1}]}`
	model, err := LoadClassifier(FormatJSON, []byte(tree), ONNXOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, model.NumClasses())
	got, err := model.Predict([][]float64{{3, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	forest := `{"type":"random_forest","n_features":2,"n_classes":2,"trees":[
		[{"is_leaf":true,"class_label":1}],
		[{"is_leaf":true,"class_label":1}]]}`
	model, err = LoadClassifier("", []byte(forest), ONNXOptions{})
	require.NoError(t, err)
	assert.IsType(t, &RandomForest{}, model)

	linear := `{"type":"linear","n_classes":2,"coef":[[1,1]],"intercept":[-1]}`
	model, err = LoadClassifier(FormatJSON, []byte(linear), ONNXOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, model.NumFeatures())

	_, err = LoadClassifier(FormatJSON, []byte(`{"type":"svm"}`), ONNXOptions{})
	assert.ErrorIs(t, err, ErrMalformedArtifact)
	_, err = LoadClassifier(FormatJSON, []byte(`{"type":"decision_tree","n_features":2,"n_classes":2}`), ONNXOptions{})
	assert.ErrorIs(t, err, ErrMalformedArtifact)
	_, err = LoadClassifier("pickle", []byte(`{}`), ONNXOptions{})
	assert.ErrorIs(t, err, ErrMalformedArtifact)
}
