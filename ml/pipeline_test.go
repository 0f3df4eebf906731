package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var beanClasses = []string{"BARBUNYA", "BOMBAY", "CALI", "DERMASON", "HOROZ", "SEKER", "SIRA"}

func TestPipelineStubArtifacts(t *testing.T) {
	p := mustPipeline(IdentityScaler{Width: FeatureCount}, constClassifier{class: 0, nClasses: 1}, mustLabels("SEKER"))

	got, err := p.Predict(sequenceVector())
	require.NoError(t, err)
	assert.Equal(t, "SEKER", got.Label)
	assert.Equal(t, 0, got.ClassIndex)
}

func TestPipelineIsDeterministic(t *testing.T) {
	tree, err := NewDecisionTree([]TreeNode{
		{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, ClassLabel: 3},
		{IsLeaf: true, ClassLabel: 1},
	}, FeatureCount, len(beanClasses))
	require.NoError(t, err)
	p := mustPipeline(IdentityScaler{Width: FeatureCount}, tree, mustLabels(beanClasses...))

	v := sequenceVector()
	first, err := p.Predict(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := p.Predict(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPipelineAllZeroVector(t *testing.T) {
	scaler, err := NewStandardScaler(make([]float64, FeatureCount), make([]float64, FeatureCount))
	require.NoError(t, err)
	p := mustPipeline(scaler, constClassifier{class: 5, nClasses: len(beanClasses)}, mustLabels(beanClasses...))

	got, err := p.Predict(FeatureVector{})
	require.NoError(t, err)
	assert.Contains(t, beanClasses, got.Label)
}

func TestPipelineNoStateLeakage(t *testing.T) {
	p := mustPipeline(IdentityScaler{Width: FeatureCount}, firstGreaterClassifier{}, mustLabels("LOW", "HIGH"))

	v := FeatureVector{}
	v[0] = 10
	high, err := p.Predict(v)
	require.NoError(t, err)
	require.Equal(t, "HIGH", high.Label)

	v[0] = 0
	low, err := p.Predict(v)
	require.NoError(t, err)
	assert.Equal(t, "LOW", low.Label)

	fresh := FeatureVector{}
	again, err := p.Predict(fresh)
	require.NoError(t, err)
	assert.Equal(t, low, again)
}

func TestPipelineIsOrderSensitive(t *testing.T) {
	p := mustPipeline(IdentityScaler{Width: FeatureCount}, firstGreaterClassifier{}, mustLabels("LOW", "HIGH"))

	v := sequenceVector()
	before, err := p.Predict(v)
	require.NoError(t, err)
	after, err := p.Predict(v.Swap(0, 1))
	require.NoError(t, err)
	assert.NotEqual(t, before.Label, after.Label)
}

func TestPipelineRejectsNegativeInput(t *testing.T) {
	p := mustPipeline(IdentityScaler{Width: FeatureCount}, constClassifier{nClasses: 1}, mustLabels("SEKER"))

	v := FeatureVector{}
	v[3] = -0.01
	_, err := p.Predict(v)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPipelineUnknownClass(t *testing.T) {
	p := mustPipeline(IdentityScaler{Width: FeatureCount}, constClassifier{class: 4, nClasses: 5}, mustLabels("SEKER"))

	_, err := p.Predict(FeatureVector{})
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestNewPipelineRequiresArtifacts(t *testing.T) {
	_, err := NewPipeline(nil, constClassifier{}, mustLabels("SEKER"))
	assert.Error(t, err)
}

func TestSelfCheck(t *testing.T) {
	p := mustPipeline(IdentityScaler{Width: FeatureCount}, constClassifier{class: 2, nClasses: len(beanClasses)}, mustLabels(beanClasses...))
	report, err := p.SelfCheck()
	require.NoError(t, err)
	assert.Equal(t, FeatureCount, report.Features)
	assert.Equal(t, "CALI", report.ProbeLabel)
	assert.Equal(t, beanClasses, report.Classes)

	narrow := mustPipeline(IdentityScaler{Width: 15}, constClassifier{nClasses: 1}, mustLabels("SEKER"))
	_, err = narrow.SelfCheck()
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	mismatched := mustPipeline(IdentityScaler{Width: FeatureCount}, constClassifier{nClasses: 3}, mustLabels("SEKER"))
	_, err = mismatched.SelfCheck()
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
