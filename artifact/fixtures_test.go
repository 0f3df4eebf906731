package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	identityScaler = `{"type":"identity","n_features":16}`
	areaTree       = `{"type":"decision_tree","n_features":16,"n_classes":2,"nodes":[
		{"feature_idx":0,"threshold":100000,"left_child":1,"right_child":2},
		{"is_leaf":true,"class_label":0},
		{"is_leaf":true,"class_label":1}]}`
	beanLabels = `{"classes":["SEKER","BOMBAY"]}`
)

var fixtureNames = Names{Classifier: "model.json", Scaler: "scaler.json", Labels: "labels.json"}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, fixtureNames.Classifier, areaTree)
	writeFile(t, dir, fixtureNames.Scaler, identityScaler)
	writeFile(t, dir, fixtureNames.Labels, beanLabels)
	return dir
}
