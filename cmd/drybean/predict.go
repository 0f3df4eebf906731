package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	qhttp "drybean/http"
	"drybean/ml"
	"drybean/presenter"
)

// sourceCLI tags predictions made by the predict command in history.
const sourceCLI = "cli"

func newPredictCmd(a *app) *cobra.Command {
	var (
		from    string
		asJSON  bool
		session string
	)
	cmd := &cobra.Command{
		Use:   "predict [Area Perimeter ... ShapeFactor4]",
		Short: "Predict one bean from sixteen values or a JSON file",
		Long: `Predict one bean. Give all sixteen values in schema order, or --from a JSON
file holding {"values":[...]} or {"features":{"Area":...}}; missing features are 0.
Put -- before the values if any of them starts with a minus sign.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if from != "" && len(args) > 0 {
				return fmt.Errorf("give either --from or %d values, not both", ml.FeatureCount)
			}
			if from == "" && len(args) != ml.FeatureCount {
				return fmt.Errorf("expected %d values, got %d", ml.FeatureCount, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				v   ml.FeatureVector
				err error
			)
			if from != "" {
				v, err = readVectorFile(from)
			} else {
				v, err = parseValues(args)
			}
			if err != nil {
				return err
			}

			holder, _, err := a.loadHolder(cmd.Context())
			if err != nil {
				return err
			}
			defer holder.Close()

			p, err := holder.Predict(v)
			if err != nil {
				return err
			}

			history, err := a.openHistory()
			if err != nil {
				return err
			}
			defer history.Close()
			if history != nil {
				if err := history.Save(cmd.Context(), session, sourceCLI, v, p); err != nil {
					a.logger.Warn("failed to save prediction", zap.Error(err))
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(qhttp.PredictResponse{
					Label:      p.Label,
					ClassIndex: p.ClassIndex,
					Message:    presenter.Message(p.Label),
				})
			}
			_, err = fmt.Fprintln(out, presenter.Message(p.Label))
			return err
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "read the features from a JSON file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&session, "session", "", "session ID recorded in history")
	return cmd
}

func parseValues(args []string) (ml.FeatureVector, error) {
	values := make([]float64, len(args))
	features := ml.Features()
	for i, arg := range args {
		value, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			label := fmt.Sprintf("value %d", i+1)
			if i < len(features) {
				label = features[i].Label
			}
			return ml.FeatureVector{}, fmt.Errorf("%w: %s: %q is not a number", ml.ErrInvalidInput, label, arg)
		}
		values[i] = value
	}
	return ml.NewFeatureVector(values)
}

func readVectorFile(path string) (ml.FeatureVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ml.FeatureVector{}, err
	}
	var req qhttp.PredictRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ml.FeatureVector{}, fmt.Errorf("%w: %s: %v", ml.ErrInvalidInput, path, err)
	}
	return req.Vector()
}
