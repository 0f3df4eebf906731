// Command drybean classifies dry bean varieties from sixteen shape measurements.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"drybean/config"
	"drybean/logging"
	"drybean/ml"
)

const defaultConfigPath = "config.yaml"

// quietAnnotation marks commands that own the terminal and must not log to stderr.
const quietAnnotation = "drybean/quiet"

type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "drybean",
		Short: "Dry bean variety classifier",
		Long: `Classify a dry bean from sixteen morphological measurements using a
pre-fitted scaler, a pre-trained classifier and a label decoder.

Commands:
  serve   - web form and JSON API
  tui     - terminal form
  predict - one-shot prediction
  check   - load the artifacts and run the self-check`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config.yaml (default ./config.yaml if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(a),
		newTUICmd(a),
		newPredictCmd(a),
		newCheckCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	_, quiet := cmd.Annotations[quietAnnotation]
	logger, err := logging.New(cfg.Log, logging.Options{Verbose: a.verbose, Quiet: quiet})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// loadConfig reads path, or ./config.yaml when path is empty and the file exists,
// falling back to the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load(defaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// releaseRuntime frees process-wide inference resources. Replaced in tests.
var releaseRuntime = ml.ShutdownONNX

// run executes the command line and returns the exit code. The runtime is released
// whether or not the command failed.
func run(args []string) int {
	defer releaseRuntime()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
