package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"drybean/ml"
)

// Names identifies the three artifacts inside a Source.
type Names struct {
	Classifier string
	Scaler     string
	Labels     string
}

// List returns the names in load order.
func (n Names) List() []string {
	return []string{n.Classifier, n.Scaler, n.Labels}
}

// Loader reads and decodes the artifacts into a self-checked pipeline.
type Loader struct {
	source Source
	names  Names
	format string
	onnx   ml.ONNXOptions
	logger *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithClassifierFormat forces the classifier format. By default it is derived from the
// artifact name: ".onnx" loads an ONNX graph, anything else the JSON envelope.
func WithClassifierFormat(format string) Option {
	return func(l *Loader) { l.format = format }
}

// WithONNXOptions sets how ONNX classifiers are bound.
func WithONNXOptions(opts ml.ONNXOptions) Option {
	return func(l *Loader) { l.onnx = opts }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

func NewLoader(source Source, names Names, opts ...Option) *Loader {
	l := &Loader{
		source: source,
		names:  names,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns where artifacts are read from.
func (l *Loader) Source() Source {
	return l.source
}

// Names returns the artifact names.
func (l *Loader) Names() Names {
	return l.names
}

// Load reads all three artifacts, builds the pipeline and runs its self-check.
// Any failure is fatal to the caller; nothing is retried.
func (l *Loader) Load(ctx context.Context) (*ml.Pipeline, ml.CheckReport, error) {
	start := time.Now()
	names := l.names.List()
	blobs := make([][]byte, len(names))

	for i, name := range names {
		if name == "" {
			return nil, ml.CheckReport{}, fmt.Errorf("artifact %d has no name", i)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			data, err := ReadArtifact(gctx, l.source, name)
			if err != nil {
				return err
			}
			blobs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, ml.CheckReport{}, err
	}

	classifier, err := ml.LoadClassifier(l.classifierFormat(), blobs[0], l.onnx)
	if err != nil {
		return nil, ml.CheckReport{}, fmt.Errorf("classifier %s: %w", l.names.Classifier, err)
	}
	scaler, err := ml.LoadScaler(blobs[1])
	if err != nil {
		closeClassifier(classifier)
		return nil, ml.CheckReport{}, fmt.Errorf("scaler %s: %w", l.names.Scaler, err)
	}
	labels, err := ml.LoadLabels(blobs[2])
	if err != nil {
		closeClassifier(classifier)
		return nil, ml.CheckReport{}, fmt.Errorf("labels %s: %w", l.names.Labels, err)
	}

	pipeline, err := ml.NewPipeline(scaler, classifier, labels)
	if err != nil {
		closeClassifier(classifier)
		return nil, ml.CheckReport{}, err
	}
	report, err := pipeline.SelfCheck()
	if err != nil {
		_ = pipeline.Close()
		return nil, ml.CheckReport{}, fmt.Errorf("self-check: %w", err)
	}

	l.logger.Info("artifacts loaded",
		zap.Stringer("source", l.source),
		zap.Strings("artifacts", names),
		zap.Int("classes", len(report.Classes)),
		zap.String("probe_label", report.ProbeLabel),
		zap.Duration("took", time.Since(start)),
	)
	return pipeline, report, nil
}

func (l *Loader) classifierFormat() string {
	if l.format != "" {
		return l.format
	}
	if strings.EqualFold(filepath.Ext(BaseName(l.names.Classifier)), ".onnx") {
		return ml.FormatONNX
	}
	return ml.FormatJSON
}

func closeClassifier(c ml.Classifier) {
	if closer, ok := c.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
