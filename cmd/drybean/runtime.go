package main

import (
	"context"
	"path/filepath"

	"drybean/artifact"
	"drybean/db"
	"drybean/ml"
)

func (a *app) newSource() (artifact.Source, error) {
	ac := a.cfg.Artifacts
	if ac.Source == "minio" {
		return artifact.NewMinioSource(artifact.MinioConfig{
			Endpoint:  ac.Minio.Endpoint,
			AccessKey: ac.Minio.AccessKey,
			SecretKey: ac.Minio.SecretKey,
			Bucket:    ac.Minio.Bucket,
			Prefix:    ac.Minio.Prefix,
			UseSSL:    ac.Minio.UseSSL,
		})
	}
	return artifact.NewLocalSource(filepath.Clean(ac.Dir)), nil
}

func (a *app) newLoader() (*artifact.Loader, error) {
	source, err := a.newSource()
	if err != nil {
		return nil, err
	}
	ac := a.cfg.Artifacts
	return artifact.NewLoader(source,
		artifact.Names{Classifier: ac.Classifier, Scaler: ac.Scaler, Labels: ac.Labels},
		artifact.WithClassifierFormat(ac.ClassifierFormat),
		artifact.WithONNXOptions(ml.ONNXOptions{
			LibraryPath: ac.ONNX.LibraryPath,
			InputName:   ac.ONNX.InputName,
			OutputName:  ac.ONNX.OutputName,
			NumFeatures: ml.FeatureCount,
			NumClasses:  ac.ONNX.NumClasses,
		}),
		artifact.WithLogger(a.logger),
	), nil
}

// loadHolder loads the artifacts once and installs them in a new Holder.
func (a *app) loadHolder(ctx context.Context) (*artifact.Holder, *artifact.Loader, error) {
	loader, err := a.newLoader()
	if err != nil {
		return nil, nil, err
	}
	pipeline, report, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	holder := artifact.NewHolder(a.cfg.Cache.Size)
	if _, err := holder.Swap(pipeline, report); err != nil {
		_ = pipeline.Close()
		return nil, nil, err
	}
	return holder, loader, nil
}

// openHistory returns nil when history is disabled.
func (a *app) openHistory() (*db.HistoryStore, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}
	return db.Open(a.cfg.History.Path)
}
