// Package artifact loads the scaler, classifier and label artifacts behind the
// prediction pipeline.
//
// Artifacts are read from a Source (the local filesystem or an S3-compatible bucket),
// transparently decompressed by file suffix (.zst, .gz, .lz4), decoded by package ml
// and self-checked before a pipeline is handed out. A Holder keeps the pipeline in use
// and a Watcher can replace it when the files on disk change.
package artifact
