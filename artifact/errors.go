package artifact

import (
	"errors"
	"os"
)

// ErrNotFound is returned when an artifact does not exist in its source.
// It satisfies errors.Is(err, os.ErrNotExist).
var ErrNotFound = os.ErrNotExist

// ErrNoPipeline is returned by a Holder that has not been given a pipeline.
var ErrNoPipeline = errors.New("artifact: no pipeline loaded")
