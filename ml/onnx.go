package ml

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXOptions describes how to bind an exported classifier graph.
type ONNXOptions struct {
	LibraryPath string
	InputName   string
	OutputName  string
	NumFeatures int
	NumClasses  int
}

var (
	onnxOnce    sync.Once
	onnxInitErr error
)

func initONNX(libraryPath string) error {
	onnxOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			onnxInitErr = fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	})
	return onnxInitErr
}

// ShutdownONNX releases the runtime environment. Call once at process exit.
func ShutdownONNX() {
	if ort.IsInitialized() {
		_ = ort.DestroyEnvironment()
	}
}

// ONNXClassifier runs a graph that outputs one score per class and takes the argmax.
// The session owns bound tensors, so calls are serialised.
type ONNXClassifier struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	nFeatures    int
	nClasses     int
	closed       bool
}

func NewONNXClassifier(model []byte, opts ONNXOptions) (*ONNXClassifier, error) {
	if opts.NumFeatures <= 0 || opts.NumClasses <= 0 {
		return nil, fmt.Errorf("%w: onnx classifier needs num_features and num_classes", ErrMalformedArtifact)
	}
	if opts.InputName == "" {
		opts.InputName = "input"
	}
	if opts.OutputName == "" {
		opts.OutputName = "output"
	}
	if err := initONNX(opts.LibraryPath); err != nil {
		return nil, err
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(opts.NumFeatures)))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(opts.NumClasses)))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSessionWithONNXData(model,
		[]string{opts.InputName}, []string{opts.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("%w: failed to create ONNX session: %v", ErrMalformedArtifact, err)
	}

	return &ONNXClassifier{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		nFeatures:    opts.NumFeatures,
		nClasses:     opts.NumClasses,
	}, nil
}

func (c *ONNXClassifier) NumFeatures() int { return c.nFeatures }

func (c *ONNXClassifier) NumClasses() int { return c.nClasses }

func (c *ONNXClassifier) Predict(x [][]float64) ([]int, error) {
	if err := checkMatrix(x, c.nFeatures); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	out := make([]int, len(x))
	input := c.inputTensor.GetData()
	for i, row := range x {
		for j, v := range row {
			input[j] = float32(v)
		}
		if err := c.session.Run(); err != nil {
			return nil, fmt.Errorf("inference failed: %w", err)
		}
		scores := c.outputTensor.GetData()
		best := 0
		for k, v := range scores {
			if v > scores[best] {
				best = k
			}
		}
		out[i] = best
	}
	return out, nil
}

// Close destroys the session and its tensors.
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.session != nil {
		return c.session.Destroy()
	}
	return nil
}
