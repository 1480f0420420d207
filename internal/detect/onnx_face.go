package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/scrub/internal/models"
	"github.com/yalue/onnxruntime_go"
)

const (
	libLinux   = "libonnxruntime.so"
	libDarwin  = "libonnxruntime.dylib"
	libWindows = "onnxruntime.dll"
)

// onnxFaceDetector runs the UltraFace model through ONNX Runtime.
type onnxFaceDetector struct {
	cfg        FaceConfig
	session    *onnxruntime_go.DynamicAdvancedSession
	inputName  string
	scoresName string
	boxesName  string
	mu         sync.RWMutex
}

// newONNXFaceDetector initializes the ONNX Runtime session. It fails when the
// runtime library or the model file is not available; callers decide whether
// that is fatal or leaves face detection unavailable.
func newONNXFaceDetector(cfg FaceConfig) (FaceDetector, error) {
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = DefaultFaceConfig().ScoreThreshold
	}
	if cfg.NMSThreshold <= 0 {
		cfg.NMSThreshold = DefaultFaceConfig().NMSThreshold
	}
	if cfg.ModelPath == "" {
		cfg.ModelPath = models.GetFaceModelPath(models.GetModelsDir(""))
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("face model not found: %s", cfg.ModelPath)
	}

	slog.Debug("initializing onnx face detector",
		"model_path", cfg.ModelPath,
		"score_threshold", cfg.ScoreThreshold)

	if err := setupONNXEnvironment(); err != nil {
		return nil, err
	}

	inputName, scoresName, boxesName, err := faceModelInfo(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	session, err := createFaceSession(cfg, inputName, scoresName, boxesName)
	if err != nil {
		return nil, err
	}

	return &onnxFaceDetector{
		cfg:        cfg,
		session:    session,
		inputName:  inputName,
		scoresName: scoresName,
		boxesName:  boxesName,
	}, nil
}

func (d *onnxFaceDetector) DetectFaces(ctx context.Context, img image.Image) ([]Region, error) {
	if img == nil {
		return nil, errors.New("detect: nil image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	session := d.session
	d.mu.RUnlock()
	if session == nil {
		return nil, errors.New("detect: face session is closed")
	}

	bounds := img.Bounds()
	data := ultraFaceTensor(img)

	inputTensor, err := onnxruntime_go.NewTensor(
		onnxruntime_go.NewShape(1, 3, ultraFaceInputHeight, ultraFaceInputWidth), data)
	if err != nil {
		return nil, fmt.Errorf("detect: create input tensor: %w", err)
	}
	defer func() {
		if err := inputTensor.Destroy(); err != nil {
			slog.Warn("destroy input tensor", "error", err)
		}
	}()

	outputs := []onnxruntime_go.Value{nil, nil}
	if err := session.Run([]onnxruntime_go.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("detect: face inference: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out == nil {
				continue
			}
			if err := out.Destroy(); err != nil {
				slog.Warn("destroy output tensor", "error", err)
			}
		}
	}()

	scores, err := tensorData(outputs[0])
	if err != nil {
		return nil, fmt.Errorf("detect: scores output: %w", err)
	}
	boxes, err := tensorData(outputs[1])
	if err != nil {
		return nil, fmt.Errorf("detect: boxes output: %w", err)
	}

	return decodeUltraFace(scores, boxes, bounds.Dx(), bounds.Dy(),
		d.cfg.ScoreThreshold, d.cfg.NMSThreshold), nil
}

func (d *onnxFaceDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		if err := d.session.Destroy(); err != nil {
			slog.Warn("destroy face session", "error", err)
		}
		d.session = nil
	}
	// The environment stays up; destroying it is an application-shutdown concern.
	return nil
}

// tensorData extracts float32 data from an inference output.
func tensorData(v onnxruntime_go.Value) ([]float32, error) {
	t, ok := v.(*onnxruntime_go.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("expected float32 tensor, got %T", v)
	}
	return t.GetData(), nil
}

// faceModelInfo reads the model signature and identifies the scores and boxes
// outputs by their trailing dimension (2 for scores, 4 for boxes).
func faceModelInfo(modelPath string) (inputName, scoresName, boxesName string, err error) {
	inputs, outputs, err := onnxruntime_go.GetInputOutputInfo(modelPath)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to get model input/output info: %w", err)
	}
	if len(inputs) != 1 {
		return "", "", "", fmt.Errorf("expected 1 input, got %d", len(inputs))
	}
	if len(outputs) != 2 {
		return "", "", "", fmt.Errorf("expected 2 outputs (scores, boxes), got %d", len(outputs))
	}

	inputName = inputs[0].Name
	for _, out := range outputs {
		dims := out.Dimensions
		if len(dims) == 0 {
			continue
		}
		switch dims[len(dims)-1] {
		case 2:
			scoresName = out.Name
		case 4:
			boxesName = out.Name
		}
	}
	if scoresName == "" || boxesName == "" {
		return "", "", "", fmt.Errorf("could not identify scores/boxes outputs in %s", modelPath)
	}
	return inputName, scoresName, boxesName, nil
}

// createFaceSession creates the ONNX session for the face model.
func createFaceSession(cfg FaceConfig, inputName, scoresName, boxesName string,
) (*onnxruntime_go.DynamicAdvancedSession, error) {
	sessionOptions, err := onnxruntime_go.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() {
		if err := sessionOptions.Destroy(); err != nil {
			slog.Warn("destroy session options", "error", err)
		}
	}()

	if cfg.NumThreads > 0 {
		if err := sessionOptions.SetIntraOpNumThreads(cfg.NumThreads); err != nil {
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	session, err := onnxruntime_go.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{inputName}, []string{scoresName, boxesName}, sessionOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	return session, nil
}

// setupONNXEnvironment locates the runtime library and initializes the
// environment once per process.
func setupONNXEnvironment() error {
	if err := setONNXLibraryPath(); err != nil {
		return fmt.Errorf("failed to set ONNX Runtime library path: %w", err)
	}
	if !onnxruntime_go.IsInitialized() {
		if err := onnxruntime_go.InitializeEnvironment(); err != nil {
			return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
		}
	}
	return nil
}

// setONNXLibraryPath points the runtime at a shared library, trying system
// locations first and falling back to a project-relative install.
func setONNXLibraryPath() error {
	systemPaths := []string{
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/libonnxruntime.so",
		"/opt/onnxruntime/cpu/lib/libonnxruntime.so",
	}
	for _, path := range systemPaths {
		if trySetLibraryPath(path) {
			return nil
		}
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return err
	}
	libName, err := getLibraryName()
	if err != nil {
		return err
	}

	libPath := filepath.Join(projectRoot, "onnxruntime", "lib", libName)
	if !trySetLibraryPath(libPath) {
		return fmt.Errorf("ONNX Runtime library not found at %s", libPath)
	}
	return nil
}

func trySetLibraryPath(path string) bool {
	if _, err := os.Stat(path); err == nil {
		onnxruntime_go.SetSharedLibraryPath(path)
		return true
	}
	return false
}

func getLibraryName() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return libLinux, nil
	case "darwin":
		return libDarwin, nil
	case "windows":
		return libWindows, nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

func findProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	root := cwd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root, nil
		}
		parent := filepath.Dir(root)
		if parent == root {
			return "", errors.New("could not find project root")
		}
		root = parent
	}
}
