package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Model file name constants to avoid typos and ensure consistency.
const (
	// Face detection models.
	FaceONNX        = "version-RFB-320.onnx"
	FaceHaarCascade = "haarcascade_frontalface_default.xml"
)

// Model type categories for organized directory structure.
const (
	TypeFace     = "face"
	TypeCascades = "cascades"
)

// Default models directory.
const DefaultModelsDir = "models"

// Environment variable for models directory override.
const EnvModelsDir = "SCRUB_MODELS_DIR"

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	// Start from current working directory
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding go.mod
			break
		}
		dir = parent
	}

	return "", errors.New("could not find project root (go.mod not found)")
}

// ModelInfo contains metadata about a model.
type ModelInfo struct {
	Name        string
	Type        string
	Description string
	Filename    string
}

// GetModelsDir returns the models directory path from various sources
// Priority: 1. Explicit modelsDir parameter, 2. Environment variable, 3. Project root + default.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}

	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}

	// Use project root + default models directory
	if projectRoot, err := findProjectRoot(); err == nil {
		return filepath.Join(projectRoot, DefaultModelsDir)
	}

	// Fallback to relative path if project root can't be found
	return DefaultModelsDir
}

// ResolveModelPath resolves a model filename to its full path
// Supports both the organized structure and a legacy flat layout.
func ResolveModelPath(modelsDir, modelType, filename string) string {
	baseDir := GetModelsDir(modelsDir)

	if modelType != "" {
		organizedPath := filepath.Join(baseDir, modelType, filename)
		if _, err := os.Stat(organizedPath); err == nil {
			return organizedPath
		}
	}

	// Fall back to legacy flat structure
	return filepath.Join(baseDir, filename)
}

// GetFaceModelPath returns the path for the ONNX face detection model.
func GetFaceModelPath(modelsDir string) string {
	return ResolveModelPath(modelsDir, TypeFace, FaceONNX)
}

// GetFaceCascadePath returns the path for the Haar frontal-face cascade file.
func GetFaceCascadePath(modelsDir string) string {
	return ResolveModelPath(modelsDir, TypeCascades, FaceHaarCascade)
}

// ValidateModelExists checks if a model file exists at the given path.
func ValidateModelExists(modelPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	return nil
}

// ListAvailableModels returns information about the models this project uses.
func ListAvailableModels() []ModelInfo {
	return []ModelInfo{
		{
			Name:        "face-onnx",
			Type:        TypeFace,
			Description: "Ultra-light RFB-320 face detection model",
			Filename:    FaceONNX,
		},
		{
			Name:        "face-haar",
			Type:        TypeCascades,
			Description: "OpenCV frontal-face Haar cascade",
			Filename:    FaceHaarCascade,
		},
	}
}
