package detect

// Package detect provides face and body detection used to build person masks.
//
// The face detector defaults to an ONNX UltraFace model which compiles into
// every build and fails at initialization when the ONNX Runtime library or
// the model file is missing. An OpenCV Haar cascade face detector and the
// OpenCV HOG people detector are available behind the build tag `gocv`; in
// builds without the tag their constructors return a stub that reports
// ErrNoBackend on use.
//
// Example:
//   go build -tags=gocv ./...
