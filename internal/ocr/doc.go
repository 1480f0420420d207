package ocr

// Package ocr provides a pluggable word-level text detector used to build
// text masks, with a default implementation selectable via build tags.
//
// The default build has no concrete engine to avoid an implicit CGO
// dependency. Enable the Tesseract-backed engine with the build tag
// `tesseract` (requires libtesseract and language data at runtime).
//
// Example:
//   go build -tags=tesseract ./...
