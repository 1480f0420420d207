package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
	"github.com/MeKo-Tech/scrub/internal/utils"
	"github.com/MeKo-Tech/scrub/internal/version"
)

// healthHandler handles health check requests.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode health response", "error", err)
	}
}

// processHandler handles photo scrubbing requests. It accepts a multipart
// form with a "file" field plus optional per-request switches and answers
// with the scrubbed image bytes.
func (s *Server) processHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if isBodyTooLarge(err) {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeErrorResponse(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read file", http.StatusBadRequest)
		return
	}
	uploadSizeBytes.Observe(float64(len(data)))

	opts, err := s.parseRequestOptions(r)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := strings.ToLower(r.FormValue("format"))
	if format == "" {
		format = utils.FormatPNG
	}
	switch format {
	case utils.FormatPNG, utils.FormatJPEG, "jpg":
	default:
		s.writeErrorResponse(w, fmt.Sprintf("unsupported output format %q", format), http.StatusBadRequest)
		return
	}

	img, _, err := utils.DecodeImage(data)
	if err != nil {
		s.writeErrorResponse(w, "Unsupported or corrupt image data", http.StatusBadRequest)
		return
	}

	if s.scrubber == nil {
		s.writeErrorResponse(w, "Scrub pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	result, err := s.scrubber.ProcessImage(r.Context(), img, opts)
	if err != nil {
		scrubRequestsTotal.WithLabelValues("error").Inc()
		s.writeProcessError(w, err)
		return
	}
	scrubProcessingDuration.Observe(time.Since(start).Seconds())
	scrubRequestsTotal.WithLabelValues("ok").Inc()
	detectionsPerRequest.Observe(float64(len(result.Detections)))
	for _, st := range result.Stages {
		stageDuration.WithLabelValues(st.Stage).Observe(float64(st.DurationNs) / 1e9)
	}

	out := result.Image
	if wantOverlay(r) {
		out = pipeline.RenderOverlay(img, result.Detections, s.requestOverlayColors(r))
	}

	encoded, err := utils.EncodeImage(out, format)
	if err != nil {
		s.writeErrorResponse(w, "Failed to encode result image", http.StatusInternalServerError)
		return
	}

	detections := result.Detections
	if detections == nil {
		// Clients parse this header as a JSON array, so never emit "null".
		detections = []pipeline.Detection{}
	}
	detJSON, err := json.Marshal(detections)
	if err == nil {
		w.Header().Set("X-Scrub-Detections", string(detJSON))
	}
	w.Header().Set("X-Scrub-Duration-Ms", strconv.FormatInt(result.TotalNs/1e6, 10))
	w.Header().Set("Content-Type", utils.ContentTypeForFormat(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(encoded)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(encoded); err != nil {
		slog.Error("Failed to write image response", "error", err)
	}
}

// parseRequestOptions builds pipeline options from the request form, falling
// back to the server defaults for every omitted field.
func (s *Server) parseRequestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaultOpts

	boolFields := []struct {
		name string
		dst  *bool
	}{
		{"blur_people", &opts.BlurPeople},
		{"remove_text", &opts.RemoveText},
		{"remove_barcodes", &opts.RemoveBarcodes},
		{"detect_bodies", &opts.DetectBodies},
	}
	for _, f := range boolFields {
		raw := r.FormValue(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid %s value %q", f.name, raw)
		}
		*f.dst = v
	}

	if raw := r.FormValue("blur_strength"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid blur_strength value %q", raw)
		}
		opts.BlurStrength = v
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// wantOverlay reports whether the request asked for the debug overlay image
// instead of the scrubbed output.
func wantOverlay(r *http.Request) bool {
	v, err := strconv.ParseBool(r.FormValue("overlay"))
	return err == nil && v
}

// requestOverlayColors returns the overlay palette with any per-request hex
// color overrides applied.
func (s *Server) requestOverlayColors(r *http.Request) pipeline.OverlayColors {
	colors := s.overlayColors
	if c := utils.ParseHexColor(r.FormValue("text_color")); c != nil {
		colors.Text = c
	}
	if c := utils.ParseHexColor(r.FormValue("barcode_color")); c != nil {
		colors.Barcode = c
	}
	if c := utils.ParseHexColor(r.FormValue("face_color")); c != nil {
		colors.Face = c
	}
	if c := utils.ParseHexColor(r.FormValue("body_color")); c != nil {
		colors.Body = c
	}
	return colors
}

// writeProcessError maps pipeline failures to HTTP status codes. Missing or
// broken engines are a service problem; constraint violations such as the
// decoded pixel guard are the client's; everything else from the pipeline is
// an internal error.
func (s *Server) writeProcessError(w http.ResponseWriter, err error) {
	var procErr *utils.ImageProcessingError
	switch {
	case pipeline.IsEngineError(err):
		s.writeErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, pipeline.ErrInvalidConfig):
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &procErr):
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		s.writeErrorResponse(w, "Processing failed: "+err.Error(), http.StatusInternalServerError)
	}
}

// isBodyTooLarge detects the MaxBytesReader error, which multipart parsing
// reports as a plain string.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
