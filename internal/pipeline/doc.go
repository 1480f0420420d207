// Package pipeline orchestrates the image scrubbing stages.
//
// A Scrubber runs a fixed stage order: detect text and build a text
// mask, inpaint the masked text away, detect faces and optionally
// bodies into a person mask, then blur the masked people. Per-request
// options toggle the text and people halves independently; a request
// with both disabled returns an unmodified copy of the input.
//
// Engines for OCR, detection and inpainting are injected behind small
// interfaces. A Scrubber holds no per-request state, so one instance
// serves concurrent requests.
package pipeline
