package support

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"strings"

	// Register decoders for the response image assertions.
	_ "image/jpeg"
	_ "image/png"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/scrub/internal/server"
)

func (testCtx *TestContext) theResponseStatusShouldBe(expected int) error {
	if testCtx.LastStatusCode != expected {
		return fmt.Errorf("expected status %d, got %d (body: %s)",
			expected, testCtx.LastStatusCode, truncate(testCtx.LastBody, 200))
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldBeAJSONErrorEnvelope() error {
	var envelope server.ErrorResponse
	if err := json.Unmarshal(testCtx.LastBody, &envelope); err != nil {
		return fmt.Errorf("response is not a JSON error envelope: %w (body: %s)",
			err, truncate(testCtx.LastBody, 200))
	}
	if envelope.Success {
		return fmt.Errorf("error envelope has success=true (body: %s)", truncate(testCtx.LastBody, 200))
	}
	if envelope.Error == "" {
		return fmt.Errorf("error envelope has an empty error message (body: %s)",
			truncate(testCtx.LastBody, 200))
	}
	return nil
}

func (testCtx *TestContext) theErrorMessageShouldContain(substring string) error {
	var envelope server.ErrorResponse
	if err := json.Unmarshal(testCtx.LastBody, &envelope); err != nil {
		return fmt.Errorf("response is not a JSON error envelope: %w (body: %s)",
			err, truncate(testCtx.LastBody, 200))
	}
	if !strings.Contains(envelope.Error, substring) {
		return fmt.Errorf("error message %q does not contain %q", envelope.Error, substring)
	}
	return nil
}

func (testCtx *TestContext) theResponseBodyShouldContain(substring string) error {
	if !bytes.Contains(testCtx.LastBody, []byte(substring)) {
		return fmt.Errorf("response body does not contain %q (body: %s)",
			substring, truncate(testCtx.LastBody, 200))
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldBeValidJSON() error {
	if !json.Valid(testCtx.LastBody) {
		return fmt.Errorf("response body is not valid JSON: %s", truncate(testCtx.LastBody, 200))
	}
	return nil
}

func (testCtx *TestContext) theJSONFieldShouldBe(field, expected string) error {
	var payload map[string]any
	if err := json.Unmarshal(testCtx.LastBody, &payload); err != nil {
		return fmt.Errorf("response is not a JSON object: %w", err)
	}
	value, ok := payload[field]
	if !ok {
		return fmt.Errorf("response JSON has no field %q", field)
	}
	if got := fmt.Sprintf("%v", value); got != expected {
		return fmt.Errorf("field %q is %q, expected %q", field, got, expected)
	}
	return nil
}

func (testCtx *TestContext) theResponseContentTypeShouldBe(expected string) error {
	contentType := testCtx.LastHeaders.Get("Content-Type")
	if !strings.HasPrefix(contentType, expected) {
		return fmt.Errorf("expected content type %q, got %q", expected, contentType)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldDecodeAsAImage(expectedFormat string) error {
	_, format, err := image.Decode(bytes.NewReader(testCtx.LastBody))
	if err != nil {
		return fmt.Errorf("response does not decode as an image: %w", err)
	}
	if format != expectedFormat {
		return fmt.Errorf("response decoded as %q, expected %q", format, expectedFormat)
	}
	return nil
}

func (testCtx *TestContext) theResponseImageShouldMatchTheUploadedDimensions() error {
	if testCtx.LastUpload == nil {
		return fmt.Errorf("no upload image recorded for this scenario")
	}
	img, _, err := image.Decode(bytes.NewReader(testCtx.LastBody))
	if err != nil {
		return fmt.Errorf("response does not decode as an image: %w", err)
	}
	want := testCtx.LastUpload.Bounds()
	got := img.Bounds()
	if got.Dx() != want.Dx() || got.Dy() != want.Dy() {
		return fmt.Errorf("response image is %dx%d, upload was %dx%d",
			got.Dx(), got.Dy(), want.Dx(), want.Dy())
	}
	return nil
}

func (testCtx *TestContext) theHeaderShouldBe(name, expected string) error {
	if got := testCtx.LastHeaders.Get(name); got != expected {
		return fmt.Errorf("header %s is %q, expected %q", name, got, expected)
	}
	return nil
}

func (testCtx *TestContext) theHeaderShouldBePresent(name string) error {
	if testCtx.LastHeaders.Get(name) == "" {
		return fmt.Errorf("header %s is missing", name)
	}
	return nil
}

func (testCtx *TestContext) theHeaderShouldBeAbsent(name string) error {
	if got := testCtx.LastHeaders.Get(name); got != "" {
		return fmt.Errorf("header %s should be absent, got %q", name, got)
	}
	return nil
}

func (testCtx *TestContext) theHeaderShouldContain(name, substring string) error {
	got := testCtx.LastHeaders.Get(name)
	if !strings.Contains(got, substring) {
		return fmt.Errorf("header %s is %q, expected it to contain %q", name, got, substring)
	}
	return nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

// RegisterResponseSteps wires the steps that assert on the last response.
func (testCtx *TestContext) RegisterResponseSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should be a JSON error envelope$`, testCtx.theResponseShouldBeAJSONErrorEnvelope)
	sc.Step(`^the error message should contain "([^"]*)"$`, testCtx.theErrorMessageShouldContain)
	sc.Step(`^the response body should contain "([^"]*)"$`, testCtx.theResponseBodyShouldContain)
	sc.Step(`^the response should be valid JSON$`, testCtx.theResponseShouldBeValidJSON)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theJSONFieldShouldBe)
	sc.Step(`^the response content type should be "([^"]*)"$`, testCtx.theResponseContentTypeShouldBe)
	sc.Step(`^the response should decode as a (png|jpeg) image$`, testCtx.theResponseShouldDecodeAsAImage)
	sc.Step(`^the response image should match the uploaded dimensions$`,
		testCtx.theResponseImageShouldMatchTheUploadedDimensions)
	sc.Step(`^the "([^"]*)" header should be "([^"]*)"$`, testCtx.theHeaderShouldBe)
	sc.Step(`^the "([^"]*)" header should be present$`, testCtx.theHeaderShouldBePresent)
	sc.Step(`^the "([^"]*)" header should be absent$`, testCtx.theHeaderShouldBeAbsent)
	sc.Step(`^the "([^"]*)" header should contain "([^"]*)"$`, testCtx.theHeaderShouldContain)
}
