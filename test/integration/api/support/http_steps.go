package support

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/scrub/internal/testutil"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// doRequest performs req against the test server and captures the
// response for the assertion steps.
func (testCtx *TestContext) doRequest(req *http.Request) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	testCtx.LastStatusCode = resp.StatusCode
	testCtx.LastHeaders = resp.Header
	testCtx.LastBody = body
	return nil
}

func (testCtx *TestContext) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	if testCtx.httpServer == nil {
		return nil, errors.New("no server is running")
	}
	return http.NewRequestWithContext(context.Background(), method, testCtx.ServerURL()+path, body)
}

func (testCtx *TestContext) iGET(path string) error {
	req, err := testCtx.newRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return testCtx.doRequest(req)
}

func (testCtx *TestContext) iGETWithOrigin(path, origin string) error {
	req, err := testCtx.newRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Origin", origin)
	return testCtx.doRequest(req)
}

func (testCtx *TestContext) iMakeAnOPTIONSRequestToWithOrigin(path, origin string) error {
	req, err := testCtx.newRequest(http.MethodOptions, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	return testCtx.doRequest(req)
}

// postMultipart sends a multipart form to path. A nil fileData skips the
// file part entirely.
func (testCtx *TestContext) postMultipart(path, filename string, fileData []byte, fields url.Values) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if fileData != nil {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(fileData); err != nil {
			return fmt.Errorf("write form file: %w", err)
		}
	}
	for field, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(field, value); err != nil {
				return fmt.Errorf("write form field %s: %w", field, err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := testCtx.newRequest(http.MethodPost, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return testCtx.doRequest(req)
}

func (testCtx *TestContext) iPOSTAnEmptyFormTo(path string) error {
	return testCtx.postMultipart(path, "", nil, nil)
}

func (testCtx *TestContext) iUploadTheTextAsTo(text, filename, path string) error {
	testCtx.LastUpload = nil
	return testCtx.postMultipart(path, filename, []byte(text), nil)
}

func (testCtx *TestContext) iUploadMBOfNoiseAsTo(sizeMB int, filename, path string) error {
	testCtx.LastUpload = nil
	noise := bytes.Repeat([]byte("not pixels "), sizeMB*1024*1024/11+1)
	return testCtx.postMultipart(path, filename, noise[:sizeMB*1024*1024], nil)
}

// generatedPhoto renders a small photo with readable text on it and
// returns its PNG encoding. The decoded image is kept on the context so
// response dimensions can be verified.
func (testCtx *TestContext) generatedPhoto() ([]byte, error) {
	img := testutil.TextImage("SCRUB ME", 320, 240)
	data, err := utils.EncodeImage(img, utils.FormatPNG)
	if err != nil {
		return nil, fmt.Errorf("encode generated photo: %w", err)
	}
	testCtx.LastUpload = img
	return data, nil
}

func (testCtx *TestContext) iUploadAGeneratedPhotoTo(path string) error {
	data, err := testCtx.generatedPhoto()
	if err != nil {
		return err
	}
	return testCtx.postMultipart(path, "photo.png", data, nil)
}

func (testCtx *TestContext) iUploadAGeneratedPhotoToWithOptions(path, rawOptions string) error {
	fields, err := url.ParseQuery(rawOptions)
	if err != nil {
		return fmt.Errorf("parse options %q: %w", rawOptions, err)
	}
	data, genErr := testCtx.generatedPhoto()
	if genErr != nil {
		return genErr
	}
	return testCtx.postMultipart(path, "photo.png", data, fields)
}

// RegisterRequestSteps wires the steps that send HTTP requests.
func (testCtx *TestContext) RegisterRequestSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I GET "([^"]*)"$`, testCtx.iGET)
	sc.Step(`^I GET "([^"]*)" with origin "([^"]*)"$`, testCtx.iGETWithOrigin)
	sc.Step(`^I make an OPTIONS request to "([^"]*)" with origin "([^"]*)"$`,
		testCtx.iMakeAnOPTIONSRequestToWithOrigin)
	sc.Step(`^I POST an empty form to "([^"]*)"$`, testCtx.iPOSTAnEmptyFormTo)
	sc.Step(`^I upload the text "([^"]*)" as "([^"]*)" to "([^"]*)"$`, testCtx.iUploadTheTextAsTo)
	sc.Step(`^I upload (\d+) MB of noise as "([^"]*)" to "([^"]*)"$`, testCtx.iUploadMBOfNoiseAsTo)
	sc.Step(`^I upload a generated photo to "([^"]*)"$`, testCtx.iUploadAGeneratedPhotoTo)
	sc.Step(`^I upload a generated photo to "([^"]*)" with options "([^"]*)"$`,
		testCtx.iUploadAGeneratedPhotoToWithOptions)
}
