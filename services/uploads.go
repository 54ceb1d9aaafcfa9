package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// UploadsService pushes chat image attachments to a third-party asset host
// and hands back the hosted URL. The host is imgbb-compatible: a multipart
// POST with an "image" field, keyed by an account API key.
type UploadsService struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// uploadResponse is the subset of the asset host's response we care about
type uploadResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image bytes to the asset host and returns the URL where
// the image can be retrieved
func (s *UploadsService) Upload(ctx context.Context, filename string, data []byte) (string, error) {

	if len(s.BaseURL) == 0 {
		return "", errors.New("asset host is not configured")
	}

	// Build the multipart body with the image field
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	// The account key travels as a query parameter
	endpoint := s.BaseURL
	if len(s.APIKey) > 0 {
		endpoint += "?key=" + url.QueryEscape(s.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asset host returned status %d", res.StatusCode)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Data.URL) == 0 {
		if len(parsed.Error.Message) > 0 {
			return "", errors.New("asset host rejected upload: " + parsed.Error.Message)
		}
		return "", errors.New("asset host returned no URL")
	}
	return parsed.Data.URL, nil

}
