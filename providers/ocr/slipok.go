package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// SlipOKClient calls the SlipOK verification API with the raw image bytes.
type SlipOKClient struct {
	APIURL string
	HTTP   *http.Client
}

func (p *SlipOKClient) Decode(ctx context.Context, image []byte) (*DecodedSlip, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("files", "slip.jpg")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.APIURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-authorization", os.Getenv("SLIPOK_API_KEY"))

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slip verification request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("slip verification failed, status: %s", resp.Status)
	}

	var result struct {
		Success bool        `json:"success"`
		Data    DecodedSlip `json:"data"`
		Message string      `json:"message"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode slip response: %w", err)
	}
	if !result.Success {
		return nil, ErrUnreadableSlip
	}
	if err := result.Data.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSlip, err)
	}
	return &result.Data, nil
}

func init() {
	Register("slipok", &SlipOKClient{
		APIURL: "https://api.slipok.com/api/line/apikey/verify",
		HTTP:   &http.Client{Timeout: 8 * time.Second},
	})
}
