package signupform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haguru/signup/internal/models/dto"
)

const defaultClientTimeout = 10 * time.Second

// Response is what the registration endpoint answered.
type Response struct {
	StatusCode    int
	ErrorMessages []string
}

// Submitter delivers a sign-up request to the registration endpoint.
type Submitter interface {
	Submit(ctx context.Context, req dto.UserSignupRequestDTO) (Response, error)
}

// HTTPSubmitter posts sign-up requests as JSON.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSubmitter targets the sign-up route under baseURL.
// A nil client gets a default one with a timeout.
func NewHTTPSubmitter(baseURL string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Timeout: defaultClientTimeout}
	}
	return &HTTPSubmitter{
		endpoint: strings.TrimRight(baseURL, "/") + dto.SignupPath,
		client:   client,
	}
}

// Submit sends req and decodes the error list of a 400 or 500 answer.
// Statuses are returned as is; interpreting them is up to the caller.
func (s *HTTPSubmitter) Submit(ctx context.Context, req dto.UserSignupRequestDTO) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode sign-up request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build sign-up request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("send sign-up request: %w", err)
	}
	defer resp.Body.Close()

	result := Response{StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusCreated {
		_, _ = io.Copy(io.Discard, resp.Body)
		return result, nil
	}

	var errResp dto.UserSignupErrorResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		if resp.StatusCode == http.StatusBadRequest {
			return result, fmt.Errorf("decode sign-up error response: %w", err)
		}
		return result, nil
	}
	result.ErrorMessages = errResp.ErrorMessages
	return result, nil
}
