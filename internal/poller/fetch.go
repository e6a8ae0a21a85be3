package poller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"csb/statusboard/internal/models"
)

// fetch issues one GET to the status endpoint. Without StrictHTTPCheck the
// HTTP status is ignored and only the body decides success.
func (p *StatusPoller) fetch(ctx context.Context) (*models.StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.Endpoint, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if p.opts.StrictHTTPCheck && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, &FetchError{
			Kind:       KindHTTP,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	var out models.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &FetchError{Kind: KindParse, StatusCode: resp.StatusCode, Err: err}
	}
	return &out, nil
}
