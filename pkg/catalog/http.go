package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrStatus is wrapped by HTTPSource when the endpoint answers with a non-2xx status.
var ErrStatus = errors.New("unexpected response status")

// HTTPSource fetches keys from a JSON endpoint, such as a chat backend's
// /keys route. The body must be an array of {"key": ...} objects or of
// plain strings.
type HTTPSource struct {
	URL   string
	Token string

	// Client defaults to http.DefaultClient. No timeout is added here;
	// callers bound the fetch through the context or the client.
	Client *http.Client
}

// NewHTTPSource returns a source for url, sending token as a bearer credential when set.
func NewHTTPSource(url, token string) *HTTPSource {
	return &HTTPSource{URL: url, Token: token}
}

func (s *HTTPSource) Keys(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build key request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch keys from %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch keys from %s: %w: %s", s.URL, ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read key response: %w", err)
	}
	return ParseJSONKeys(body)
}

// ParseJSONKeys extracts keys from a JSON array of {"key": ...} objects or
// strings. Elements of any other shape are skipped; a document that is not
// an array holds no keys.
func ParseJSONKeys(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("key list is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, nil
	}

	var keys []string
	doc.ForEach(func(_, el gjson.Result) bool {
		switch {
		case el.Type == gjson.String:
			keys = append(keys, el.String())
		case el.IsObject():
			if k := el.Get("key"); k.Type == gjson.String {
				keys = append(keys, k.String())
			}
		}
		return true
	})
	return keys, nil
}
