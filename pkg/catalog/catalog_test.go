package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"key":"beta","id":2},{"key":"alpha","id":1},{"id":3},"gamma",7]`))
	}))
	defer srv.Close()

	keys, err := NewHTTPSource(srv.URL, "s3cret").Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, keys)

	_, err = NewHTTPSource(srv.URL, "").Keys(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestParseJSONKeys(t *testing.T) {
	testCases := []struct {
		body        string
		want        []string
		wantErr     bool
		description string
	}{
		{`["a","b"]`, []string{"a", "b"}, false, "plain strings"},
		{`[{"key":"a"},{"key":1}]`, []string{"a"}, false, "objects with non-string keys are skipped"},
		{`{"keys":["a"]}`, nil, false, "non-array document holds no keys"},
		{`[`, nil, true, "invalid JSON"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, err := ParseJSONKeys([]byte(tc.body))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	testCases := []struct {
		path        string
		want        []string
		description string
	}{
		{write("keys.yaml", "- alpha\n- key: beta\n- 3\n"), []string{"alpha", "beta"}, "yaml sequence"},
		{write("doc.yml", "keys:\n  - gamma\n  - key: delta\n"), []string{"gamma", "delta"}, "yaml mapping with keys"},
		{write("keys.json", `[{"key":"alpha"},"beta"]`), []string{"alpha", "beta"}, "json"},
		{write("keys.txt", "# comment\nalpha\n\n  beta  \n"), []string{"alpha", "beta"}, "plain text"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, err := FileSource{Path: tc.path}.Keys(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := FileSource{Path: filepath.Join(dir, "missing.txt")}.Keys(context.Background())
	assert.Error(t, err)
}

type failingSource struct{}

func (failingSource) Keys(context.Context) ([]string, error) {
	return nil, errors.New("backend down")
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, []string{"b", "a"}, Fetch(ctx, StaticSource{"b", "", "a", "b"}, nil))
	assert.Empty(t, Fetch(ctx, failingSource{}, nil), "errors degrade to an empty list")
	assert.Empty(t, Fetch(ctx, nil, nil))

	static := StaticSource{"a"}
	keys := Fetch(ctx, static, nil)
	keys[0] = "changed"
	assert.Equal(t, "a", static[0], "static sources hand out copies")
}
