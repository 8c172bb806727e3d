package judger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/submit", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1800), body["contestId"])
		assert.Equal(t, "B", body["problem"])
		assert.Equal(t, "31", body["langId"])
		assert.Equal(t, "print(input())", body["sourceCode"])

		w.Write([]byte(`{"submission":{"id":271828,"verdict":"In Queue"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	id, err := c.Dispatch(context.Background(), 1800, "B", "31", "print(input())")
	require.NoError(t, err)
	assert.Equal(t, "271828", id)
}

func TestClientFetchVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/submission/1800/271828", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		w.Write([]byte(`{"submission":{"id":"271828","verdict":"Accepted","time":62,"memory":1024}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	v, err := c.FetchVerdict(context.Background(), 1800, "271828")
	require.NoError(t, err)
	assert.Equal(t, "271828", v.ID)
	assert.Equal(t, "Accepted", v.Verdict)
	assert.Equal(t, uint(62), v.Time)
	assert.Equal(t, uint(1024), v.Memory)
}

func TestClientNon2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.FetchVerdict(context.Background(), 1800, "271828")
	require.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = c.Dispatch(context.Background(), 1800, "B", "31", "x")
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestClientUnreachableIsUnavailable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "secret")
	_, err := c.FetchVerdict(context.Background(), 1800, "271828")
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestClientMalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.FetchVerdict(context.Background(), 1800, "271828")
	require.ErrorIs(t, err, ErrProviderUnavailable)
}
