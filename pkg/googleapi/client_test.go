package googleapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/things", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("count"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"name": "thing-one"}`)
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	client := New(srv.Client(), srv.URL)
	err := client.Get(context.Background(), "/v1/things", url.Values{"count": {"7"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "thing-one", out.Name)
}

func TestPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["greeting"])
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client := New(srv.Client(), srv.URL)
	var out map[string]any
	err := client.Post(context.Background(), "/v1/things", nil, map[string]string{"greeting": "hello"}, &out)
	require.NoError(t, err)
}

func TestDeleteIgnoresBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(srv.Client(), srv.URL)
	require.NoError(t, client.Delete(context.Background(), "/v1/things/1", nil))
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": {"code": 404, "message": "File not found: abc"}}`)
	}))
	defer srv.Close()

	client := New(srv.Client(), srv.URL)
	err := client.Get(context.Background(), "/v1/things/abc", nil, &struct{}{})
	require.Error(t, err)
	assert.Equal(t, "google api: 404: File not found: abc", err.Error())
}

func TestErrorWithoutEnvelopeUsesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.Client(), srv.URL)
	err := client.Get(context.Background(), "/v1/things", nil, &struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestUploadSetsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "raw content", string(body))
		io.WriteString(w, `{"id": "u1"}`)
	}))
	defer srv.Close()

	client := New(srv.Client(), srv.URL)
	var out struct {
		ID string `json:"id"`
	}
	err := client.Upload(context.Background(), http.MethodPatch, "/upload/v1/things/1", nil, "text/plain", []byte("raw content"), &out)
	require.NoError(t, err)
	assert.Equal(t, "u1", out.ID)
}

func TestGetRawReturnsBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		w.Write([]byte{0x00, 0x01, 0x02})
	}))
	defer srv.Close()

	client := New(srv.Client(), srv.URL)
	content, err := client.GetRaw(context.Background(), "/v1/things/1", url.Values{"alt": {"media"}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, content)
}

func TestDefaultBaseURL(t *testing.T) {
	client := New(http.DefaultClient, "")
	assert.Equal(t, DefaultBaseURL, client.base)

	trimmed := New(http.DefaultClient, "https://example.com/")
	assert.Equal(t, "https://example.com", trimmed.base)
}
