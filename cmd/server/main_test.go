package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellcorpus/internal/wordlist"
)

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestRejectsBadRequests(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	mux := newMux(wordlist.NewRedisStore(client, ""))

	cases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPost, "/api/v1/trigger-word", "{", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/trigger-word", `{"word":"  "}`, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/trigger-word", "", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/trigger-word/", "", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/trigger-words", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := serve(mux, tc.method, tc.path, tc.body)
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestTriggerWordLifecycle(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	key := "trigger_words_server_test"
	t.Cleanup(func() { client.Del(context.Background(), key) })
	mux := newMux(wordlist.NewRedisStore(client, key))

	rec := serve(mux, http.MethodPost, "/api/v1/trigger-word", `{"word":"كتب","words":["ذهب"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(mux, http.MethodDelete, "/api/v1/trigger-word/"+url.PathEscape("ذهب"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(mux, http.MethodGet, "/api/v1/trigger-words", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Words []string `json:"words"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"كتب"}, body.Words)
}
