package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordSenderPostsBoldTitle(t *testing.T) {
	var got map[string]string
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	require.NoError(t, s.Send(context.Background(), "Whale Alert", "3 trades over threshold"))
	assert.Equal(t, "**Whale Alert**\n3 trades over threshold", got["content"])
	assert.Equal(t, "ronintracker/1.0", agent)
}

func TestDiscordSenderSurfacesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewDiscordSender(srv.URL).Send(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify: discord")
	assert.Contains(t, err.Error(), "429")
}

func TestTelegramSenderTargetsConfiguredChat(t *testing.T) {
	var path string
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := NewTelegramSender("bot-token", "-100123")
	s.apiBase = srv.URL
	require.NoError(t, s.Send(context.Background(), "Network Health: 35/100 (Critical)", "details"))

	assert.Equal(t, "/botbot-token/sendMessage", path)
	assert.Equal(t, "-100123", got["chat_id"])
	assert.Equal(t, "*Network Health: 35/100 (Critical)*\ndetails", got["text"])
	assert.Equal(t, "Markdown", got["parse_mode"])
}
