package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiReply(t *testing.T) {
	t.Run("maps history roles and returns first candidate", func(t *testing.T) {
		var captured geminiRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
			assert.Equal(t, "k", r.URL.Query().Get("key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hello there"}]}}]}`))
		}))
		defer server.Close()

		client := NewGeminiClient("k", server.URL, "gemini-1.5-flash", 5*time.Second)
		reply, err := client.Reply(context.Background(), "hi", []ChatTurn{
			{Role: "user", Text: "earlier question"},
			{Role: "assistant", Text: "earlier answer"},
		})
		require.NoError(t, err)
		assert.Equal(t, "hello there", reply)

		require.Len(t, captured.Contents, 3)
		assert.Equal(t, "user", captured.Contents[0].Role)
		assert.Equal(t, "model", captured.Contents[1].Role)
		assert.Equal(t, "user", captured.Contents[2].Role)
		assert.Equal(t, "hi", captured.Contents[2].Parts[0].Text)
	})

	t.Run("empty message is rejected before any call", func(t *testing.T) {
		client := NewGeminiClient("k", "http://unused", "m", time.Second)
		_, err := client.Reply(context.Background(), "   ", nil)
		assert.Error(t, err)
	})

	t.Run("empty candidate list is an upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		client := NewGeminiClient("k", server.URL, "m", time.Second)
		_, err := client.Reply(context.Background(), "hi", nil)
		var serviceErr ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, http.StatusBadGateway, serviceErr.Status)
	})
}
