package httpapi

import (
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientIP(t *testing.T) {
	t.Run("same host on two connections is one identity", func(t *testing.T) {
		first := httptest.NewRequest("GET", "/", nil)
		first.RemoteAddr = "203.0.113.7:51001"
		second := httptest.NewRequest("GET", "/", nil)
		second.RemoteAddr = "203.0.113.7:51002"

		assert.Equal(t, "203.0.113.7", resolveClientIP(first))
		assert.Equal(t, resolveClientIP(first), resolveClientIP(second))
	})

	t.Run("first forwarded hop wins", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
		assert.Equal(t, "198.51.100.4", resolveClientIP(req))
	})

	t.Run("ipv6 host keeps brackets stripped", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "[2001:db8::1]:51001"
		assert.Equal(t, "2001:db8::1", resolveClientIP(req))
	})

	t.Run("unparseable remote addr is passed through", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "unix-socket"
		assert.Equal(t, "unix-socket", resolveClientIP(req))
	})
}

func TestTrimString(t *testing.T) {
	assert.Equal(t, "abc", trimString("  abc  ", 10))
	assert.Equal(t, "", trimString("   ", 10))
	assert.Equal(t, "abcde", trimString("abcdefgh", 5))

	t.Run("never splits a rune", func(t *testing.T) {
		// "héllo" has a two-byte rune straddling the byte-3 cut
		out := trimString("héllo", 2)
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, "h", out)

		for i := 1; i < 12; i++ {
			assert.True(t, utf8.ValidString(trimString("日本語テスト", i)), "cut at %d", i)
		}
	})
}
