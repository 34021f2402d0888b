// internal/handlers/user_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSessionUserMintsGuestIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/play/ws", nil)

	id, err := EnsureSessionUser(w, r)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	res := w.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestEnsureSessionUserReusesValidToken(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/play/ws", nil)
	id, err := EnsureSessionUser(w, r)
	require.NoError(t, err)
	token := w.Result().Cookies()[0].Value

	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/play/ws", nil)
	r2.Header.Set("Cookie", "auth_token="+token)

	id2, err := EnsureSessionUser(w2, r2)
	require.NoError(t, err)
	assert.Equal(t, id, id2, "a valid token pins the identity across connections")
	assert.Empty(t, w2.Result().Cookies(), "no replacement cookie is issued")
}

func TestEnsureSessionUserReplacesGarbageToken(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/play/ws", nil)
	r.Header.Set("Cookie", "auth_token=not-a-jwt")

	id, err := EnsureSessionUser(w, r)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	require.Len(t, w.Result().Cookies(), 1, "the bad token gets replaced")
}

func TestExtractCookieToken(t *testing.T) {
	header := "theme=dark; auth_token=abc.def.ghi; lang=en"
	assert.Equal(t, "abc.def.ghi", extractCookieToken(header, "auth_token"))
	assert.Empty(t, extractCookieToken(header, "session"))
	assert.Empty(t, extractCookieToken("", "auth_token"))
}
