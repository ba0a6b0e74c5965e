package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager(client, "haven_session", time.Hour, false), mr
}

func TestSessionRoundTrip(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	sess.SetUser("user-42")
	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, sess))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "haven_session", cookies[0].Name)
	assert.Equal(t, sess.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	sess2, err := sm.Load(ctx, req2)
	require.NoError(t, err)
	assert.Equal(t, "user-42", sess2.User())
}

func TestSessionDestroyClearsState(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetUser("user-1")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))
	require.NotEmpty(t, mr.Keys())

	sm.Destroy(sess)
	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, sess))

	assert.Empty(t, mr.Keys())
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestSessionExpiredInRedisStartsFresh(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetUser("user-9")
	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, sess))

	mr.FastForward(2 * time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rr.Result().Cookies()[0])
	sess2, err := sm.Load(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, sess2.User())
}

func TestFlashMessagesPopInOrder(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.AddFlash(FlashMessage{Kind: "info", Message: "first"})
	sess.AddFlash(FlashMessage{Kind: "error", Message: "second"})

	first := sess.PopFlash()
	require.NotNil(t, first)
	assert.Equal(t, "first", first.Message)
	second := sess.PopFlash()
	require.NotNil(t, second)
	assert.Equal(t, "second", second.Message)
	assert.Nil(t, sess.PopFlash())
}

func TestCSRFTokenVerifies(t *testing.T) {
	m := NewCSRFManager("test-secret")
	sess := &Session{ID: "abc"}

	token := m.TokenFor(sess)
	require.NotEmpty(t, token)
	assert.NoError(t, m.VerifyToken(context.Background(), sess, token))
	assert.Error(t, m.VerifyToken(context.Background(), sess, "forged"))

	other := &Session{ID: "def"}
	assert.Error(t, m.VerifyToken(context.Background(), other, token))
}
