package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := Initialize("redis://"+mr.Addr(), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestLockIsExclusive(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	release, err := c.Lock(ctx, "po:1280290")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:po:1280290"))

	waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = c.Lock(waitCtx, "po:1280290")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	assert.False(t, mr.Exists("lock:po:1280290"))

	release, err = c.Lock(ctx, "po:1280290")
	require.NoError(t, err)
	release()
}

func TestReleaseLeavesForeignLockAlone(t *testing.T) {
	c, mr := newTestClient(t)

	release, err := c.Lock(context.Background(), "po:9")
	require.NoError(t, err)

	// Simulate expiry and takeover by another process.
	mr.Set("lock:po:9", "someone-else")
	release()

	got, err := mr.Get("lock:po:9")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestPackingListHTMLCache(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, ok, err := c.GetPackingListHTML(ctx, "PL0000001")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetPackingListHTML(ctx, "PL0000001", "<html></html>", time.Minute))

	html, ok, err := c.GetPackingListHTML(ctx, "PL0000001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<html></html>", html)
}
