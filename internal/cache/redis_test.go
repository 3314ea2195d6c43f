package cache

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(NewClient(mr.Addr(), "", 0), "test", time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedis_SetGetDel(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var got item
	ok, err := c.GetJSON(ctx, ProductKey(1), &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetJSON(ctx, ProductKey(1), item{ID: 1, Name: "Mug"}))
	assert.True(t, mr.Exists("test:products:id:1"))
	assert.Equal(t, time.Minute, mr.TTL("test:products:id:1"))

	ok, err = c.GetJSON(ctx, ProductKey(1), &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, item{ID: 1, Name: "Mug"}, got)

	require.NoError(t, c.Del(ctx, ProductKey(1)))
	ok, err = c.GetJSON(ctx, ProductKey(1), &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_DelPrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.SetJSON(ctx, ProductListKey(url.Values{"q": {"shirt"}}), []item{}))
	require.NoError(t, c.SetJSON(ctx, ProductListKey(url.Values{}), []item{}))
	require.NoError(t, c.SetJSON(ctx, ProductCategoriesKey, []string{"home"}))

	require.NoError(t, c.DelPrefix(ctx, ProductListPrefix))

	assert.Len(t, mr.Keys(), 1)
	assert.True(t, mr.Exists("test:"+ProductCategoriesKey))
}

func TestRedis_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	c := New(NewClient("", "", 0), "", time.Minute)

	assert.False(t, c.Enabled())
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.SetJSON(ctx, "k", 1))
	var v int
	ok, err := c.GetJSON(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Del(ctx, "k"))
	require.NoError(t, c.DelPrefix(ctx, "k"))
}

func TestRedis_GetJSONErrorWhenServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var v int
	_, err := c.GetJSON(context.Background(), "k", &v)
	assert.Error(t, err)
}
