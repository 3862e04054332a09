package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoad_CachesValue(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	var calls int32

	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("v1"), nil
	}
	b, err := c.GetOrLoad(ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))

	b, err = c.GetOrLoad(ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	got, err := mr.Get("syriazone:k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
	assert.Equal(t, time.Minute, mr.TTL("syriazone:k"))
}

func TestGetOrLoad_LoaderError(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")

	_, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("syriazone:k"))
}

func TestGetOrLoad_SingleFlight(t *testing.T) {
	c, _ := newTestCache(t)
	var calls int32
	release := make(chan struct{})

	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("x"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.GetOrLoad(context.Background(), "hot", time.Minute, load)
			assert.NoError(t, err)
			assert.Equal(t, "x", string(b))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestGetOrLoadJSON(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	p, err := GetOrLoadJSON(c, ctx, "user:1", time.Minute, func(context.Context) (*profile, error) {
		return &profile{ID: "1", Name: "Lina"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Lina", p.Name)

	p, err = GetOrLoadJSON(c, ctx, "user:1", time.Minute, func(context.Context) (*profile, error) {
		t.Fatal("loader must not run on hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)
}

func TestGetOrLoadJSON_NilIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)

	p, err := GetOrLoadJSON(c, context.Background(), "user:404", time.Minute, func(context.Context) (*profile, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, mr.Exists("syriazone:user:404"))
}

func TestInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("syriazone:a", "1"))
	require.NoError(t, mr.Set("syriazone:b", "2"))

	require.NoError(t, c.Invalidate(ctx, "a", "b"))
	assert.False(t, mr.Exists("syriazone:a"))
	assert.False(t, mr.Exists("syriazone:b"))
	assert.NoError(t, c.Invalidate(ctx))
}
