package service

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movielist/internal/queue"
)

// silentBroker accepts TCP connections and never answers the AMQP handshake.
func silentBroker(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestRabbitPublisherStopsAtContextDeadline(t *testing.T) {
	pub := NewRabbitPublisher(silentBroker(t), "movies.events")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := pub.Publish(ctx, queue.MovieEvent{Type: queue.MovieCreated, MovieID: 1})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestDialTimeout(t *testing.T) {
	d, err := dialTimeout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultDialTimeout, d)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d, err = dialTimeout(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, d, time.Second)
	assert.Positive(t, d)

	done, cancelDone := context.WithCancel(context.Background())
	cancelDone()
	_, err = dialTimeout(done)
	assert.ErrorIs(t, err, context.Canceled)
}
