package store

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeServer is the shared dataset behind one or more fakeConns, standing in
// for the remote store so reconnected handles see the same data.
type fakeServer struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeServer() *fakeServer {
	return &fakeServer{data: make(map[string][]byte)}
}

func (s *fakeServer) put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *fakeServer) keysMatching(pattern string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for k := range s.data {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// fakeConn implements conn against a fakeServer. Errors can be scripted
// per operation; each scripted error is consumed by one call.
type fakeConn struct {
	srv *fakeServer

	mu     sync.Mutex
	fail   map[string][]error
	calls  map[string]int
	closed bool
}

func newFakeConn(srv *fakeServer) *fakeConn {
	return &fakeConn{
		srv:   srv,
		fail:  make(map[string][]error),
		calls: make(map[string]int),
	}
}

func (c *fakeConn) failNext(op string, errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail[op] = append(c.fail[op], errs...)
}

func (c *fakeConn) callCount(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// scriptErr records the call and pops the next scripted error, if any.
func (c *fakeConn) scriptErr(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls[op]++
	q := c.fail[op]
	if len(q) == 0 {
		return nil
	}
	c.fail[op] = q[1:]
	return q[0]
}

func toBytes(v any) []byte {
	switch val := v.(type) {
	case []byte:
		return val
	case string:
		return []byte(val)
	default:
		return nil
	}
}

func (c *fakeConn) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if err := c.scriptErr("set"); err != nil {
		return redis.NewStatusResult("", err)
	}
	c.srv.put(key, toBytes(value))
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeConn) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if err := c.scriptErr("setnx"); err != nil {
		return redis.NewBoolResult(false, err)
	}

	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	if _, exists := c.srv.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	c.srv.data[key] = toBytes(value)
	return redis.NewBoolResult(true, nil)
}

func (c *fakeConn) Get(ctx context.Context, key string) *redis.StringCmd {
	if err := c.scriptErr("get"); err != nil {
		return redis.NewStringResult("", err)
	}

	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	data, ok := c.srv.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(data), nil)
}

func (c *fakeConn) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if err := c.scriptErr("del"); err != nil {
		return redis.NewIntResult(0, err)
	}

	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := c.srv.data[key]; ok {
			delete(c.srv.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (c *fakeConn) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	if err := c.scriptErr("scan"); err != nil {
		return redis.NewScanCmdResult(nil, 0, err)
	}

	keys := c.srv.keysMatching(match)
	start := min(int(cursor), len(keys))
	end := min(start+int(count), len(keys))

	next := uint64(end)
	if end >= len(keys) {
		next = 0
	}
	return redis.NewScanCmdResult(keys[start:end], next, nil)
}

func (c *fakeConn) Ping(ctx context.Context) *redis.StatusCmd {
	if err := c.scriptErr("ping"); err != nil {
		return redis.NewStatusResult("", err)
	}
	return redis.NewStatusResult("PONG", nil)
}

// Close marks the conn closed but leaves it usable, mirroring the window in
// which callers still hold a handle the coordinator already released.
func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// fakeResolver counts Resolve calls and delegates to a scriptable function.
type fakeResolver struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context) (conn, error)
}

func (r *fakeResolver) Resolve(ctx context.Context) (conn, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.fn(ctx)
}

func (r *fakeResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// sleepRecorder captures backoff delays instead of sleeping.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return nil
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}
