package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis answers GET/SET/SETNX/DEL from a map through a process hook, so
// the client never dials.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() (*fakeRedis, *redis.Client) {
	f := &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(f)
	return f, client
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("fake redis does not dial")
	}
}

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := f.data[fmt.Sprint(args[1])]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			key := fmt.Sprint(args[1])
			f.data[key] = text(args[2])
			f.ttls[key] = ttlOf(args[3:])
			c.SetVal("OK")
		case *redis.BoolCmd:
			key := fmt.Sprint(args[1])
			if _, ok := f.data[key]; ok {
				c.SetVal(false)
				return nil
			}
			f.data[key] = text(args[2])
			f.ttls[key] = ttlOf(args[3:])
			c.SetVal(true)
		case *redis.IntCmd:
			var n int64
			for _, k := range args[1:] {
				if _, ok := f.data[fmt.Sprint(k)]; ok {
					delete(f.data, fmt.Sprint(k))
					delete(f.ttls, fmt.Sprint(k))
					n++
				}
			}
			c.SetVal(n)
		default:
			err := fmt.Errorf("fake redis: unsupported %s", cmd.Name())
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func (f *fakeRedis) ttl(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

func (f *fakeRedis) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *fakeRedis) put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func text(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

func ttlOf(opts []any) time.Duration {
	for i := 0; i+1 < len(opts); i++ {
		n, err := strconv.ParseInt(fmt.Sprint(opts[i+1]), 10, 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(fmt.Sprint(opts[i])) {
		case "ex":
			return time.Duration(n) * time.Second
		case "px":
			return time.Duration(n) * time.Millisecond
		}
	}
	return 0
}
