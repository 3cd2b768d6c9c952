package cacheclient

import (
	"github.com/QuangTung97/go-memcache/memcache"
	"github.com/QuangTung97/offer-reserve/pkg/mutex"
	"time"
)

// Client ...
type Client struct {
	client *memcache.Client
}

var _ mutex.Backend = &Client{}

// New ...
func New(addr string, numConns int) *Client {
	client, err := memcache.New(addr, numConns, memcache.WithRetryDuration(10*time.Second))
	if err != nil {
		panic(err)
	}
	return &Client{
		client: client,
	}
}

// UnsafeFlushAll ...
func (c *Client) UnsafeFlushAll() error {
	pipe := c.client.Pipeline()
	defer pipe.Finish()
	return pipe.FlushAll()()
}

// Close ...
func (c *Client) Close() error {
	return c.client.Close()
}

func ttlSeconds(ttl time.Duration) uint32 {
	seconds := uint32(ttl / time.Second)
	if seconds == 0 {
		return 1
	}
	return seconds
}

// TryAcquire uses lease get with vivify on miss: exactly one client receives
// the win flag until the key is deleted or expired
func (c *Client) TryAcquire(key string, ttl time.Duration) (uint64, bool, error) {
	pipe := c.client.Pipeline()
	defer pipe.Finish()

	resp, err := pipe.MGet(key, memcache.MGetOptions{
		N:   ttlSeconds(ttl),
		CAS: true,
	})()
	if err != nil {
		return 0, false, err
	}

	if resp.Flags&memcache.MGetFlagW == 0 {
		return 0, false, nil
	}
	return resp.CAS, true, nil
}

// Release deletes the lock key only when it still carries the token of the holder,
// a mismatch or a missing key means the lock already expired
func (c *Client) Release(key string, token uint64) error {
	pipe := c.client.Pipeline()
	defer pipe.Finish()

	_, err := pipe.MDel(key, memcache.MDelOptions{CAS: token})()
	return err
}
