package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisConn *redis.Client

// NewRedis returns a redis client backed by an in-process miniredis server
// shared by the whole suite.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisConn = redis.NewClient(&redis.Options{
			Addr: server.Addr(),
		})
	})
	return redisConn
}

// ClearRedis drops every key so scenarios do not observe each other's
// cached summaries.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.TODO()).Err()
}
