package redisClient

import "github.com/go-redis/redis"

type RedisClient struct {
	Client *redis.Client
}

func NewRedis(host, port string) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port,
	})
	return &RedisClient{Client: client}
}
