package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis"
)

// Префиксы ключей кэша
const (
	BookingKeyPrefix = "booking:"
)

// ttlJitterMax максимальная случайная добавка к TTL кэша
// Разносит по времени истечение ключей, записанных одновременно,
// чтобы избежать синхронного cache stampede
const ttlJitterMax = 60 * time.Second

// Store клиент Redis: read-through кэш и блокировки слотов бронирования
type Store struct {
	client *redis.Client
}

// NewStore создает новый экземпляр Store поверх подключенного Redis клиента
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ping проверяет соединение с Redis
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.WithContext(ctx).Ping().Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrInternal, err)
	}
	return nil
}

// BookingKey возвращает ключ кэша для бронирования
func BookingKey(bookingID int64) string {
	return fmt.Sprintf("%s%d", BookingKeyPrefix, bookingID)
}

// Get читает значение из кэша и десериализует его в dest
// Возвращает ErrCacheMiss, если ключ отсутствует
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.WithContext(ctx).Get(key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("%w: Get - redis get: %v", ErrInternal, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: Get - unmarshal value: %v", ErrInternal, err)
	}

	return nil
}

// Set сериализует значение в JSON и кладет в кэш с TTL
// К TTL добавляется случайный джиттер до 60 секунд
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: Set - marshal value: %v", ErrInternal, err)
	}

	jittered := ttl + time.Duration(rand.Int63n(int64(ttlJitterMax)))
	if err := s.client.WithContext(ctx).Set(key, data, jittered).Err(); err != nil {
		return fmt.Errorf("%w: Set - redis set: %v", ErrInternal, err)
	}

	return nil
}

// Delete удаляет ключ из кэша
// Отсутствие ключа не считается ошибкой
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.WithContext(ctx).Del(key).Err(); err != nil {
		return fmt.Errorf("%w: Delete - redis del: %v", ErrInternal, err)
	}
	return nil
}
