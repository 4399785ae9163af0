package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// lockKeyPrefix префикс ключей блокировок слотов
const lockKeyPrefix = "lock:"

// releaseScript атомарно удаляет блокировку, только если хранимый токен
// совпадает с переданным. Проверка и удаление обязаны быть одной операцией:
// два последовательных вызова get + del позволили бы медленному клиенту
// удалить чужую блокировку, захваченную после истечения TTL его собственной
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// LockKey возвращает ключ блокировки для идентификатора ресурса
func LockKey(resourceID string) string {
	return lockKeyPrefix + resourceID
}

// AcquireLock захватывает блокировку на ресурс через SET NX с TTL
// Возвращает ключ блокировки и токен владения
// Возвращает ErrLockNotAcquired, если блокировка уже удерживается
func (s *Store) AcquireLock(ctx context.Context, resourceID string, ttl time.Duration) (lockKey, token string, err error) {
	lockKey = LockKey(resourceID)
	token = uuid.NewString()

	ok, err := s.client.WithContext(ctx).SetNX(lockKey, token, ttl).Result()
	if err != nil {
		return "", "", fmt.Errorf("%w: AcquireLock - redis setnx: %v", ErrInternal, err)
	}
	if !ok {
		return "", "", ErrLockNotAcquired
	}

	return lockKey, token, nil
}

// ReleaseLock освобождает блокировку, только если токен совпадает с хранимым
// Возвращает false, если блокировка не была удалена (истек TTL или её
// удерживает другой владелец)
func (s *Store) ReleaseLock(ctx context.Context, lockKey, token string) (bool, error) {
	res, err := s.client.WithContext(ctx).Eval(releaseScript, []string{lockKey}, token).Result()
	if err != nil {
		return false, fmt.Errorf("%w: ReleaseLock - redis eval: %v", ErrInternal, err)
	}

	deleted, ok := res.(int64)
	if !ok {
		return false, fmt.Errorf("%w: ReleaseLock - unexpected script result %T", ErrInternal, res)
	}

	return deleted == 1, nil
}
