package cache

import "errors"

var (
	// ErrCacheMiss возвращается, когда ключ отсутствует в кэше
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrLockNotAcquired возвращается, когда блокировка уже удерживается другим владельцем
	ErrLockNotAcquired = errors.New("cache: lock already held")

	// ErrInternal возвращается при ошибках взаимодействия с Redis
	ErrInternal = errors.New("cache: internal error")
)
