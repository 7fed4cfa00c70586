package snapshot

import "errors"

var (
	// ErrSnapshotNotFound возвращается, когда для лота нет сохраненного снимка
	ErrSnapshotNotFound = errors.New("snapshot.cache: snapshot not found")

	// ErrEncode возвращается при ошибке сериализации снимка
	ErrEncode = errors.New("snapshot.cache: failed to encode snapshot")

	// ErrDecode возвращается при ошибке десериализации снимка
	ErrDecode = errors.New("snapshot.cache: failed to decode snapshot")

	// ErrRedis возвращается при ошибках обращения к Redis
	ErrRedis = errors.New("snapshot.cache: redis error")
)
