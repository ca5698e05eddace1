package valkey

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/oyaguma3/scan4health-console/pkg/apperr"
	"github.com/redis/go-redis/v9"
)

// NewClient はクライアントを生成し、PINGで疎通を確認する。
// 疎通できない場合は apperr.ErrValkeyConnection に一致するエラーを返す。
// opts が nil なら ConsoleOptions を使う。
func NewClient(opts *Options) (*redis.Client, error) {
	if opts == nil {
		opts = ConsoleOptions()
	}

	client := redis.NewClient(opts.redisOptions())

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrValkeyConnection, opts.Addr, err)
	}
	return client, nil
}

// IsConnectionError は接続断やタイムアウトによるエラーかを返す。
func IsConnectionError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, apperr.ErrValkeyConnection),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsKeyNotFound はキーが存在しないことを表すエラーかを返す。
func IsKeyNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
