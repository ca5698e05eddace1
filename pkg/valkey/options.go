// Package valkey はセッション保存先となるValkeyクライアントの共通機能を提供する。
package valkey

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Options はValkeyクライアントの接続オプション。
type Options struct {
	Addr        string
	Password    string
	DialTimeout time.Duration
	// IOTimeout はコマンドの読み書きタイムアウト。Pub/Subの購読接続には適用されない。
	IOTimeout time.Duration
	PoolSize  int
}

// ConsoleOptions はコンソール向けの既定値を返す。
// セッションの読み書きとPub/Sub購読だけなのでプールは小さい。
func ConsoleOptions() *Options {
	return &Options{
		Addr:        "127.0.0.1:6379",
		DialTimeout: 5 * time.Second,
		IOTimeout:   5 * time.Second,
		PoolSize:    3,
	}
}

// WithAddr はアドレス（host:port）を設定する。
func (o *Options) WithAddr(addr string) *Options {
	o.Addr = addr
	return o
}

// WithPassword はパスワードを設定する。
func (o *Options) WithPassword(password string) *Options {
	o.Password = password
	return o
}

// WithTimeouts は接続とコマンドのタイムアウトを設定する。
func (o *Options) WithTimeouts(dial, io time.Duration) *Options {
	o.DialTimeout = dial
	o.IOTimeout = io
	return o
}

func (o *Options) redisOptions() *redis.Options {
	return &redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.IOTimeout,
		WriteTimeout: o.IOTimeout,
		PoolSize:     o.PoolSize,
	}
}
