package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config はリトライの設定を保持する
type Config struct {
	Attempts     int
	BaseInterval time.Duration
	MaxBackoff   time.Duration
}

// DefaultConfig はデフォルトのリトライ設定を返す
func DefaultConfig() Config {
	return Config{
		Attempts:     3,
		BaseInterval: 100 * time.Millisecond,
		MaxBackoff:   2 * time.Second,
	}
}

// Backoff は指数バックオフ + ジッターを計算する
func Backoff(attempt int, baseInterval, maxBackoff time.Duration) time.Duration {
	d := baseInterval << attempt
	if d > maxBackoff {
		d = maxBackoff
	}
	// +/-10% jitter
	jitter := time.Duration(int64(d) * int64(9+rand.Intn(3)) / 10)
	return jitter
}

// Do は fn が成功するか試行回数を使い切るまでバックオフ付きで再実行する。
// コンテキストのキャンセルは即座に反映される。
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	var err error

	for i := 0; i < cfg.Attempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		if err = fn(ctx); err == nil {
			return nil
		}

		if i == cfg.Attempts-1 {
			break
		}

		timer := time.NewTimer(Backoff(i, cfg.BaseInterval, cfg.MaxBackoff))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}
