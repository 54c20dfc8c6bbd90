package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HMasataka/rally/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	cfg := retry.Config{
		Attempts:     3,
		BaseInterval: time.Millisecond,
		MaxBackoff:   5 * time.Millisecond,
	}

	t.Run("初回成功なら一度しか呼ばれない", func(t *testing.T) {
		calls := 0

		err := retry.Do(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("失敗が続いても成功するまで再試行する", func(t *testing.T) {
		calls := 0

		err := retry.Do(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("試行回数を使い切ると最後のエラーを返す", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")

		err := retry.Do(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, cfg.Attempts, calls)
	})

	t.Run("キャンセルは即座に反映される", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		err := retry.Do(ctx, cfg, func(ctx context.Context) error {
			calls++
			cancel()
			return errors.New("transient")
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("キャンセル済みコンテキストでは実行されない", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := retry.Do(ctx, cfg, func(ctx context.Context) error {
			calls++
			return nil
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, calls)
	})
}

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	max := 2 * time.Second

	t.Run("ジッター込みで期待レンジに収まる", func(t *testing.T) {
		for attempt := 0; attempt < 4; attempt++ {
			expected := base << attempt

			for i := 0; i < 20; i++ {
				d := retry.Backoff(attempt, base, max)
				assert.GreaterOrEqual(t, d, expected*9/10)
				assert.LessOrEqual(t, d, expected*11/10)
			}
		}
	})

	t.Run("上限を大きく超えない", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			d := retry.Backoff(10, base, max)
			assert.LessOrEqual(t, d, max*11/10)
		}
	})
}
