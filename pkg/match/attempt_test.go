package match

import (
	"context"
	"errors"
	"testing"
	"time"

	payload "github.com/HMasataka/rally/payload/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttempt_Fail(t *testing.T) {
	t.Run("最初のfailだけが発火し以降は無視される", func(t *testing.T) {
		a := newAttempt(context.Background(), payload.RoleInitiator)
		defer a.stop()

		first := errors.New("first")
		second := errors.New("second")

		assert.True(t, a.fail(first))
		assert.False(t, a.fail(second))
		assert.ErrorIs(t, a.failure(), first)
	})

	t.Run("failで待機中のコンテキストが解放される", func(t *testing.T) {
		a := newAttempt(context.Background(), payload.RoleJoiner)
		defer a.stop()

		a.fail(errors.New("boom"))

		select {
		case <-a.ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("attempt context was never cancelled")
		}
	})
}

func TestAttempt_Stop(t *testing.T) {
	t.Run("stopは何度呼んでも安全", func(t *testing.T) {
		a := newAttempt(context.Background(), payload.RoleInitiator)

		a.stop()
		a.stop()
	})

	t.Run("stop後のsubmitは黙って捨てられる", func(t *testing.T) {
		a := newAttempt(context.Background(), payload.RoleInitiator)
		a.stop()

		ran := make(chan struct{}, 1)
		a.submit(func() {
			ran <- struct{}{}
		})

		select {
		case <-ran:
			t.Fatal("task ran after stop")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("stop前のsubmitは順番に実行される", func(t *testing.T) {
		a := newAttempt(context.Background(), payload.RoleInitiator)

		ran := make(chan int, 2)
		a.submit(func() { ran <- 1 })
		a.submit(func() { ran <- 2 })

		require.Equal(t, 1, <-ran)
		require.Equal(t, 2, <-ran)

		a.stop()
	})
}

func TestAttempt_RoleAndCode(t *testing.T) {
	a := newAttempt(context.Background(), payload.RoleJoiner)
	defer a.stop()

	assert.Equal(t, payload.RoleJoiner, a.Role())
	assert.Empty(t, a.Code())

	a.setCode("ABC123")
	assert.Equal(t, "ABC123", a.Code())
}
