package relay_test

import (
	"testing"

	"github.com/HMasataka/rally/internal/relay"
	mock_relay "github.com/HMasataka/rally/internal/relay/mock"
	"github.com/HMasataka/rally/payload/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMockPeer(t *testing.T, ctrl *gomock.Controller, id string) *mock_relay.MockPeer {
	t.Helper()

	peer := mock_relay.NewMockPeer(ctrl)
	peer.EXPECT().ID().Return(id).AnyTimes()

	return peer
}

func TestRegistry_Create(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("正常にマッチが作成される", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		initiator := newMockPeer(t, ctrl, "a")

		m, err := registry.Create(initiator)

		require.NoError(t, err)
		assert.Len(t, m.Code, relay.DefaultCodeLength)
		assert.Equal(t, initiator, m.Initiator)
		assert.Nil(t, m.Joiner)
		assert.False(t, m.CreatedAt.IsZero())
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("コードは同時に存在するマッチ間で一意", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		seen := make(map[string]struct{})

		for i := 0; i < 50; i++ {
			m, err := registry.Create(newMockPeer(t, ctrl, "p"))
			require.NoError(t, err)

			_, dup := seen[m.Code]
			assert.False(t, dup, "duplicate code %q", m.Code)
			seen[m.Code] = struct{}{}
		}
	})
}

func TestRegistry_Join(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("正常にペアリングされる", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		initiator := newMockPeer(t, ctrl, "a")
		joiner := newMockPeer(t, ctrl, "b")

		created, err := registry.Create(initiator)
		require.NoError(t, err)

		joined, err := registry.Join(created.Code, joiner)

		require.NoError(t, err)
		assert.Equal(t, created.Code, joined.Code)
		assert.Equal(t, joiner, joined.Joiner)
	})

	t.Run("存在しないコードはErrMatchNotFound", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())

		_, err := registry.Join("ZZZZZZ", newMockPeer(t, ctrl, "b"))

		assert.ErrorIs(t, err, relay.ErrMatchNotFound)
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("二人目の参加はErrMatchFullで拒否されペアは不変", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		initiator := newMockPeer(t, ctrl, "a")
		joiner := newMockPeer(t, ctrl, "b")
		third := newMockPeer(t, ctrl, "c")

		created, err := registry.Create(initiator)
		require.NoError(t, err)

		_, err = registry.Join(created.Code, joiner)
		require.NoError(t, err)

		_, err = registry.Join(created.Code, third)

		assert.ErrorIs(t, err, relay.ErrMatchFull)

		m, ok := registry.Get(created.Code)
		require.True(t, ok)
		assert.Equal(t, initiator, m.Initiator)
		assert.Equal(t, joiner, m.Joiner)
	})

	t.Run("自分のマッチへの参加はErrSelfJoin", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		initiator := newMockPeer(t, ctrl, "a")

		created, err := registry.Create(initiator)
		require.NoError(t, err)

		_, err = registry.Join(created.Code, initiator)

		assert.ErrorIs(t, err, relay.ErrSelfJoin)

		m, ok := registry.Get(created.Code)
		require.True(t, ok)
		assert.Nil(t, m.Joiner)
	})

	t.Run("拒否された参加でマッチは破棄されない", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		initiator := newMockPeer(t, ctrl, "a")

		created, err := registry.Create(initiator)
		require.NoError(t, err)

		_, err = registry.Join(created.Code, initiator)
		require.Error(t, err)

		assert.Equal(t, 1, registry.Len())
	})
}

func TestRegistry_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)

	registry := relay.NewRegistry(relay.DefaultRegistryOptions())
	initiator := newMockPeer(t, ctrl, "a")
	joiner := newMockPeer(t, ctrl, "b")

	created, err := registry.Create(initiator)
	require.NoError(t, err)

	t.Run("参加前のjoinerはErrTargetUnavailable", func(t *testing.T) {
		_, err := registry.Resolve(created.Code, match.RoleJoiner)
		assert.ErrorIs(t, err, relay.ErrTargetUnavailable)
	})

	t.Run("ペアリング後は両roleが解決できる", func(t *testing.T) {
		_, err := registry.Join(created.Code, joiner)
		require.NoError(t, err)

		got, err := registry.Resolve(created.Code, match.RoleInitiator)
		require.NoError(t, err)
		assert.Equal(t, initiator, got)

		got, err = registry.Resolve(created.Code, match.RoleJoiner)
		require.NoError(t, err)
		assert.Equal(t, joiner, got)
	})

	t.Run("存在しないコードはErrMatchNotFound", func(t *testing.T) {
		_, err := registry.Resolve("NOPE42", match.RoleInitiator)
		assert.ErrorIs(t, err, relay.ErrMatchNotFound)
	})
}

func TestRegistry_DropPeer(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("ペアリング済みマッチは相手が通知対象になる", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		initiator := newMockPeer(t, ctrl, "a")
		joiner := newMockPeer(t, ctrl, "b")

		created, err := registry.Create(initiator)
		require.NoError(t, err)
		_, err = registry.Join(created.Code, joiner)
		require.NoError(t, err)

		counterparts := registry.DropPeer(initiator)

		require.Len(t, counterparts, 1)
		assert.Equal(t, joiner, counterparts[0])
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("参加前のマッチは通知対象なしで消える", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		initiator := newMockPeer(t, ctrl, "a")

		_, err := registry.Create(initiator)
		require.NoError(t, err)

		counterparts := registry.DropPeer(initiator)

		assert.Empty(t, counterparts)
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("切断後にpeerを参照するエントリは残らない", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		peer := newMockPeer(t, ctrl, "a")
		other := newMockPeer(t, ctrl, "b")

		first, err := registry.Create(peer)
		require.NoError(t, err)

		second, err := registry.Create(other)
		require.NoError(t, err)
		_, err = registry.Join(second.Code, peer)
		require.NoError(t, err)

		registry.DropPeer(peer)

		_, ok := registry.Get(first.Code)
		assert.False(t, ok)
		_, ok = registry.Get(second.Code)
		assert.False(t, ok)
	})

	t.Run("無関係なマッチは影響を受けない", func(t *testing.T) {
		registry := relay.NewRegistry(relay.DefaultRegistryOptions())
		peer := newMockPeer(t, ctrl, "a")
		other := newMockPeer(t, ctrl, "b")

		_, err := registry.Create(peer)
		require.NoError(t, err)

		kept, err := registry.Create(other)
		require.NoError(t, err)

		registry.DropPeer(peer)

		_, ok := registry.Get(kept.Code)
		assert.True(t, ok)
		assert.Equal(t, 1, registry.Len())
	})
}
