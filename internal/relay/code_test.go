package relay_test

import (
	"strings"
	"testing"

	"github.com/HMasataka/rally/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Run("指定した長さのコードを生成する", func(t *testing.T) {
		code, err := relay.GenerateCode(6)

		require.NoError(t, err)
		assert.Len(t, code, 6)
	})

	t.Run("英大文字と数字のみで構成される", func(t *testing.T) {
		const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

		for i := 0; i < 100; i++ {
			code, err := relay.GenerateCode(6)
			require.NoError(t, err)

			for _, r := range code {
				assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in %q", r, code)
			}
		}
	})

	t.Run("長さ0以下はデフォルト長にフォールバックする", func(t *testing.T) {
		code, err := relay.GenerateCode(0)

		require.NoError(t, err)
		assert.Len(t, code, relay.DefaultCodeLength)
	})

	t.Run("連続生成でほぼ衝突しない", func(t *testing.T) {
		seen := make(map[string]struct{})

		for i := 0; i < 1000; i++ {
			code, err := relay.GenerateCode(6)
			require.NoError(t, err)
			seen[code] = struct{}{}
		}

		assert.Greater(t, len(seen), 990)
	})
}
