package cashback_test

import (
	"testing"

	"cardlens/cmd/cashback"

	"github.com/stretchr/testify/assert"
)

func TestCashbackCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "cashback", cashback.Cmd.Use)
	assert.Contains(t, cashback.Cmd.Short, "cashback")
	assert.NotNil(t, cashback.Cmd.Run)
}

func TestCashbackCommand_Flags(t *testing.T) {
	for _, name := range []string{"week", "gno", "og"} {
		assert.NotNil(t, cashback.Cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}
