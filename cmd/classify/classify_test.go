package classify_test

import (
	"testing"

	"cardlens/cmd/classify"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "classify <mcc>", classify.Cmd.Use)
	assert.Contains(t, classify.Cmd.Short, "Classify")
	assert.NotNil(t, classify.Cmd.Run)
	assert.NotNil(t, classify.Cmd.Args)
}
