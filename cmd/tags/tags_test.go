package tags_test

import (
	"testing"

	"cardlens/cmd/tags"

	"github.com/stretchr/testify/assert"
)

func TestTagsCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "tags", tags.Cmd.Use)
	assert.Contains(t, tags.Cmd.Short, "tags")
}

func TestTagsCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range tags.Cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["load"])
	assert.True(t, names["clear"])
}

func TestTagsLoadCommand_RequiresFile(t *testing.T) {
	load, _, err := tags.Cmd.Find([]string{"load"})
	assert.NoError(t, err)
	assert.NotNil(t, load.Flags().Lookup("file"))
}
