package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShareURL(t *testing.T) {
	code, pwd, err := ParseShareURL("https://115.com/s/swabc123?password=a1b2#")
	require.NoError(t, err)
	assert.Equal(t, "swabc123", code)
	assert.Equal(t, "a1b2", pwd)

	code, pwd, err = ParseShareURL("https://115.com/s/swxyz789")
	require.NoError(t, err)
	assert.Equal(t, "swxyz789", code)
	assert.Empty(t, pwd)
}

func TestParseShareURLRejectsGarbage(t *testing.T) {
	_, _, err := ParseShareURL("")
	assert.Error(t, err)

	_, _, err = ParseShareURL("https://example.com/download/abc")
	assert.Error(t, err)
}

func TestShareFileID(t *testing.T) {
	assert.Equal(t, "f1", ShareFile{FileID: "f1", CatID: "c1"}.ID())
	assert.Equal(t, "c1", ShareFile{CatID: "c1"}.ID())
}
