package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperr"
)

const pngURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecodeDataURI(t *testing.T) {
	u, err := DecodeDataURI("image", pngURI)
	require.NoError(t, err)
	assert.Equal(t, "image/png", u.ContentType)
	assert.Equal(t, ".png", u.Ext)
	assert.True(t, strings.HasPrefix(NewKey(u), "recipes/"))
}

func TestDecodeDataURIRejectsBadInput(t *testing.T) {
	for name, input := range map[string]string{
		"no header":   "iVBORw0KGgo=",
		"not image":   "data:text/plain;base64,aGVsbG8=",
		"bad base64":  "data:image/png;base64,@@@",
		"fake image":  "data:image/png;base64,aGVsbG8gd29ybGQ=",
		"empty value": "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDataURI("image", input)
			require.Error(t, err)
			appErr, ok := apperr.As(err)
			require.True(t, ok)
			assert.True(t, appErr.Has("image"))
		})
	}
}

func TestDiskStoreSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStore(root, "/media/")
	u, err := DecodeDataURI("image", pngURI)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "recipes/a.png", u)
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/a.png", url)

	_, err = os.Stat(filepath.Join(root, "recipes", "a.png"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(root, "recipes", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice or a foreign URL is not an error
	assert.NoError(t, store.Delete(context.Background(), url))
	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere/x.png"))
}
