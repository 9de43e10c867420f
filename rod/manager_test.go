package rod_test

import (
	"testing"

	"github.com/fwojciec/linktext"
	"github.com/fwojciec/linktext/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_DoesNotLaunchUntilUsed(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()

	assert.False(t, manager.Launched())
	assert.Zero(t, manager.LauncherPID())
	require.NoError(t, manager.Close())
}

func TestBrowserManager_BrowserAfterClose(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()
	require.NoError(t, manager.Close())

	_, err := manager.Browser()

	require.Error(t, err)
	assert.Equal(t, linktext.EINVALID, linktext.ErrorCode(err))
	assert.False(t, manager.Launched())
}

func TestBrowserManager_CloseIdempotent(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
}
