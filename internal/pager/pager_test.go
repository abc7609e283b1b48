package pager

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenEmptyFileHasZeroPages(t *testing.T) {
	fs := afero.NewMemMapFs()
	p, err := Open(fs, "test.db", nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 0, p.NumPages())
}

func TestOpenRejectsCorruptFileLength(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.db", make([]byte, PageSize+1), 0o600))

	_, err := Open(fs, "bad.db", nil)
	assert.ErrorIs(t, err, ErrCorruptFile)
}

func TestAllocateGetRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	p, err := Open(fs, "test.db", nil)
	require.NoError(t, err)
	defer p.Close()

	pageNum, err := p.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), pageNum)

	page, err := p.GetMut(pageNum)
	require.NoError(t, err)
	page.Data[0] = 0xAB

	reloaded, err := p.Get(pageNum)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), reloaded.Data[0])
}

func TestGetOutOfBoundsFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	p, err := Open(fs, "test.db", nil)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Get(0)
	assert.Error(t, err)
}

func TestAllocatePageFailsAtCapacity(t *testing.T) {
	fs := afero.NewMemMapFs()
	p, err := Open(fs, "test.db", nil)
	require.NoError(t, err)
	defer p.Close()

	for i := 0; i < MaxPages; i++ {
		_, err := p.AllocatePage()
		require.NoError(t, err)
	}
	_, err = p.AllocatePage()
	assert.ErrorIs(t, err, ErrPagerFull)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	fs := afero.NewMemMapFs()
	p, err := Open(fs, "test.db", nil)
	require.NoError(t, err)

	pageNum, err := p.AllocatePage()
	require.NoError(t, err)
	page, err := p.GetMut(pageNum)
	require.NoError(t, err)
	page.Data[10] = 0x42
	require.NoError(t, p.Close())

	reopened, err := Open(fs, "test.db", nil)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.NumPages())
	reread, err := reopened.Get(0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), reread.Data[10])
}

func TestUnflushedPageNotMarkedDirtyTwice(t *testing.T) {
	fs := afero.NewMemMapFs()
	p, err := Open(fs, "test.db", nil)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.AllocatePage()
	require.NoError(t, err)
	require.NoError(t, p.FlushAll())
	assert.False(t, p.pages[0].dirty)
	require.NoError(t, p.FlushAll())
}
