package diskio_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equocredite/minifs/internal/diskio"
	"github.com/equocredite/minifs/internal/layout"
)

func TestMemDiskStartsAllOxFF(t *testing.T) {
	d := diskio.NewMemDisk(64)
	buf := make([]byte, 64)
	require.NoError(t, d.ReadAt(buf, 0))
	for _, b := range buf {
		require.EqualValues(t, 0xFF, b)
	}
}

func TestMemDiskWriteAtThenReadAtRoundTrips(t *testing.T) {
	d := diskio.NewMemDisk(layout.BlockSize * 2)
	want := []byte("hello, minifs")
	require.NoError(t, d.WriteAt(want, layout.BlockSize))

	got := make([]byte, len(want))
	require.NoError(t, d.ReadAt(got, layout.BlockSize))
	assert.Equal(t, want, got)
}

func TestMemDiskSizeMatchesConstruction(t *testing.T) {
	d := diskio.NewMemDisk(layout.DiskSize)
	assert.Equal(t, int64(layout.DiskSize), d.Size())
}

// Concurrent readers at disjoint offsets must never see bytes from the
// wrong offset — the shared seek cursor behind MemDisk needs to be
// serialized, not just the individual Read/Write calls on it.
func TestMemDiskConcurrentReadsDontTearOnSharedCursor(t *testing.T) {
	d := diskio.NewMemDisk(layout.BlockSize * 8)
	for region := int64(0); region < 8; region++ {
		buf := make([]byte, layout.BlockSize)
		for i := range buf {
			buf[i] = byte(region)
		}
		require.NoError(t, d.WriteAt(buf, region*layout.BlockSize))
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 8*20)
	for iter := 0; iter < 20; iter++ {
		for region := int64(0); region < 8; region++ {
			wg.Add(1)
			go func(region int64) {
				defer wg.Done()
				buf := make([]byte, layout.BlockSize)
				if err := d.ReadAt(buf, region*layout.BlockSize); err != nil {
					errCh <- err
					return
				}
				for _, b := range buf {
					if b != byte(region) {
						errCh <- assert.AnError
						return
					}
				}
			}(region)
		}
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}
}

func TestOpenFileCreatesAndSizesANewImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.img")

	d, existed, err := diskio.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	assert.False(t, existed)
	assert.Equal(t, int64(layout.DiskSize), d.Size())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(layout.DiskSize), info.Size())
}

func TestOpenFileReportsAnExistingImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.img")

	first, _, err := diskio.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, existed, err := diskio.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	assert.True(t, existed)
}

func TestFileDiskWriteAtThenReadAtRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rw.img")
	d, _, err := diskio.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	want := []byte("on-disk bytes")
	require.NoError(t, d.WriteAt(want, 4096))

	got := make([]byte, len(want))
	require.NoError(t, d.ReadAt(got, 4096))
	assert.Equal(t, want, got)
}
