package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/equocredite/minifs/internal/errs"
)

func TestNewErrorMatchesItsKindViaErrorsIs(t *testing.T) {
	err := errs.New(errs.NoSuchPath)
	assert.True(t, errors.Is(err, errs.NoSuchPath))
	assert.False(t, errors.Is(err, errs.AlreadyExists))
	assert.Equal(t, string(errs.NoSuchPath), err.Error())
}

func TestWithMessageKeepsKindReachable(t *testing.T) {
	err := errs.DirectoryFull.WithMessage("/a/b has no room left")
	assert.True(t, errors.Is(err, errs.DirectoryFull))
	assert.Contains(t, err.Error(), "/a/b has no room left")
}

func TestWrapKeepsBothKindAndCauseReachable(t *testing.T) {
	cause := errors.New("bitmap decode failed")
	err := errs.CorruptedDisk.Wrap(cause)
	assert.True(t, errors.Is(err, errs.CorruptedDisk))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestOnlyCorruptedDiskIsFatal(t *testing.T) {
	assert.True(t, errs.CorruptedDisk.Fatal())
	assert.False(t, errs.NoSuchPath.Fatal())
	assert.False(t, errs.DirectoryFull.Fatal())
}
