package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/session"
)

func TestNewStartsAtRootForTheGivenUser(t *testing.T) {
	sess := session.New(7)
	assert.EqualValues(t, 7, sess.UserID)
	assert.Equal(t, int32(layout.RootInodeID), sess.WorkDir)
}

func TestSessionsAreIndependent(t *testing.T) {
	a := session.New(1)
	b := session.New(2)
	a.WorkDir = 5

	assert.NotEqual(t, a.WorkDir, b.WorkDir)
	assert.NotEqual(t, a.UserID, b.UserID)
}
