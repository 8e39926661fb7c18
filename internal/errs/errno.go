// Package errs defines the closed set of error kinds MiniFS's engine layer
// can return, following the shape of the teacher's errors/errno.go: a small
// string-backed error type with named constants, each wrappable with extra
// context via WithMessage/Wrap.
package errs

import "fmt"

// Kind is a MiniFS error kind: one of the recoverable reasons a verb can
// fail, or the one fatal kind (CorruptedDisk).
type Kind string

const (
	// NoSuchPath is returned when a path component doesn't resolve, or
	// resolves to an inode the caller does not own and isn't world-visible.
	NoSuchPath = Kind("no such file or directory")
	// NotADirectory is returned when an operation requiring a directory is
	// given a regular file.
	NotADirectory = Kind("not a directory")
	// NotARegularFile is returned when an operation requiring a regular file
	// is given a directory.
	NotARegularFile = Kind("not a regular file")
	// AlreadyExists is returned when a create or move target name is taken.
	AlreadyExists = Kind("already exists")
	// NoSpaceInodes is returned when the inode bitmap has no free slots.
	NoSpaceInodes = Kind("no free inodes")
	// NoSpaceBlocks is returned when the block bitmap has no free slots.
	NoSpaceBlocks = Kind("no free blocks")
	// DirectoryFull is returned when a directory has no room for another
	// entry within layout.MaxFileSize (every direct block in use and full).
	DirectoryFull = Kind("directory full")
	// FileTooBig is returned when a write would grow a file past
	// layout.MaxFileSize.
	FileTooBig = Kind("file too big")
	// PermissionDenied names a target owned by a different, non-zero user
	// id. No engine path returns it: such a target is reported as
	// NoSuchPath.
	PermissionDenied = Kind("permission denied")
	// RefuseRoot is returned when an operation tries to remove or move the
	// root inode.
	RefuseRoot = Kind("refusing to operate on root")
	// CorruptedDisk is fatal: the superblock magic doesn't match, or an
	// allocator invariant (double-free) was violated.
	CorruptedDisk = Kind("disk image corrupted")
	// Protocol is returned for a malformed client message.
	Protocol = Kind("protocol error")
)

func (k Kind) Error() string {
	return string(k)
}

// WithMessage attaches additional context to a Kind, keeping the Kind
// reachable via errors.Is.
func (k Kind) WithMessage(message string) *Error {
	return &Error{kind: k, message: fmt.Sprintf("%s: %s", k, message)}
}

// Wrap attaches an underlying error to a Kind, keeping both reachable via
// errors.Is/errors.As.
func (k Kind) Wrap(cause error) *Error {
	return &Error{kind: k, message: fmt.Sprintf("%s: %s", k, cause.Error()), cause: cause}
}

// Fatal reports whether the kind represents unrecoverable engine state.
func (k Kind) Fatal() bool {
	return k == CorruptedDisk
}
