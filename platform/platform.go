// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package platform wraps the process, environment and filesystem facilities
// that differ between operating systems behind one portable set of functions.
// Everything OS-specific lives in the build-tagged files of this package.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrUnsupported is returned by functions that have no implementation on the
// current operating system.
const ErrUnsupported = constError("not supported on this platform")

// UnknownUser is returned by [UserName] when no user can be determined.
const UnknownUser = "unknown_user"

// PID returns the process id of the caller.
func PID() int {
	return os.Getpid()
}

// UserName returns the login name of the current user, taken from LOGNAME or,
// failing that, USER.
func UserName() string {
	for _, name := range []string{"LOGNAME", "USER"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return UnknownUser
}

// ExePath returns the absolute path of the running executable with symbolic
// links resolved.
func ExePath() (string, error) {
	p, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return p, nil
}

// ExeName returns the file name of the running executable.
func ExeName() (string, error) {
	p, err := ExePath()
	if err != nil {
		return "", err
	}
	return filepath.Base(p), nil
}

// ExeDir returns the directory containing the running executable.
func ExeDir() (string, error) {
	p, err := ExePath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// CurrentDir returns the working directory.
func CurrentDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return dir, nil
}

// ChangeDir changes the working directory of the whole process.
func ChangeDir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("changing directory: %w", err)
	}
	return nil
}

// Getenv returns the value of the named environment variable, or "" if it is
// not set.
func Getenv(name string) string {
	return os.Getenv(name)
}

// Setenv sets the named environment variable, replacing any existing value.
func Setenv(name, value string) error {
	if err := os.Setenv(name, value); err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	return nil
}

// CreateDirectory creates dir along with any missing parents. It succeeds if
// dir already exists.
func CreateDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
