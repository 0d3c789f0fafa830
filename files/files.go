// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package files locates modules and data files on the search path and loads
// their contents.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drzo/opencog-cogutil/platform"
)

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrNotFound is returned by [FindFile] when no search path holds the file.
const ErrNotFound = constError("file not found")

// ModulePathsEnv names the environment variable whose entries [ModulePaths]
// appends to the defaults. Entries are separated by [os.PathListSeparator].
const ModulePathsEnv = "OPENCOG_MODULE_PATHS"

const userPlaceholder = "$USER"

// Install locations searched after the working-directory ancestors.
const (
	InstallPrefix = "/usr/local"
	DataDir       = InstallPrefix + "/share/opencog"
)

// DefaultModulePaths lists the directories searched for modules and data
// files, most specific first. The relative entries let uninstalled builds and
// test binaries find files in their source tree.
var DefaultModulePaths = []string{
	"./",
	"../",
	"../../",
	"../../../",
	"../../../../",
	InstallPrefix + "/lib",
	InstallPrefix + "/share",
	DataDir,
	"/usr/local/lib64/",
	"/usr/local/lib/",
	"/usr/local/share/",
	"/usr/lib64/",
	"/usr/lib/",
	"/usr/share/",
	"/opt/",
	"/",
}

// ModulePaths returns [DefaultModulePaths] followed by any entries of the
// [ModulePathsEnv] environment variable. Empty entries are skipped.
func ModulePaths() []string {
	paths := append([]string(nil), DefaultModulePaths...)
	for _, p := range filepath.SplitList(platform.Getenv(ModulePathsEnv)) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// NormalizePath converts forward slashes in path to the separator of the
// current operating system.
func NormalizePath(path string) string {
	return filepath.FromSlash(path)
}

// ExpandPath normalizes path and replaces the first occurrence of "$USER" with
// the current user name.
func ExpandPath(path string) string {
	path = NormalizePath(path)
	return strings.Replace(path, userPlaceholder, platform.UserName(), 1)
}

// FileExists reports whether name is a regular file that can be opened for
// reading.
func FileExists(name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	return err == nil && info.Mode().IsRegular()
}

// LoadTextFile returns the contents of the named file.
func LoadTextFile(name string) (string, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("loading text file: %w", err)
	}
	return string(b), nil
}

// FindFile returns the first path formed by joining an entry of searchPaths
// with name that refers to a readable regular file. An absolute name is
// checked as is.
func FindFile(name string, searchPaths []string) (string, error) {
	name = ExpandPath(name)
	if filepath.IsAbs(name) {
		if FileExists(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, dir := range searchPaths {
		p := filepath.Join(ExpandPath(dir), name)
		if FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}
