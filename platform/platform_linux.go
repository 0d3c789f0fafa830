// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

//go:build linux

package platform

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"
)

// The kernel keeps 16 bytes per thread name, including the terminator.
const maxThreadNameLen = 15

// SetThreadName names the calling OS thread, truncating name to what the
// kernel can store. Goroutines migrate between threads, so callers should hold
// [runtime.LockOSThread] for as long as the name is meant to apply.
func SetThreadName(name string) error {
	if len(name) > maxThreadNameLen {
		name = name[:maxThreadNameLen]
	}
	p, err := unix.BytePtrFromString(name)
	if err != nil {
		return fmt.Errorf("setting thread name: %w", err)
	}
	if err := unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(p)), 0, 0, 0); err != nil {
		return fmt.Errorf("setting thread name: %w", err)
	}
	return nil
}

// ThreadName returns the name of the calling OS thread.
func ThreadName() (string, error) {
	var buf [maxThreadNameLen + 1]byte
	if err := unix.Prctl(unix.PR_GET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0); err != nil {
		return "", fmt.Errorf("getting thread name: %w", err)
	}
	return unix.ByteSliceToString(buf[:]), nil
}

// TotalRAM returns the size of physical memory in bytes.
func TotalRAM() (uint64, error) {
	info, err := sysinfo()
	if err != nil {
		return 0, err
	}
	return uint64(info.Totalram) * uint64(info.Unit), nil
}

// FreeRAM returns the amount of unused physical memory in bytes.
func FreeRAM() (uint64, error) {
	info, err := sysinfo()
	if err != nil {
		return 0, err
	}
	return uint64(info.Freeram) * uint64(info.Unit), nil
}

// MemUsage returns the resident set size of the process in bytes.
func MemUsage() (uint64, error) {
	statm, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return 0, fmt.Errorf("reading memory usage: %w", err)
	}
	// The second field is the resident page count.
	fields := bytes.Fields(statm)
	if len(fields) < 2 {
		return 0, fmt.Errorf("reading memory usage: malformed statm %q", statm)
	}
	pages, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reading memory usage: %w", err)
	}
	return pages * uint64(unix.Getpagesize()), nil
}

func sysinfo() (*unix.Sysinfo_t, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return nil, fmt.Errorf("sysinfo: %w", err)
	}
	return &info, nil
}
