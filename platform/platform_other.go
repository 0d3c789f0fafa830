// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

//go:build !linux

package platform

func SetThreadName(name string) error {
	return ErrUnsupported
}

func ThreadName() (string, error) {
	return "", ErrUnsupported
}

func TotalRAM() (uint64, error) {
	return 0, ErrUnsupported
}

func FreeRAM() (uint64, error) {
	return 0, ErrUnsupported
}

func MemUsage() (uint64, error) {
	return 0, ErrUnsupported
}
