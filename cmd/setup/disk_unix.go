// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package main

import (
	"syscall"
)

// getFreeDiskSpace returns the free space in bytes at path.
func getFreeDiskSpace(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}
	// Bavail counts blocks available to unprivileged users, which is
	// what matters for a per-user config directory.
	return stat.Bavail * uint64(stat.Bsize), nil
}
