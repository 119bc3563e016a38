/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Volume represents a mounted file system that can hold the upload directory.
type Volume struct {
	Device     string
	Mountpoint string
	Filesystem string
	Total      uint64
	Free       uint64
}

// ListVolumes returns the mounted volumes with their capacity.
func ListVolumes() ([]Volume, error) {
	partitions, err := diskPartitions(false)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk partitions: %w", err)
	}

	volumes := make([]Volume, 0, len(partitions))
	seen := make(map[string]bool)

	for _, partition := range partitions {
		if seen[partition.Device] {
			continue
		}
		seen[partition.Device] = true

		v := Volume{
			Device:     partition.Device,
			Mountpoint: partition.Mountpoint,
			Filesystem: partition.Fstype,
		}

		// Unreadable mounts are still listed, with zero capacity
		if usage, err := diskUsage(partition.Mountpoint); err == nil {
			v.Total = usage.Total
			v.Free = usage.Free
		}

		volumes = append(volumes, v)
	}

	sort.Slice(volumes, func(i, j int) bool {
		return volumes[i].Device < volumes[j].Device
	})

	return volumes, nil
}

// FormatVolumesTable formats volume information as a table.
func FormatVolumesTable(volumes []Volume) string {
	var sb strings.Builder

	sb.WriteString("\nAvailable Volumes:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-26s %-20s %-10s %10s %10s\n", "DEVICE", "MOUNTPOINT", "FILESYSTEM", "SIZE", "FREE"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, v := range volumes {
		sb.WriteString(fmt.Sprintf("%-26s %-20s %-10s %10s %10s\n",
			truncate(v.Device, 26),
			truncate(v.Mountpoint, 20),
			truncate(v.Filesystem, 10),
			humanize.IBytes(v.Total),
			humanize.IBytes(v.Free),
		))
	}

	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")

	return sb.String()
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
