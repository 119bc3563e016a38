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

package commands

import (
	"fmt"
	"os"

	"github.com/phuonguno98/fatupload/internal/storage"
	"github.com/spf13/cobra"
)

var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "List mounted volumes that can hold the upload directory",
	Long: `List mounted volumes with their size and free space.
This helps to pick a --upload-dir for 'fatupload serve'.

Examples:
  # List all volumes
  fatupload volumes

  # Serve from the volume mounted at /media/sdcard
  fatupload serve --upload-dir /media/sdcard/uploads`,
	RunE: runVolumes,
}

func init() {
	rootCmd.AddCommand(volumesCmd)
}

func runVolumes(_ *cobra.Command, _ []string) error {
	volumes, err := storage.ListVolumes()
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error listing volumes: %v\n", err)
		return err
	case len(volumes) == 0:
		fmt.Println("\nNo volumes found.")
	default:
		fmt.Print(storage.FormatVolumesTable(volumes))
	}

	return nil
}
