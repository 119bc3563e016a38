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

package page

import (
	"strings"
	"testing"
	"time"

	"github.com/phuonguno98/fatupload/internal/storage"
)

func TestRender(t *testing.T) {
	tmpl := "Free: %FREEFATFS% | Used: %USEDFATFS% | Total: %TOTALFATFS%\n<p>%FILELIST%</p>"

	v := StorageValues(storage.Stats{Free: 2048, Used: 1024, Total: 3072})
	v.FileList = "<table></table>"

	got := Render(tmpl, v)
	want := "Free: 2.0 KiB | Used: 1.0 KiB | Total: 3.0 KiB\n<p><table></table></p>"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_Unavailable(t *testing.T) {
	got := Render("%FREEFATFS%/%USEDFATFS%/%TOTALFATFS%%FILELIST%", UnavailableValues())
	if got != "N/A/N/A/N/A" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_EscapesFigures(t *testing.T) {
	got := Render("%FREEFATFS%", Values{Free: "<b>"})
	if got != "&lt;b&gt;" {
		t.Errorf("Render() = %q, want escaped figure", got)
	}
}

func TestRenderFileList(t *testing.T) {
	mod := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	files := []storage.FileEntry{
		{Name: "firmware.bin", Size: 1536, ModTime: mod},
		{Name: "<script>.txt", Size: 10, ModTime: mod},
	}

	html, err := RenderFileList(files)
	if err != nil {
		t.Fatalf("RenderFileList() error = %v", err)
	}
	out := string(html)

	for _, want := range []string{
		`<a href="/download/firmware.bin">firmware.bin</a>`,
		"1.5 KiB",
		"2026-03-01 12:30",
		"&lt;script&gt;.txt",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderFileList() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("RenderFileList() did not escape file name")
	}
}

func TestRenderFileList_Empty(t *testing.T) {
	html, err := RenderFileList(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "No files stored.") {
		t.Errorf("RenderFileList(nil) = %q", html)
	}
}
