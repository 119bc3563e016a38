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

// Package page fills the placeholder tokens of the upload page.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/phuonguno98/fatupload/internal/storage"
)

// Placeholder tokens understood by Render.
const (
	TokenFree     = "%FREEFATFS%"
	TokenUsed     = "%USEDFATFS%"
	TokenTotal    = "%TOTALFATFS%"
	TokenFileList = "%FILELIST%"
)

// Unavailable is shown in place of storage figures that could not be read.
const Unavailable = "N/A"

// Values are the substitutions for one page render.
type Values struct {
	Free     string
	Used     string
	Total    string
	FileList template.HTML
}

// StorageValues formats volume figures in IEC units.
func StorageValues(stats storage.Stats) Values {
	return Values{
		Free:  humanize.IBytes(stats.Free),
		Used:  humanize.IBytes(stats.Used),
		Total: humanize.IBytes(stats.Total),
	}
}

// UnavailableValues is used when the volume cannot be queried.
func UnavailableValues() Values {
	return Values{Free: Unavailable, Used: Unavailable, Total: Unavailable}
}

// Render replaces every placeholder token in tmpl. Storage figures are HTML
// escaped, the file list is inserted as is.
func Render(tmpl string, v Values) string {
	r := strings.NewReplacer(
		TokenFree, template.HTMLEscapeString(v.Free),
		TokenUsed, template.HTMLEscapeString(v.Used),
		TokenTotal, template.HTMLEscapeString(v.Total),
		TokenFileList, string(v.FileList),
	)
	return r.Replace(tmpl)
}

var fileListTmpl = template.Must(template.New("filelist").Funcs(template.FuncMap{
	"size":     func(n int64) string { return humanize.IBytes(uint64(n)) },
	"download": func(name string) string { return "/download/" + url.PathEscape(name) },
}).Parse(`{{if .}}<table id="files">
<tr><th>Name</th><th>Size</th><th>Modified</th></tr>
{{range .}}<tr><td><a href="{{download .Name}}">{{.Name}}</a></td><td>{{size .Size}}</td><td>{{.ModTime.Format "2006-01-02 15:04"}}</td></tr>
{{end}}</table>{{else}}<em>No files stored.</em>{{end}}`))

// RenderFileList renders the stored files as an HTML table.
func RenderFileList(files []storage.FileEntry) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fileListTmpl.Execute(&buf, files); err != nil {
		return "", fmt.Errorf("failed to render file list: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
