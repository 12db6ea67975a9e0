package atlas

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrInvalidFormat = errors.New("invalid description format")
	// ErrMalformed 表示描述文件无法被任何格式解析。
	ErrMalformed = errors.New("failed to parse description file")
)

// Format 是描述文件的格式。
type Format uint8

const (
	FormatJSON Format = iota
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	}
	return fmt.Sprintf("Format(%d)", f)
}

// ParseFormat 解析格式名称（不区分大小写），空字符串为 JSON。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	}
	return 0, fmt.Errorf("%w: '%s'", ErrInvalidFormat, s)
}

// Extension 返回描述文件的扩展名，不含点。
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return "json"
}

// Formatter 返回该格式对应的读写器。
func (f Format) Formatter() Formatter {
	if f == FormatText {
		return TextFormatter{}
	}
	return JSONFormatter{}
}

// Formatter 负责描述文件的读写。
type Formatter interface {
	Write(w io.Writer, pages []Page) error
	Parse(data []byte) ([]Page, error)
}

// JSONFormatter 单页输出为对象，多页输出为数组。
type JSONFormatter struct{}

func (JSONFormatter) Write(w io.Writer, pages []Page) error {
	var v any = pages
	if len(pages) == 1 {
		v = pages[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (JSONFormatter) Parse(data []byte) ([]Page, error) {
	var page Page
	if err := json.Unmarshal(data, &page); err == nil {
		return []Page{page}, nil
	}
	var pages []Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return pages, nil
}

const textHeader = "# page <name> <width> <height>\n" +
	"# region <name> <x> <y> <width> <height> [<rotated> <original_width> <original_height>]\n"

// TextFormatter 每行一个页面或区域，名称带引号。
type TextFormatter struct{}

func (TextFormatter) Write(w io.Writer, pages []Page) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(textHeader)
	for _, page := range pages {
		fmt.Fprintf(bw, "page %s %d %d\n", strconv.Quote(page.Texture), page.Width, page.Height)
		for _, r := range page.Regions {
			fmt.Fprintf(bw, "region %s %d %d %d %d", strconv.Quote(r.Name), r.X, r.Y, r.Width, r.Height)
			if e := r.RegionExtra; e != nil {
				rotated := 0
				if e.Rotated {
					rotated = 1
				}
				fmt.Fprintf(bw, " %d %d %d", rotated, e.OriginalWidth, e.OriginalHeight)
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func (TextFormatter) Parse(data []byte) ([]Page, error) {
	var pages []Page
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keyword, rest, _ := strings.Cut(line, " ")
		name, values, err := splitQuoted(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, n, err)
		}
		switch keyword {
		case "page":
			if len(values) != 2 {
				return nil, fmt.Errorf("%w: line %d: expected 2 values, got %d", ErrMalformed, n, len(values))
			}
			pages = append(pages, Page{Texture: name, Width: values[0], Height: values[1]})
		case "region":
			if len(pages) == 0 {
				return nil, fmt.Errorf("%w: line %d: region outside of a page", ErrMalformed, n)
			}
			if len(values) != 4 && len(values) != 7 {
				return nil, fmt.Errorf("%w: line %d: expected 4 or 7 values, got %d", ErrMalformed, n, len(values))
			}
			r := Region{Name: name, X: values[0], Y: values[1], Width: values[2], Height: values[3]}
			if len(values) == 7 {
				r.RegionExtra = &RegionExtra{
					Rotated:        values[4] != 0,
					OriginalWidth:  values[5],
					OriginalHeight: values[6],
				}
			}
			page := &pages[len(pages)-1]
			page.Regions = append(page.Regions, r)
		default:
			return nil, fmt.Errorf("%w: line %d: unknown entry '%s'", ErrMalformed, n, keyword)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrMalformed)
	}
	return pages, nil
}

// splitQuoted 拆分出带引号的名称和其后的非负整数。
func splitQuoted(s string) (string, []int, error) {
	quoted, err := strconv.QuotedPrefix(s)
	if err != nil {
		return "", nil, fmt.Errorf("invalid name in '%s'", s)
	}
	name, err := strconv.Unquote(quoted)
	if err != nil {
		return "", nil, err
	}
	fields := strings.Fields(s[len(quoted):])
	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return "", nil, fmt.Errorf("invalid value '%s'", f)
		}
		values[i] = int(v)
	}
	return name, values, nil
}

// Read 依次尝试 JSON 和文本格式解析描述文件。
func Read(data []byte) ([]Page, error) {
	if pages, err := (JSONFormatter{}).Parse(data); err == nil {
		return pages, nil
	}
	pages, err := TextFormatter{}.Parse(data)
	if err != nil {
		return nil, ErrMalformed
	}
	return pages, nil
}
