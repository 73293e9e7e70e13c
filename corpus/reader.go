package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"
)

// LineIterator yields the whitespace separated fields of each line of a reader.
type LineIterator struct {
	scanner *bufio.Scanner
	fields  []string
	line    int
}

// NewLineIterator wraps r.
func NewLineIterator(r io.Reader) *LineIterator {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)
	return &LineIterator{scanner: scanner}
}

// Next advances to the next line. It returns false at the end of input or on error.
func (it *LineIterator) Next() bool {
	if !it.scanner.Scan() {
		return false
	}
	it.line++
	it.fields = strings.Fields(it.scanner.Text())
	return true
}

// Fields returns the non-empty fields of the current line.
func (it *LineIterator) Fields() []string {
	return it.fields
}

// Line returns the 1-based number of the current line.
func (it *LineIterator) Line() int {
	return it.line
}

func (it *LineIterator) Err() error {
	return it.scanner.Err()
}

// Read reads sentences in the given column format. Sentences are separated by
// blank lines; lines starting with '#' are comments.
func Read(r io.Reader, f Format) ([]Sentence, error) {
	var (
		data    []Sentence
		current Sentence
	)
	width := f.width()
	it := NewLineIterator(r)
	for it.Next() {
		fields := it.Fields()
		if len(fields) == 0 {
			if len(current) > 0 {
				data = append(data, current)
				current = nil
			}
			continue
		}
		if strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < width {
			return nil, fmt.Errorf("line %d: %d columns, format needs %d", it.Line(), len(fields), width)
		}
		word := NewWord(fields[f.FormColumn])
		for _, col := range f.TagColumns {
			word.Tags = append(word.Tags, fields[col])
		}
		if f.FeatureColumn >= 0 && fields[f.FeatureColumn] != "_" {
			word.Features = strings.Split(fields[f.FeatureColumn], FeatureSeparator)
		}
		current = append(current, word)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		data = append(data, current)
	}
	return data, nil
}

// ReadFile reads a tagged corpus file.
func ReadFile(path string, f Format) (data []Sentence, err error) {
	defer essentials.AddCtxTo("read corpus "+path, &err)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, f)
}

// Write writes sentences in the given column format. Unused columns hold "_",
// column 0 holds the 1-based token number when it is not the form column.
func Write(w io.Writer, sentences []Sentence, f Format) error {
	writer := bufio.NewWriter(w)
	width := f.width()
	for _, s := range sentences {
		for i, word := range s {
			cols := make([]string, width)
			for c := range cols {
				cols[c] = "_"
			}
			if f.FormColumn != 0 {
				cols[0] = strconv.Itoa(i + 1)
			}
			cols[f.FormColumn] = word.Form
			for level, col := range f.TagColumns {
				if level < len(word.Tags) && word.Tags[level] != "" {
					cols[col] = word.Tags[level]
				}
			}
			if f.FeatureColumn >= 0 && len(word.Features) > 0 {
				cols[f.FeatureColumn] = strings.Join(word.Features, FeatureSeparator)
			}
			fmt.Fprintln(writer, strings.Join(cols, "\t"))
		}
		fmt.Fprintln(writer)
	}
	return writer.Flush()
}

// WriteFile writes sentences to path.
func WriteFile(path string, sentences []Sentence, f Format) (err error) {
	defer essentials.AddCtxTo("write corpus "+path, &err)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, sentences, f)
}
