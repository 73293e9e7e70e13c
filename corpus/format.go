package corpus

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultFormat reads CoNLL-2009 files: form in column 1, POS in 4, morphology in 6.
const DefaultFormat = "form-index=1,tag-index=4,morph-index=6"

// FeatureSeparator joins auxiliary token features inside their column.
const FeatureSeparator = "#"

// Format names the whitespace separated columns of a tagged corpus file.
type Format struct {
	FormColumn    int
	TagColumns    []int // one column per level, level 0 first
	FeatureColumn int   // -1 when the corpus carries no token features
}

// ParseFormat parses a format string such as "form-index=1,tag-index=4,morph-index=6".
// Keys: form-index, tag-index (level 0), morph-index (level 1), level-index (next
// level), token-feature-index.
func ParseFormat(spec string) (Format, error) {
	f := Format{FormColumn: -1, FeatureColumn: -1}
	tag, morph := -1, -1
	var extra []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return f, fmt.Errorf("format: %q is not key=value", part)
		}
		col, err := strconv.Atoi(value)
		if err != nil || col < 0 {
			return f, fmt.Errorf("format: bad column in %q", part)
		}
		switch key {
		case "form-index":
			f.FormColumn = col
		case "tag-index":
			tag = col
		case "morph-index":
			morph = col
		case "level-index":
			extra = append(extra, col)
		case "token-feature-index":
			f.FeatureColumn = col
		default:
			return f, fmt.Errorf("format: unknown key %q", key)
		}
	}
	if f.FormColumn < 0 {
		return f, fmt.Errorf("format: form-index missing in %q", spec)
	}
	if tag < 0 {
		return f, fmt.Errorf("format: tag-index missing in %q", spec)
	}
	f.TagColumns = append(f.TagColumns, tag)
	if morph >= 0 {
		f.TagColumns = append(f.TagColumns, morph)
	}
	f.TagColumns = append(f.TagColumns, extra...)
	return f, nil
}

// Levels returns the number of tag levels the format carries.
func (f Format) Levels() int {
	return len(f.TagColumns)
}

func (f Format) width() int {
	w := f.FormColumn
	for _, c := range f.TagColumns {
		if c > w {
			w = c
		}
	}
	if f.FeatureColumn > w {
		w = f.FeatureColumn
	}
	return w + 1
}

func (f Format) String() string {
	parts := []string{"form-index=" + strconv.Itoa(f.FormColumn)}
	for level, col := range f.TagColumns {
		key := "level-index"
		switch level {
		case 0:
			key = "tag-index"
		case 1:
			key = "morph-index"
		}
		parts = append(parts, key+"="+strconv.Itoa(col))
	}
	if f.FeatureColumn >= 0 {
		parts = append(parts, "token-feature-index="+strconv.Itoa(f.FeatureColumn))
	}
	return strings.Join(parts, ",")
}
