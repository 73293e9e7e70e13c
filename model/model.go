package model

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/teatak/mtag/dictionary"
	"github.com/teatak/mtag/lattice"
	"github.com/unixpickle/essentials"
)

// Model is a multi-level feature-weight tagger.
type Model struct {
	Levels int
	Order  int // 0 scores positions independently, 1 adds tag transitions
	Beam   int

	Words *dictionary.Dictionary
	Tags  []*dictionary.TagSet

	// Allowed[level][parent] lists the tags seen under tag parent of level-1.
	Allowed []map[int][]int
	// Feats[level][feature][tag] = weight
	Feats []map[string]map[int]float64
	// Trans[level][[2]int{from, to}] = weight; from is lattice.BoundaryTag at sentence start.
	Trans []map[[2]int]float64
}

// NewModel creates an empty model.
func NewModel(levels, order, beam int) *Model {
	m := &Model{
		Order: order,
		Beam:  beam,
		Words: dictionary.NewDictionary(),
	}
	m.setLevels(levels)
	return m
}

func (m *Model) setLevels(levels int) {
	m.Levels = levels
	m.Tags = make([]*dictionary.TagSet, levels)
	m.Allowed = make([]map[int][]int, levels)
	m.Feats = make([]map[string]map[int]float64, levels)
	m.Trans = make([]map[[2]int]float64, levels)
	for l := 0; l < levels; l++ {
		m.Tags[l] = dictionary.NewTagSet(64)
		m.Allowed[l] = make(map[int][]int)
		m.Feats[l] = make(map[string]map[int]float64)
		m.Trans[l] = make(map[[2]int]float64)
	}
}

// Allow records that tag child of level follows tag parent of level-1.
func (m *Model) Allow(level, parent, child int) {
	for _, c := range m.Allowed[level][parent] {
		if c == child {
			return
		}
	}
	m.Allowed[level][parent] = append(m.Allowed[level][parent], child)
	sort.Ints(m.Allowed[level][parent])
}

// UpdateFeat updates a feature weight.
func (m *Model) UpdateFeat(level int, feat string, tag int, delta float64) {
	feats := m.Feats[level]
	if feats[feat] == nil {
		feats[feat] = make(map[int]float64)
	}
	feats[feat][tag] += delta
	if feats[feat][tag] == 0 {
		delete(feats[feat], tag)
		if len(feats[feat]) == 0 {
			delete(feats, feat)
		}
	}
}

// UpdateTrans updates a transition weight.
func (m *Model) UpdateTrans(level, from, to int, delta float64) {
	key := [2]int{from, to}
	m.Trans[level][key] += delta
	if m.Trans[level][key] == 0 {
		delete(m.Trans[level], key)
	}
}

// Load loads a text model.
// Format lines:
// L levels | O order | B beam
// G level tag
// W form count
// A level parent child
// F level feature tag weight
// T level from to weight ("-" is the sentence boundary)
func (m *Model) Load(path string) (err error) {
	defer essentials.AddCtxTo("load model", &err)

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := m.parseLine(strings.Fields(line)); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if m.Levels == 0 {
		return fmt.Errorf("%s: no L record", path)
	}
	for _, set := range m.Tags {
		set.Freeze()
	}
	return nil
}

func (m *Model) parseLine(parts []string) error {
	kind := parts[0]
	ints := func(from, n int) ([]int, error) {
		if len(parts) < from+n {
			return nil, fmt.Errorf("%s record needs %d fields", kind, from+n)
		}
		out := make([]int, n)
		for i := range out {
			if parts[from+i] == "-" {
				out[i] = lattice.BoundaryTag
				continue
			}
			v, err := strconv.Atoi(parts[from+i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	level := func() (int, error) {
		v, err := ints(1, 1)
		if err != nil {
			return 0, err
		}
		if v[0] < 0 || v[0] >= m.Levels {
			return 0, fmt.Errorf("level %d outside [0,%d)", v[0], m.Levels)
		}
		return v[0], nil
	}
	weight := func(i int) (float64, error) {
		if len(parts) <= i {
			return 0, fmt.Errorf("%s record needs %d fields", kind, i+1)
		}
		return strconv.ParseFloat(parts[i], 64)
	}

	switch kind {
	case "L":
		v, err := ints(1, 1)
		if err != nil {
			return err
		}
		if v[0] < 1 || v[0] > lattice.MaxLevels {
			return fmt.Errorf("levels %d outside [1,%d]", v[0], lattice.MaxLevels)
		}
		m.setLevels(v[0])
	case "O", "B":
		v, err := ints(1, 1)
		if err != nil {
			return err
		}
		if kind == "O" {
			m.Order = v[0]
		} else {
			m.Beam = v[0]
		}
	case "W":
		if len(parts) < 3 {
			return fmt.Errorf("W record needs 3 fields")
		}
		count, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return err
		}
		m.Words.Add(parts[1], count)
	case "G":
		l, err := level()
		if err != nil {
			return err
		}
		if len(parts) < 3 {
			return fmt.Errorf("G record needs 3 fields")
		}
		m.Tags[l].Add(parts[2])
	case "A":
		l, err := level()
		if err != nil {
			return err
		}
		v, err := ints(2, 2)
		if err != nil {
			return err
		}
		m.Allow(l, v[0], v[1])
	case "F":
		l, err := level()
		if err != nil {
			return err
		}
		v, err := ints(3, 1)
		if err != nil {
			return err
		}
		w, err := weight(4)
		if err != nil {
			return err
		}
		m.UpdateFeat(l, parts[2], v[0], w)
	case "T":
		l, err := level()
		if err != nil {
			return err
		}
		v, err := ints(2, 2)
		if err != nil {
			return err
		}
		w, err := weight(4)
		if err != nil {
			return err
		}
		m.UpdateTrans(l, v[0], v[1], w)
	}
	return nil
}

// Save saves the model to a file.
func (m *Model) Save(path string) (err error) {
	defer essentials.AddCtxTo("save model", &err)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "L %d\nO %d\nB %d\n", m.Levels, m.Order, m.Beam)
	for l, tags := range m.Tags {
		for i := 0; i < tags.Len(); i++ {
			fmt.Fprintf(writer, "G %d %s\n", l, tags.ValueOf(i))
		}
	}
	for i, form := range m.Words.Forms {
		fmt.Fprintf(writer, "W %s %g\n", form, m.Words.Freqs[i])
	}
	for l, allowed := range m.Allowed {
		for _, parent := range sortedKeys(allowed) {
			for _, child := range allowed[parent] {
				fmt.Fprintf(writer, "A %d %d %d\n", l, parent, child)
			}
		}
	}
	for l, feats := range m.Feats {
		for feat, weights := range feats {
			for tag, w := range weights {
				if w != 0 {
					fmt.Fprintf(writer, "F %d %s %d %g\n", l, feat, tag, w)
				}
			}
		}
	}
	for l, trans := range m.Trans {
		for key, w := range trans {
			if w != 0 {
				fmt.Fprintf(writer, "T %d %s %s %g\n", l, tagStr(key[0]), tagStr(key[1]), w)
			}
		}
	}
	return writer.Flush()
}

func tagStr(t int) string {
	if t == lattice.BoundaryTag {
		return "-"
	}
	return strconv.Itoa(t)
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
