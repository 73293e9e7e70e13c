package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"
)

// Dictionary is the word-form table of a model. Every form has a stable index;
// its frequency is the number of times it was observed in training data.
type Dictionary struct {
	Total float64
	Words map[string]int
	Forms []string
	Freqs []float64
}

// NewDictionary creates a new empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Words: make(map[string]int),
	}
}

// Load loads word forms from a file.
// File format: form frequency (space separated). A form without a frequency is
// known to the model but counts as unseen in training.
func (d *Dictionary) Load(path string) (err error) {
	defer essentials.AddCtxTo("load dictionary", &err)

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		freq := 0.0
		if len(parts) >= 2 {
			f, err := strconv.ParseFloat(parts[1], 64)
			if err == nil {
				freq = f
			}
		}
		d.Add(parts[0], freq)
	}
	return scanner.Err()
}

// Save writes the dictionary in the format read by Load, most frequent first.
func (d *Dictionary) Save(path string) (err error) {
	defer essentials.AddCtxTo("save dictionary", &err)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)

	order := make([]int, len(d.Forms))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return d.Freqs[order[i]] > d.Freqs[order[j]]
	})
	for _, idx := range order {
		fmt.Fprintf(writer, "%s %g\n", d.Forms[idx], d.Freqs[idx])
	}
	return writer.Flush()
}

// Add records freq more occurrences of form and returns its index.
func (d *Dictionary) Add(form string, freq float64) int {
	idx, ok := d.Words[form]
	if !ok {
		idx = len(d.Forms)
		d.Words[form] = idx
		d.Forms = append(d.Forms, form)
		d.Freqs = append(d.Freqs, 0)
	}
	d.Freqs[idx] += freq
	d.Total += freq
	return idx
}

// Index returns the index of form, or -1 if the form is unknown.
func (d *Dictionary) Index(form string) int {
	idx, ok := d.Words[form]
	if !ok {
		return -1
	}
	return idx
}

// Count returns the training frequency of the form at index, 0 outside the table.
func (d *Dictionary) Count(index int) float64 {
	if index < 0 || index >= len(d.Freqs) {
		return 0
	}
	return d.Freqs[index]
}

// Size returns the number of forms in the table.
func (d *Dictionary) Size() int {
	return len(d.Forms)
}

// Prune returns a new dictionary holding the forms seen at least minFreq times,
// most frequent first. Indexes are reassigned.
func (d *Dictionary) Prune(minFreq float64) *Dictionary {
	order := make([]int, 0, len(d.Forms))
	for i, f := range d.Freqs {
		if f >= minFreq {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return d.Freqs[order[i]] > d.Freqs[order[j]]
	})
	pruned := NewDictionary()
	for _, idx := range order {
		pruned.Add(d.Forms[idx], d.Freqs[idx])
	}
	return pruned
}
