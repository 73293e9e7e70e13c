package dictionary

import (
	"fmt"
	"sync"
)

// TagSet maps the tag strings of one level to dense indexes.
type TagSet struct {
	mu     sync.RWMutex
	Enum   map[string]int
	Index  []string
	Frozen bool
}

// NewTagSet creates an empty tag set.
func NewTagSet(capacity int) *TagSet {
	return &TagSet{
		Enum:  make(map[string]int, capacity),
		Index: make([]string, 0, capacity),
	}
}

// Add returns the index of tag, adding it if needed. The boolean reports whether
// the tag was new.
func (e *TagSet) Add(tag string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Frozen {
		panic(fmt.Sprintf("Cannot add %q to frozen tag set", tag))
	}
	enum, exists := e.Enum[tag]
	if exists {
		return enum, false
	}
	enum = len(e.Index)
	e.Enum[tag] = enum
	e.Index = append(e.Index, tag)
	return enum, true
}

// Freeze makes every later Add panic. Loaded models freeze their tag sets so
// that shared lookups never change the tag inventory.
func (e *TagSet) Freeze() {
	e.mu.Lock()
	e.Frozen = true
	e.mu.Unlock()
}

// IndexOf returns the index of tag.
func (e *TagSet) IndexOf(tag string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enum, exists := e.Enum[tag]
	return enum, exists
}

// ValueOf returns the tag at index.
func (e *TagSet) ValueOf(index int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if index < 0 || index >= len(e.Index) {
		panic(fmt.Sprintf("Unknown tag index requested: %v of %v", index, len(e.Index)))
	}
	return e.Index[index]
}

func (e *TagSet) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.Index)
}
