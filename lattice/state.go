package lattice

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLevels is the deepest tag stack a State can carry.
const MaxLevels = 4

// BoundaryTag marks the sentence boundary at every level of the boundary state.
const BoundaryTag = -1

// State is one lattice node: the tag index chosen at every level for one position.
// Level 0 is the coarsest tag (part of speech), level Levels-1 the finest.
type State struct {
	Tags   [MaxLevels]int
	Levels int
}

// NewState builds a state from per-level tag indexes.
func NewState(tags ...int) State {
	if len(tags) > MaxLevels {
		panic(fmt.Sprintf("lattice: %d levels exceed MaxLevels=%d", len(tags), MaxLevels))
	}
	var s State
	copy(s.Tags[:], tags)
	s.Levels = len(tags)
	return s
}

// BoundaryState returns the state that precedes position 0, with levels 0..level
// all set to BoundaryTag.
func BoundaryState(level int) State {
	s := State{Levels: level + 1}
	for l := 0; l <= level; l++ {
		s.Tags[l] = BoundaryTag
	}
	return s
}

// Tag returns the tag index at the given level.
func (s State) Tag(level int) int {
	return s.Tags[level]
}

// SubLevel returns the state truncated to the levels below this one's top level.
// The sub level of a single-level state has zero levels.
func (s State) SubLevel() State {
	if s.Levels == 0 {
		return s
	}
	sub := s
	sub.Levels--
	sub.Tags[sub.Levels] = 0
	return sub
}

// Extend returns a copy of the state with one more level holding tag.
func (s State) Extend(tag int) State {
	if s.Levels >= MaxLevels {
		panic("lattice: state is already MaxLevels deep")
	}
	ext := s
	ext.Tags[ext.Levels] = tag
	ext.Levels++
	return ext
}

// Slice returns the tag indexes as a fresh slice.
func (s State) Slice() []int {
	out := make([]int, s.Levels)
	copy(out, s.Tags[:s.Levels])
	return out
}

// Matches reports whether the state carries exactly the given per-level tags.
func (s State) Matches(tags []int) bool {
	if len(tags) != s.Levels {
		return false
	}
	for l, t := range tags {
		if s.Tags[l] != t {
			return false
		}
	}
	return true
}

func (s State) String() string {
	parts := make([]string, s.Levels)
	for l := 0; l < s.Levels; l++ {
		if s.Tags[l] == BoundaryTag {
			parts[l] = "-"
		} else {
			parts[l] = strconv.Itoa(s.Tags[l])
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
