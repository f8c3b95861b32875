package namegen

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

const suffixUpperBound = 9999

var (
	defaultAdjectives = []string{"Swift", "Silent", "Iron", "Shadow", "Crimson", "Storm", "Wild"}
	defaultNouns      = []string{"Wolf", "Falcon", "Tiger", "Eagle", "Raven", "Dragon", "Viper"}
)

// Local composes AdjectiveNounNNNN names from word lists. An empty list is
// replaced by the builtin one for that side only.
type Local struct {
	adjectives []string
	nouns      []string
	intN       func(int) int
}

func NewLocal(adjectives, nouns []string) *Local {
	l := &Local{
		adjectives: cloneWords(adjectives),
		nouns:      cloneWords(nouns),
		intN:       rand.IntN,
	}
	if len(l.adjectives) == 0 {
		l.adjectives = defaultAdjectives
	}
	if len(l.nouns) == 0 {
		l.nouns = defaultNouns
	}
	return l
}

func (l *Local) Generate() string {
	adj := l.adjectives[l.intN(len(l.adjectives))]
	noun := l.nouns[l.intN(len(l.nouns))]
	suffix := l.intN(suffixUpperBound)

	var b strings.Builder
	b.Grow(len(adj) + len(noun) + 4)
	b.WriteString(adj)
	b.WriteString(noun)
	b.WriteString(strconv.Itoa(suffix))
	return b.String()
}

func cloneWords(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
