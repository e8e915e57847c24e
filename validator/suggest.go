package validator

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var keywords = []string{"start", "stop", "print", "read", "goto", "if"}

func unknownCommand(l *line) string {
	if kw := suggestKeyword(l.content); kw != "" {
		return lineMsg(l.num, "unrecognized command %q; did you mean '%s'?", l.content, kw)
	}
	return lineMsg(l.num, "unrecognized command %q", l.content)
}

// suggestKeyword returns the keyword closest to the first word of content,
// or "" when nothing is close enough to be a plausible typo.
func suggestKeyword(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return ""
	}
	word := fields[0]
	lower := strings.ToLower(word)

	type candidate struct {
		kw   string
		dist int
	}
	cands := []candidate{}
	for _, kw := range keywords {
		d := fuzzy.LevenshteinDistance(lower, kw)
		if d == 0 || (d <= 2 && d < len(kw) && d < len(word)) {
			cands = append(cands, candidate{kw: kw, dist: d})
		}
	}
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	return cands[0].kw
}
