package sync

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// lineDiffCounts returns the added/removed line counts between a and b,
// using the line-based diff pattern (DiffLinesToChars/DiffMain/
// DiffCharsToLines) the teacher uses to compute attribution line counts.
func lineDiffCounts(a, b string) (added, removed int) {
	dmp := diffmatchpatch.New()
	text1, text2, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(text1, text2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, d := range diffs {
		lines := countLinesStr(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += lines
		case diffmatchpatch.DiffDelete:
			removed += lines
		}
	}
	return added, removed
}

func countLinesStr(content string) int {
	if content == "" {
		return 0
	}
	lines := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lines++
	}
	return lines
}

// conflictDetailLine renders a single affected file's +/- line counts for
// a conflict report's detail text, e.g. "tasks/x.json (+3/-1)".
func conflictDetailLine(file, localContent, remoteContent string) string {
	added, removed := lineDiffCounts(remoteContent, localContent)
	return fmt.Sprintf("%s (+%d/-%d)", file, added, removed)
}
