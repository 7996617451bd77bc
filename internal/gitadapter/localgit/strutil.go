package localgit

import "strings"

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func containsLabel(line, label string) bool {
	return strings.Contains(line, label)
}

func fieldsFirst(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
