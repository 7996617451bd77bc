package idpath

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// GitgovDir is the root directory under which all governance records
// live, inside a source repository's working tree.
const GitgovDir = ".gitgov"

// DefaultSyncDirs are the subdirectories of .gitgov/ whose JSON files are
// syncable records.
var DefaultSyncDirs = []string{
	"tasks", "cycles", "executions", "feedback", "changelogs", "actors", "agents",
}

// DefaultSyncRootFiles are files directly under .gitgov/ (not in a sync
// directory) that are nonetheless syncable.
var DefaultSyncRootFiles = []string{"config.json"}

// DefaultLocalOnlyFiles never sync to the state branch but are preserved
// across branch switches on the machine that wrote them.
var DefaultLocalOnlyFiles = []string{".session.json", "index.json", "gitgov"}

// DefaultExcludedPatterns never sync and are treated as security-sensitive;
// preserved locally the same way local-only files are.
var DefaultExcludedPatterns = []string{"*.key", "*.backup", "*.backup-*", "*.tmp", "*.bak"}

// allowedExtensions are the file extensions a syncable record file may
// carry. Only .json is defined today; kept as a set for forward
// compatibility with schema-url-backed custom records that might ship
// a sibling file.
var allowedExtensions = map[string]bool{".json": true}

// Policy holds the (possibly project-configured) classification lists.
// The zero value is NOT usable — call NewPolicy or NewDefaultPolicy.
type Policy struct {
	syncDirs         map[string]bool
	syncRootFiles    map[string]bool
	localOnlyFiles   map[string]bool
	excludedPatterns []*regexp.Regexp

	// localOnlyNames and excludedPatternStrs retain the original,
	// uncompiled lists so callers (e.g. statebranch's .gitignore writer)
	// can render them back out verbatim.
	localOnlyNames       []string
	excludedPatternStrs  []string
}

// NewDefaultPolicy returns the Policy built from the spec's hard-coded
// default lists (§3.3).
func NewDefaultPolicy() *Policy {
	return NewPolicy(DefaultSyncDirs, DefaultSyncRootFiles, DefaultLocalOnlyFiles, DefaultExcludedPatterns)
}

// NewPolicy builds a Policy from explicit lists, e.g. loaded from
// .gitgov/config.json. excludedPatterns are simple globs matched against
// the basename; only "*" is a wildcard (see globToRegexp).
func NewPolicy(syncDirs, syncRootFiles, localOnlyFiles, excludedPatterns []string) *Policy {
	p := &Policy{
		syncDirs:            toSet(syncDirs),
		syncRootFiles:       toSet(syncRootFiles),
		localOnlyFiles:      toSet(localOnlyFiles),
		localOnlyNames:      append([]string(nil), localOnlyFiles...),
		excludedPatternStrs: append([]string(nil), excludedPatterns...),
	}
	for _, pattern := range excludedPatterns {
		p.excludedPatterns = append(p.excludedPatterns, globToRegexp(pattern))
	}
	return p
}

// LocalOnlyFileNames returns the configured local-only file/dir names,
// in the order given to NewPolicy.
func (pol *Policy) LocalOnlyFileNames() []string {
	return append([]string(nil), pol.localOnlyNames...)
}

// ExcludedPatternStrings returns the configured excluded glob patterns,
// in the order given to NewPolicy.
func (pol *Policy) ExcludedPatternStrings() []string {
	return append([]string(nil), pol.excludedPatternStrs...)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// globToRegexp compiles a simple shell glob (only "*" is meaningful) into
// an anchored regexp matched against a basename.
func globToRegexp(glob string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '.', '(', ')', '+', '?', '^', '$', '[', ']', '{', '}', '|', '\\':
			b.WriteString(regexp.QuoteMeta(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// Class is the filesystem partition a path falls into (spec.md §3.3).
type Class int

const (
	ClassOther Class = iota
	ClassSyncableRecord
	ClassSyncableRoot
	ClassLocalOnly
	ClassExcluded
)

// Classify returns which partition p falls into. p may be absolute,
// .gitgov-relative, or rooted under an arbitrary temp directory — only
// the portion from .gitgov/ onward (or the bare basename, if .gitgov/
// isn't present in p at all) is examined, so the same decision is
// returned for ".gitgov/tasks/t.json", "/repo/.gitgov/tasks/t.json" and
// "/tmp/scratch/.gitgov/tasks/t.json" alike.
func (pol *Policy) Classify(p string) Class {
	rel := relativeToGitgov(p)
	dir, base := path.Split(rel)
	dir = strings.Trim(dir, "/")

	if pol.localOnlyFiles[base] {
		return ClassLocalOnly
	}
	for _, re := range pol.excludedPatterns {
		if re.MatchString(base) {
			return ClassExcluded
		}
	}
	if dir == "" && pol.syncRootFiles[base] {
		return ClassSyncableRoot
	}
	if dir != "" && pol.syncDirs[firstSegment(dir)] && allowedExtensions[filepath.Ext(base)] {
		return ClassSyncableRecord
	}
	return ClassOther
}

// ShouldSync reports whether p is syncable: a record under a whitelisted
// sync directory, or a whitelisted sync-root file — not excluded, not
// local-only.
func (pol *Policy) ShouldSync(p string) bool {
	switch pol.Classify(p) {
	case ClassSyncableRecord, ClassSyncableRoot:
		return true
	default:
		return false
	}
}

// relativeToGitgov strips everything up to and including the last
// ".gitgov/" segment in p, using forward slashes throughout so the
// result is platform-independent. If p has no .gitgov segment at all,
// it is returned as-is (with OS separators normalized), matching the
// "bare path" calling convention (idpath.Classify("tasks/t.json")).
func relativeToGitgov(p string) string {
	norm := filepath.ToSlash(p)
	const marker = GitgovDir + "/"
	if idx := strings.LastIndex(norm, marker); idx >= 0 {
		return norm[idx+len(marker):]
	}
	return strings.TrimPrefix(norm, "/")
}

func firstSegment(dir string) string {
	if idx := strings.IndexByte(dir, '/'); idx >= 0 {
		return dir[:idx]
	}
	return dir
}
