// Package idpath implements deterministic record id generation and the
// file-path classification (syncable / local-only / excluded) that the
// sync engine relies on to partition .gitgov/ (spec.md §3.3, §4.2).
package idpath

import (
	"fmt"
	"regexp"
	"strings"
)

const maxSlugLen = 50

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)

// timestampedKinds are the record kinds whose id embeds a Unix-seconds
// timestamp prefix: {timestamp}-{kind}-{slug}.
var timestampedKinds = map[string]bool{
	"task":       true,
	"cycle":      true,
	"execution":  true,
	"feedback":   true,
	"changelog":  true,
}

// identityKinds are the record kinds whose id is {type}:{slug} instead
// (actors and agents are not timestamped — they are long-lived identities).
var identityKinds = map[string]bool{
	"human": true,
	"agent": true,
}

// Slugify lowercases seed, maps spaces to hyphens, strips anything
// outside [a-z0-9-], and clips to maxSlugLen characters.
func Slugify(seed string) string {
	s := strings.ToLower(seed)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
		s = strings.TrimRight(s, "-")
	}
	return s
}

// GenerateID builds a record id for kind from seed and timestamp (Unix
// seconds). For timestamped kinds (task, cycle, execution, feedback,
// changelog) the result is "{timestamp}-{kind}-{slug}". For identity
// kinds (human, agent — i.e. actors/agents, keyed by actor type not
// record kind) the result is "{type}:{slug}" with no timestamp.
func GenerateID(kind string, seed string, timestamp int64) string {
	slug := Slugify(seed)
	if identityKinds[kind] {
		return fmt.Sprintf("%s:%s", kind, slug)
	}
	return fmt.Sprintf("%d-%s-%s", timestamp, kind, slug)
}

// ParsedID is the decomposition of a generated id back into its parts.
type ParsedID struct {
	Kind      string
	Slug      string
	Timestamp int64 // zero for identity-kind ids
}

var timestampedIDPattern = regexp.MustCompile(`^(\d{10})-([a-z]+)-([a-z0-9-]+)$`)
var identityIDPattern = regexp.MustCompile(`^(human|agent):([a-z0-9-]+)$`)

// ParseID reverses GenerateID's format, recovering the kind, slug and
// (where present) timestamp embedded in id. It is a structural parse
// only — it does not know whether a given kind+slug pair was ever
// actually generated.
func ParseID(id string) (ParsedID, error) {
	if m := identityIDPattern.FindStringSubmatch(id); m != nil {
		return ParsedID{Kind: m[1], Slug: m[2]}, nil
	}
	if m := timestampedIDPattern.FindStringSubmatch(id); m != nil {
		var ts int64
		if _, err := fmt.Sscanf(m[1], "%d", &ts); err != nil {
			return ParsedID{}, fmt.Errorf("idpath: parsing timestamp in %q: %w", id, err)
		}
		return ParsedID{Kind: m[2], Slug: m[3], Timestamp: ts}, nil
	}
	return ParsedID{}, fmt.Errorf("idpath: %q does not match any known id pattern", id)
}

// Record id patterns, exported for record factories / validators that
// need to check an id shape without generating one.
var (
	TaskIDPattern      = regexp.MustCompile(`^\d{10}-task-[a-z0-9-]+$`)
	CycleIDPattern     = regexp.MustCompile(`^\d{10}-cycle-[a-z0-9-]+$`)
	ExecutionIDPattern = regexp.MustCompile(`^\d{10}-execution-[a-z0-9-]+$`)
	FeedbackIDPattern  = regexp.MustCompile(`^\d{10}-feedback-[a-z0-9-]+$`)
	ChangelogIDPattern = regexp.MustCompile(`^\d{10}-changelog-[a-z0-9-]+$`)
	ActorIDPattern     = regexp.MustCompile(`^(human|agent):[a-z0-9-]+$`)
)
