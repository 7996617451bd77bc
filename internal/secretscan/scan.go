// Package secretscan is a pre-push safety net that flags record payload
// content that looks like a leaked credential, adapting the teacher's
// redact package (entropy heuristic + gitleaks pattern matching) from
// scanning conversation transcripts to scanning one record's JSON
// payload before it's staged onto the state branch (SPEC_FULL.md
// §4.1.1). It never mutates the record and only detects; the sync
// engine's push pre-flight stops the push on any Finding.
package secretscan

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/gitgovernance/gitgov/internal/record"
)

// secretPattern matches high-entropy strings that may be secrets.
var secretPattern = regexp.MustCompile(`[A-Za-z0-9/+_=-]{10,}`)

// entropyThreshold is the minimum Shannon entropy for a string to be
// considered a secret, carried over unchanged from the teacher's
// redact.go (chosen there through trial and error against real
// transcripts; high enough to avoid false positives on prose, low
// enough to catch typical API keys and tokens).
const entropyThreshold = 4.5

var (
	gitleaksDetector     *detect.Detector
	gitleaksDetectorOnce sync.Once
)

func getDetector() *detect.Detector {
	gitleaksDetectorOnce.Do(func() {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return
		}
		gitleaksDetector = d
	})
	return gitleaksDetector
}

// Finding is one flagged string value inside a record's payload.
type Finding struct {
	// FieldPath is a dotted/bracketed path into the payload, e.g.
	// "notes" or "metadata.apiKey" or "tags[2]".
	FieldPath string
	// Excerpt is the flagged value with the secret itself redacted, safe
	// to put in a log line or conflict report.
	Excerpt string
}

// ScanEnvelope scans env's payload for strings that look like leaked
// secrets, skipping fields that are legitimately high-entropy by
// construction: "signature" and anything ending in "id"/"ids" (key
// identifiers, record identifiers), the same skip list the teacher's
// redact.go uses for its own structured-content scan.
func ScanEnvelope(env *record.Envelope) ([]Finding, error) {
	var parsed any
	if err := json.Unmarshal(env.Payload, &parsed); err != nil {
		return nil, fmt.Errorf("secretscan: payload is not valid JSON: %w", err)
	}
	var findings []Finding
	walk("", parsed, &findings)
	return findings, nil
}

func walk(path string, v any, findings *[]Finding) {
	switch val := v.(type) {
	case map[string]any:
		if shouldSkipObject(val) {
			return
		}
		for k, child := range val {
			if shouldSkipField(k) {
				continue
			}
			walk(joinPath(path, k), child, findings)
		}
	case []any:
		for i, child := range val {
			walk(fmt.Sprintf("%s[%d]", path, i), child, findings)
		}
	case string:
		if looksLikeSecret(val) {
			*findings = append(*findings, Finding{FieldPath: path, Excerpt: redact(val)})
		}
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func shouldSkipField(key string) bool {
	if key == "signature" {
		return true
	}
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, "id") || strings.HasSuffix(lower, "ids")
}

func shouldSkipObject(obj map[string]any) bool {
	t, ok := obj["type"].(string)
	return ok && (strings.HasPrefix(t, "image") || t == "base64")
}

// looksLikeSecret reports whether s is flagged by either the entropy
// heuristic or a gitleaks pattern rule.
func looksLikeSecret(s string) bool {
	for _, loc := range secretPattern.FindAllStringIndex(s, -1) {
		if shannonEntropy(s[loc[0]:loc[1]]) > entropyThreshold {
			return true
		}
	}
	if d := getDetector(); d != nil {
		for _, f := range d.DetectString(s) {
			if f.Secret != "" {
				return true
			}
		}
	}
	return false
}

func redact(s string) string {
	if len(s) <= 8 {
		return "REDACTED"
	}
	return s[:4] + "...REDACTED..." + s[len(s)-4:]
}

func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	freq := make(map[byte]int)
	for i := 0; i < len(s); i++ {
		freq[s[i]]++
	}
	length := float64(len(s))
	var entropy float64
	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}
