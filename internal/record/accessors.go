package record

import "time"

// ExtractAuthor returns the first signature (invariant E3: author signs
// first) or the zero Signature if none exist. It never panics on a
// malformed or empty signature chain.
func ExtractAuthor(e *Envelope) (Signature, bool) {
	if len(e.Header.Signatures) == 0 {
		return Signature{}, false
	}
	return e.Header.Signatures[0], true
}

// ExtractLastModifier returns the most recent signature (invariant E3).
func ExtractLastModifier(e *Envelope) (Signature, bool) {
	n := len(e.Header.Signatures)
	if n == 0 {
		return Signature{}, false
	}
	return e.Header.Signatures[n-1], true
}

// ExtractContributors returns the distinct set of keyIds that have signed
// e, in first-seen order. Duplicates across positions are counted once.
func ExtractContributors(e *Envelope) []string {
	seen := make(map[string]bool, len(e.Header.Signatures))
	var out []string
	for _, sig := range e.Header.Signatures {
		if seen[sig.KeyID] {
			continue
		}
		seen[sig.KeyID] = true
		out = append(out, sig.KeyID)
	}
	return out
}

// ExtractLastTimestamp returns the timestamp of the most recent signature
// as a time.Time, or the zero time if there are no signatures.
func ExtractLastTimestamp(e *Envelope) time.Time {
	sig, ok := ExtractLastModifier(e)
	if !ok {
		return time.Time{}
	}
	return time.Unix(sig.Timestamp, 0).UTC()
}

// GetSignatureCount returns the number of signatures in the chain,
// including duplicate keyIds (invariant E3: duplicates are counted).
func GetSignatureCount(e *Envelope) int {
	return len(e.Header.Signatures)
}
