package pipeline

import (
	"iter"
	"strings"

	"github.com/terratensor/altnames/internal/core/domain"
)

// AllowSet is the set of ISO language codes that pass the filter.
// An empty set accepts everything.
type AllowSet map[string]struct{}

// ParseAllowSet builds an AllowSet from a comma-separated list.
// Blank entries are ignored, so "" yields the empty (accept-all) set.
func ParseAllowSet(s string) AllowSet {
	set := make(AllowSet)
	for _, code := range strings.Split(s, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}

// Accepts reports whether rec passes the filter. Matching is exact and
// case-sensitive; records without a language only pass an empty set.
func (s AllowSet) Accepts(rec *domain.AlternateName) bool {
	if len(s) == 0 {
		return true
	}
	if !rec.HasLanguage() {
		return false
	}
	_, ok := s[rec.ISOLanguage]
	return ok
}

// Filter yields the records of seq accepted by allow. onReject, when set,
// sees every dropped record.
func Filter(seq iter.Seq[*domain.AlternateName], allow AllowSet, onReject func(*domain.AlternateName)) iter.Seq[*domain.AlternateName] {
	return func(yield func(*domain.AlternateName) bool) {
		for rec := range seq {
			if !allow.Accepts(rec) {
				if onReject != nil {
					onReject(rec)
				}
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}
