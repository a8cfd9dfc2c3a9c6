package search

import (
	"strings"
	"time"
	"unicode"

	"github.com/honeycarbs/jobscout/internal/domain"
)

// DedupConfig holds duplicate detection tunables
type DedupConfig struct {
	// SimilarityThreshold is the minimum normalized similarity over
	// (title, company, location) for two postings from different
	// sources to be considered the same job.
	SimilarityThreshold float64

	// Window bounds how far apart the PostedAt values of two similar
	// postings may be. Guards against coincidental title matches for
	// unrelated postings.
	Window time.Duration
}

// DefaultDedupConfig returns the dedup defaults
func DefaultDedupConfig() DedupConfig {
	return DedupConfig{
		SimilarityThreshold: 0.85,
		Window:              72 * time.Hour,
	}
}

// Deduper collapses postings that represent the same real-world job,
// whether re-fetched from one source or cross-posted across boards
type Deduper struct {
	cfg DedupConfig
}

// NewDeduper builds a Deduper, falling back to defaults for unset fields
func NewDeduper(cfg DedupConfig) *Deduper {
	def := DefaultDedupConfig()
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		cfg.SimilarityThreshold = def.SimilarityThreshold
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	return &Deduper{cfg: cfg}
}

// cluster is a group of postings judged to be the same job
type cluster struct {
	members []domain.Posting
}

// Dedup returns one posting per detected real-world job. Running it on
// an already deduplicated sequence yields the same sequence.
func (d *Deduper) Dedup(postings []domain.Posting) []domain.Posting {
	if len(postings) <= 1 {
		return postings
	}

	// Exact (source, id) repeats first: a retried fetch returns the
	// same posting twice and must always collapse.
	byKey := make(map[domain.PostingKey]int, len(postings))
	var clusters []*cluster
	for _, p := range postings {
		if idx, seen := byKey[p.Key()]; seen {
			clusters[idx].members = append(clusters[idx].members, p)
			continue
		}

		matched := false
		for idx, c := range clusters {
			if d.sameJob(c.members[0], p) {
				c.members = append(c.members, p)
				byKey[p.Key()] = idx
				matched = true
				break
			}
		}
		if !matched {
			byKey[p.Key()] = len(clusters)
			clusters = append(clusters, &cluster{members: []domain.Posting{p}})
		}
	}

	out := make([]domain.Posting, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, merge(c.members))
	}
	return out
}

// sameJob reports whether two postings describe the same job: identical
// (source, id), or similar enough within the posting-date window
func (d *Deduper) sameJob(a, b domain.Posting) bool {
	if a.Key() == b.Key() {
		return true
	}
	if !withinWindow(a.PostedAt, b.PostedAt, d.cfg.Window) {
		return false
	}
	return similarity(a, b) >= d.cfg.SimilarityThreshold
}

func withinWindow(a, b time.Time, window time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

// similarity scores two postings over (title, company, location) using
// token overlap on the normalized fields
func similarity(a, b domain.Posting) float64 {
	fields := [][2]string{
		{a.Title, b.Title},
		{a.Company, b.Company},
		{a.Location, b.Location},
	}

	var total float64
	for _, f := range fields {
		total += tokenSimilarity(normalize(f[0]), normalize(f[1]))
	}
	return total / float64(len(fields))
}

// tokenSimilarity is the Jaccard index over whitespace-split tokens.
// Two empty fields count as a match; one empty field does not.
func tokenSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	var intersection int
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

// normalize lowercases, strips punctuation and collapses whitespace
// before comparison
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// merge picks the canonical survivor of a duplicate cluster and unions
// Requirements across all members so nothing found in only one copy is
// lost. The survivor is the member with the most populated optional
// fields, ties broken by earliest PostedAt.
func merge(members []domain.Posting) domain.Posting {
	survivor := members[0]
	for _, p := range members[1:] {
		pr, sr := richness(p), richness(survivor)
		if pr > sr || (pr == sr && p.PostedAt.Before(survivor.PostedAt)) {
			survivor = p
		}
	}

	if len(members) == 1 {
		return survivor
	}

	seen := make(map[string]struct{}, len(survivor.Requirements))
	reqs := make([]string, 0, len(survivor.Requirements))
	for _, r := range survivor.Requirements {
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			reqs = append(reqs, r)
		}
	}
	for _, p := range members {
		for _, r := range p.Requirements {
			if _, ok := seen[r]; !ok {
				seen[r] = struct{}{}
				reqs = append(reqs, r)
			}
		}
	}
	if len(reqs) > 0 {
		survivor.Requirements = reqs
	}
	return survivor
}

// richness counts the populated optional fields used to pick a survivor
func richness(p domain.Posting) int {
	n := 0
	if p.SalaryInfo != "" {
		n++
	}
	if len(p.Requirements) > 0 {
		n++
	}
	if p.JobType != "" {
		n++
	}
	return n
}
