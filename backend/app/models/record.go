package models

import (
	"sort"
	"time"
)

const (
	ApplicationSubmitted     = "submitted"
	ApplicationPendingReview = "pending_review"
	MemberPendingApproval    = "pending_approval"
)

// Record is an application or member document. Fields the server does not
// know about are kept as-is.
type Record map[string]any

func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// PersonalEmail returns personal_info.email, or "" when absent.
func (r Record) PersonalEmail() string {
	pi, _ := r["personal_info"].(map[string]any)
	s, _ := pi["email"].(string)
	return s
}

func (r Record) ProcessedAt() time.Time {
	t, _ := time.Parse(time.RFC3339Nano, r.String("processed_at"))
	return t
}

// Clone copies the top level; nested documents are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// SortByProcessedDesc orders newest first. Records without a parseable
// processed_at sort last.
func SortByProcessedDesc(rs []Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].ProcessedAt().After(rs[j].ProcessedAt())
	})
}
