package matching

// Known reason kinds for a proposal. Unknown kinds are preserved in the
// extension map rather than rejected, so older engines accept newer callers.
const (
	ReasonManual      = "manual"
	ReasonBatchImport = "batch_import"
	ReasonReProposal  = "re_proposal"
)

// Reason is the caller-supplied context for a propose call: a known kind, an
// optional note, and an opaque extension map carried through verbatim.
type Reason struct {
	Kind  string         `json:"kind"`
	Note  string         `json:"note,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// toMap flattens the reason plus the audit payload (score breakdown and
// extracted tags) into the JSON blob stored on the proposal.
func (r Reason) toMap(breakdown map[string]float64, extractedTags []string) map[string]any {
	kind := r.Kind
	if kind == "" {
		kind = ReasonManual
	}

	out := map[string]any{
		"kind":            kind,
		"score_breakdown": breakdown,
		"extracted_tags":  extractedTags,
	}
	if r.Note != "" {
		out["note"] = r.Note
	}
	for k, v := range r.Extra {
		// Audit fields win over caller extensions on key collision.
		if _, taken := out[k]; !taken {
			out[k] = v
		}
	}
	return out
}
