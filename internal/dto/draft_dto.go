package dto

// DraftSetStatusRequest records one proposed status change inside a draft.
type DraftSetStatusRequest struct {
	CandidateID uint   `json:"candidate_id" validate:"required,gt=0"`
	Status      string `json:"status" validate:"required,oneof=selected rejected action_pending"`
}

// DraftResponse exposes the full overlay state for a round: the server-truth
// snapshot, the live edits, and the diff between them. Pending being empty is
// what the unsaved-changes guard keys off.
type DraftResponse struct {
	JobRoundTemplateID uint            `json:"job_round_template_id"`
	Original           map[uint]string `json:"original"`
	Current            map[uint]string `json:"current"`
	Pending            map[uint]string `json:"pending"`
}

// HasPendingChanges reports whether the draft diverges from server truth.
func (d DraftResponse) HasPendingChanges() bool {
	return len(d.Pending) > 0
}
