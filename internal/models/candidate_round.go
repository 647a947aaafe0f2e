package models

import "time"

// CandidateRound joins a candidate to one round template and carries the
// candidate's status within that round.
type CandidateRound struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	CandidateID        uint             `gorm:"not null;uniqueIndex:idx_candidate_template" json:"candidate_id"`
	JobRoundTemplateID uint             `gorm:"not null;uniqueIndex:idx_candidate_template" json:"job_round_template_id"`
	Status             string           `gorm:"size:32;not null;default:action_pending" json:"status"`
	IsEvaluation       bool             `gorm:"not null;default:false" json:"is_evaluation"`
	CreatedBy          uint             `gorm:"not null" json:"created_by"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Candidate          Candidate        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"candidate,omitempty"`
	Template           JobRoundTemplate `gorm:"foreignKey:JobRoundTemplateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"template,omitempty"`
	Evaluation         *Evaluation      `gorm:"foreignKey:CandidateRoundID" json:"evaluation,omitempty"`
}

const (
	// CandidateStatusSelected means the candidate passed the round.
	CandidateStatusSelected = "selected"
	// CandidateStatusRejected means the candidate was dropped in the round.
	CandidateStatusRejected = "rejected"
	// CandidateStatusActionPending means no decision has been recorded yet.
	CandidateStatusActionPending = "action_pending"
)

// IsValidCandidateStatus reports whether the status is one of the round statuses.
func IsValidCandidateStatus(status string) bool {
	switch status {
	case CandidateStatusSelected, CandidateStatusRejected, CandidateStatusActionPending:
		return true
	default:
		return false
	}
}
