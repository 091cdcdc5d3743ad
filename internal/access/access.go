// Package access is the single authorization decision point for the review
// subsystem. Every mutating entry consults Check before touching storage;
// presentation layers only ask whether an action is permitted, they never
// decide permission on their own.
package access

import (
	"media-catalog/internal/data/entity"
)

type Action string

const (
	ActionViewReviews  Action = "review:view"
	ActionSubmitReview Action = "review:submit"
	ActionEditReview   Action = "review:edit"
	ActionReplyReview  Action = "review:reply"
	ActionDeleteReview Action = "review:delete"
)

type Reason string

const (
	ReasonNotAuthenticated Reason = "not_authenticated"
	ReasonNotOwner         Reason = "not_owner"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonDuplicateReview  Reason = "duplicate_review"
)

// Decision is a value, never an error; callers branch on Allowed and may
// surface Reason to the presentation layer.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Check decides whether session may perform action against a review owned by
// ownerID. It never consults storage; ownership comes from fields already on
// the loaded review. For actions without a resource (view, submit) ownerID is
// ignored. Submission uniqueness is enforced by the ledger, which denies with
// ReasonDuplicateReview.
//
// Admins moderate, they do not author: submit is user-role only.
func Check(session entity.Session, action Action, ownerID string) Decision {
	switch action {
	case ActionViewReviews:
		return Allow()

	case ActionSubmitReview:
		switch session.Role {
		case entity.RoleUser:
			return Allow()
		case entity.RoleAdmin:
			return Deny(ReasonInsufficientRole)
		default:
			return Deny(ReasonNotAuthenticated)
		}

	case ActionEditReview:
		if !session.IsAuthenticated() {
			return Deny(ReasonNotAuthenticated)
		}
		if session.Role != entity.RoleUser {
			return Deny(ReasonInsufficientRole)
		}
		if session.UserID != ownerID {
			return Deny(ReasonNotOwner)
		}
		return Allow()

	case ActionReplyReview:
		if !session.IsAuthenticated() {
			return Deny(ReasonNotAuthenticated)
		}
		if session.Role != entity.RoleAdmin {
			return Deny(ReasonInsufficientRole)
		}
		return Allow()

	case ActionDeleteReview:
		if !session.IsAuthenticated() {
			return Deny(ReasonNotAuthenticated)
		}
		if session.IsAdmin() {
			return Allow()
		}
		if session.UserID != ownerID {
			return Deny(ReasonNotOwner)
		}
		return Allow()
	}

	return Deny(ReasonInsufficientRole)
}
