// Package workflow governs the valuation record lifecycle and which roles
// may transition it.
package workflow

type Status string
type Role string

const (
	StatusPending    Status = "pending"
	StatusOnProgress Status = "on-progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusRework     Status = "rework"
)

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// CanResubmit reports whether the role may save the record in its current
// status. Admins may resubmit regardless of state; approved records are
// closed to everyone else.
func CanResubmit(role Role, status Status) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleManager:
		return status == StatusPending || status == StatusRejected ||
			status == StatusOnProgress || status == StatusRework
	case RoleUser:
		return status == StatusPending || status == StatusRejected || status == StatusRework
	default:
		return false
	}
}

// CanReview reports whether the role may approve, reject, or send a record
// back to rework.
func CanReview(role Role) bool {
	return role == RoleManager || role == RoleAdmin
}

// ValidReviewTarget reports whether a review may move a record from its
// current status to the requested one. Rework is reachable from rejected or
// on-progress; approve/reject act on records under review.
func ValidReviewTarget(current, target Status) bool {
	switch target {
	case StatusApproved, StatusRejected:
		return current == StatusOnProgress || current == StatusPending || current == StatusRework
	case StatusRework:
		return current == StatusRejected || current == StatusOnProgress
	default:
		return false
	}
}

// RequiresFeedback reports whether the review target demands feedback text.
// Rejections must explain themselves; approvals may.
func RequiresFeedback(target Status) bool {
	return target == StatusRejected
}

// Normalize maps a server-reported status onto a known one. The server is
// the source of truth for the post-save state; an absent or unknown value
// defaults to on-progress.
func Normalize(status string) Status {
	switch Status(status) {
	case StatusPending, StatusOnProgress, StatusApproved, StatusRejected, StatusRework:
		return Status(status)
	default:
		return StatusOnProgress
	}
}

// NormalizeRole maps an arbitrary role string onto a known role,
// defaulting to the least privileged.
func NormalizeRole(role string) Role {
	switch Role(role) {
	case RoleUser, RoleManager, RoleAdmin:
		return Role(role)
	default:
		return RoleUser
	}
}
