package approval

import "github.com/lumen-rp/cadhub/pkg/serrors"

var (
	// ErrUnauthorized means the principal lacks both the required permission
	// set and a passing fallback predicate. No state is touched.
	ErrUnauthorized = serrors.NewError(
		"UNAUTHORIZED", "permission denied", "Approvals.Errors.Unauthorized")

	// ErrRequestNotFound means the request id does not resolve to a record.
	ErrRequestNotFound = serrors.NewError(
		"REQUEST_NOT_FOUND", "approval request not found", "Approvals.Errors.RequestNotFound")

	// ErrInvalidTargetStatus means the target is not a legal terminal status.
	ErrInvalidTargetStatus = serrors.NewError(
		"INVALID_TARGET_STATUS", "target status must be ACCEPTED or DECLINED", "Approvals.Errors.InvalidTargetStatus")

	// ErrSubjectNotFound means the subject entity is gone or not in the
	// expected pre-state at apply time.
	ErrSubjectNotFound = serrors.NewError(
		"SUBJECT_NOT_FOUND", "subject entity not found", "Approvals.Errors.SubjectNotFound")

	// ErrConflictAlreadyLinked means the subject or one of its records is
	// already linked to another pending request of the same kind.
	ErrConflictAlreadyLinked = serrors.NewError(
		"CONFLICT_ALREADY_LINKED", "record already linked to a pending request", "Approvals.Errors.ConflictAlreadyLinked")

	// ErrTransitionConflict means the request already left PENDING, either
	// before the call (strict terminal-state check) or won by a concurrent
	// transition (conditional update affected zero rows).
	ErrTransitionConflict = serrors.NewError(
		"TRANSITION_CONFLICT", "request is no longer pending", "Approvals.Errors.TransitionConflict")
)
