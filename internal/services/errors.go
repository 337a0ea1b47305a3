package services

import "errors"

var (
	// Authentication & approval.
	ErrDomainNotAllowed = errors.New("email domain is not allowed")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotApproved      = errors.New("user is not approved")
	ErrInactive         = errors.New("user is deactivated")
	ErrNoPendingLogin   = errors.New("no login is pending for this email")
	ErrOTPExpired       = errors.New("passcode has expired")
	ErrOTPMismatch      = errors.New("passcode does not match")

	// Authorization.
	ErrNotAuthorized       = errors.New("role is not permitted to perform this action")
	ErrSuperAdminProtected = errors.New("the super admin account cannot be modified")

	// Evaluation workflow.
	ErrInvalidStatus = errors.New("unrecognized evaluation status")

	// Application workflow.
	ErrAlreadyApplied    = errors.New("an application for this demand already exists")
	ErrDemandClosed      = errors.New("demand is no longer accepting applications")
	ErrInvalidTransition = errors.New("status transition is not permitted")

	// Import pipeline.
	ErrUnsupportedFormat = errors.New("file is not a readable spreadsheet")
	ErrEmptyFile         = errors.New("spreadsheet has no header row")

	ErrDemandNotFound      = errors.New("demand not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrApplicationNotFound = errors.New("application not found")
)

// ContactAdminError reports whether the login failure should tell the user to
// contact an administrator, as opposed to retrying. Keeps the user-facing
// message coarse so accounts cannot be enumerated beyond the domain check.
func ContactAdminError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNotApproved) ||
		errors.Is(err, ErrInactive)
}
