package booking

import "wayfarer/utils"

var (
	ErrBookingNotFound  = utils.NotFoundError("booking not found")
	ErrScheduleNotFound = utils.NotFoundError("schedule not found")
	ErrTourNotFound     = utils.NotFoundError("tour not found")
	ErrUserNotFound     = utils.NotFoundError("user not found")

	ErrForbidden = utils.ForbiddenError("not allowed to access this booking")

	ErrInsufficientCapacity = utils.ConflictError("insufficient capacity on schedule")
	ErrScheduleCancelled    = utils.ConflictError("schedule is cancelled")
	ErrIllegalTransition    = utils.ConflictError("illegal booking status transition")
	ErrConcurrentUpdate     = utils.ConflictError("booking was modified concurrently, retry")
)
