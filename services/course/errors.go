package courseService

// Error kinds surfaced to API callers. Every domain failure carries one of
// these stable identifiers next to the human-readable message.
const (
	KindNotFound       = "not_found"
	KindForbidden      = "forbidden"
	KindConflict       = "conflict"
	KindPriceNotZero   = "price_not_zero"
	KindInvalidLecture = "invalid_lecture"
	KindValidation     = "validation_error"
)

// DomainError is a recoverable, per-request failure of the access/progress
// core.
type DomainError struct {
	Kind    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrCourseNotFound  = &DomainError{Kind: KindNotFound, Message: "Course not found!"}
	ErrRequestNotFound = &DomainError{Kind: KindNotFound, Message: "Access request not found!"}
	ErrPendingExists   = &DomainError{Kind: KindConflict, Message: "A pending request already exists for this course!"}
	ErrAlreadyEnrolled = &DomainError{Kind: KindConflict, Message: "Already enrolled in this course!"}
	ErrRequestDecided  = &DomainError{Kind: KindConflict, Message: "Access request has already been approved!"}
	ErrPriceNotZero    = &DomainError{Kind: KindPriceNotZero, Message: "Course is not free. Please request access instead!"}
	ErrNotApproved     = &DomainError{Kind: KindForbidden, Message: "Course access has not been approved yet!"}
	ErrNotCourseOwner  = &DomainError{Kind: KindForbidden, Message: "You do not manage this course!"}
	ErrInvalidLecture  = &DomainError{Kind: KindInvalidLecture, Message: "Lecture does not belong to this course!"}
)
