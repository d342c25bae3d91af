package course

import (
	"time"

	"gorm.io/gorm"
)

// Access request lifecycle: PENDING -> APPROVED | DECLINED. A declined
// request may be followed by a new PENDING one; APPROVED is terminal.
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestDeclined = "DECLINED"
)

// AccessRequest is a student's manual payment-approval request for a paid
// course. At most one PENDING request may exist per (user, course): ActiveKey
// holds "<user>-<course>" while the request is pending and is nulled on
// decision, so the unique index rejects a concurrent duplicate (NULLs do not
// collide on any of the supported drivers, unlike a partial index, which
// MySQL lacks).
type AccessRequest struct {
	gorm.Model
	UserID     uint       `json:"user_id" gorm:"index;not null"`
	CourseID   uint       `json:"course_id" gorm:"index;not null"`
	Status     string     `json:"status" gorm:"default:'PENDING'"`
	RequestRef string     `json:"request_ref" gorm:"uniqueIndex"`
	ActiveKey  *string    `json:"-" gorm:"uniqueIndex"`
	DecidedAt  *time.Time `json:"decided_at"`
	DecidedBy  *uint      `json:"decided_by"`
	RemindedAt *time.Time `json:"-"`
	IsDeleted  bool       `gorm:"default:false"`
}

// Enrollment is membership of a user in a course's permitted-viewer set.
// Presence of a row is the ground truth for approved access.
type Enrollment struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_enroll_user_course"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_enroll_user_course"`
}
