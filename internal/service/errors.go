package service

import (
	"errors"
	"fmt"

	"taxreturn/internal/model"

	"github.com/google/uuid"
)

var (
	ErrInvalidDeclaration   = errors.New("invalid declaration")
	ErrFilingNotFound       = errors.New("filing not found")
	ErrFilingInReview       = errors.New("filing is under review")
	ErrReviewNotFound       = errors.New("review not found")
	ErrReviewNotPending     = errors.New("review is not pending")
	ErrReviewAlreadyPending = errors.New("filing already has a pending review")
	ErrForbidden            = errors.New("access denied")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserExists           = errors.New("username or email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidTimeRange     = errors.New("invalid time range")
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// NewActor builds an Actor from the token subject and role claims.
func NewActor(userID, role string) (Actor, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid user id: %w", err)
	}
	return Actor{ID: id, Role: role}, nil
}

// Staff reports whether the actor reviews other people's filings.
func (a Actor) Staff() bool {
	return a.Role == model.RoleAccountant || a.Role == model.RoleAdmin
}

// CanAccess reports whether the actor may read or change f. Taxpayers only see their own filings.
func (a Actor) CanAccess(f *model.Filing) bool {
	if a.Staff() {
		return true
	}
	return f.OwnerID != nil && *f.OwnerID == a.ID
}

func (a Actor) userID() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}
