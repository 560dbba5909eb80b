package identity

import (
	"github.com/repairpos/backend/internal/domain/shared"
)

const AggregateTypeUser = "User"

const EventTypeUserCreated = "UserCreated"

// UserCreatedEvent is published when an account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		Username:        u.Username,
	}
}
