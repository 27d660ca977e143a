package entity

import (
	"time"

	"github.com/google/uuid"
)

// Guardrail is a tenant-defined rule evaluated against turn context.
// BotId nil means the rule applies to every bot of the tenant.
type Guardrail struct {
	Id        uuid.UUID
	TenantId  uuid.UUID
	BotId     *uuid.UUID
	Code      string
	Condition string
	Action    string
	Priority  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
