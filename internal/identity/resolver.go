// Package identity resolves the caller's organization memberships and
// reviewer role records from the identity service payload.
package identity

import (
	"errors"

	"github.com/evandahm/reviewdesk/internal/models"
)

var (
	// ErrNotAuthenticated indicates the identity service reported no
	// authenticated caller. Callers are expected to redirect.
	ErrNotAuthenticated = errors.New("caller is not authenticated")

	// ErrPermissionDenied indicates the caller holds no evaluator role
	// record in any organization.
	ErrPermissionDenied = errors.New("caller holds no evaluator role")
)

// RoleRecord binds the caller to one organization with one role. ID is
// the role-record id, the identifier used to attribute decision records
// to this caller.
type RoleRecord struct {
	ID           int64  `json:"id"`
	Organization int64  `json:"organization"`
	Role         string `json:"role"`
}

// Payload is the authenticated-identity payload returned by the
// identity service.
type Payload struct {
	IsAuthenticated   bool         `json:"isAuthenticated"`
	UserOrganizations []RoleRecord `json:"userOrganizations"`
}

// ReviewerContext is the resolved review scope for one caller.
type ReviewerContext struct {
	OrganizationIDs   []int64
	ReviewerRecordIDs []int64
	// ReviewerOnly is true when the caller holds an evaluator role and
	// no privileged role (admin or planner); other, unprivileged roles
	// do not clear it. Informational only; it never affects set
	// filtering.
	ReviewerOnly bool
}

// ReviewerIDSet returns the reviewer record ids as a set for decision
// attribution lookups.
func (c *ReviewerContext) ReviewerIDSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(c.ReviewerRecordIDs))
	for _, id := range c.ReviewerRecordIDs {
		set[id] = struct{}{}
	}
	return set
}

// Resolve extracts the review scope from an identity payload. It fails
// with ErrNotAuthenticated for anonymous callers and ErrPermissionDenied
// for callers without any evaluator role record.
func Resolve(p Payload) (*ReviewerContext, error) {
	if !p.IsAuthenticated {
		return nil, ErrNotAuthenticated
	}

	ctx := &ReviewerContext{}
	seenOrgs := make(map[int64]struct{})
	hasOther := false

	for _, record := range p.UserOrganizations {
		switch record.Role {
		case models.RoleEvaluator:
			ctx.ReviewerRecordIDs = append(ctx.ReviewerRecordIDs, record.ID)
			if _, ok := seenOrgs[record.Organization]; !ok {
				seenOrgs[record.Organization] = struct{}{}
				ctx.OrganizationIDs = append(ctx.OrganizationIDs, record.Organization)
			}
		case models.RoleAdmin, models.RolePlanner:
			hasOther = true
		}
	}

	if len(ctx.ReviewerRecordIDs) == 0 {
		return nil, ErrPermissionDenied
	}

	ctx.ReviewerOnly = !hasOther
	return ctx, nil
}
