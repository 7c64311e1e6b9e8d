package config

import "bloodlink-backend/internal/domain"

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// RoutePolicy is the security level of a route plus the roles allowed to call it.
// An empty Roles list admits every authenticated role.
type RoutePolicy struct {
	Level SecurityLevel
	Roles []domain.UserRole
}

func (p RoutePolicy) Allows(role domain.UserRole) bool {
	if len(p.Roles) == 0 {
		return true
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

var (
	anyRole      = RoutePolicy{Level: SecurityAccess}
	adminOnly    = RoutePolicy{Level: SecurityAccess, Roles: []domain.UserRole{domain.UserRoleAdmin}}
	donorOrAdmin = RoutePolicy{Level: SecurityAccess, Roles: []domain.UserRole{domain.UserRoleDonor, domain.UserRoleAdmin}}
	recipOrAdmin = RoutePolicy{Level: SecurityAccess, Roles: []domain.UserRole{domain.UserRoleRecipient, domain.UserRoleAdmin}}
	publicRoute  = RoutePolicy{Level: SecurityPublic}
)

// EndpointSecurityConfig maps route names to their policy
var EndpointSecurityConfig = map[string]RoutePolicy{
	// Infrastructure - Public
	"Health":  publicRoute,
	"Metrics": publicRoute,

	// Requests
	"CreateRequest":       recipOrAdmin,
	"ListRequests":        anyRole,
	"GetRequest":          anyRole,
	"UpdateRequestStatus": recipOrAdmin,
	"DeleteRequest":       adminOnly,
	"FulfillRequest":      donorOrAdmin,
	"RespondToRequest":    donorOrAdmin,

	// Donors
	"MatchDonors":       adminOnly,
	"CreateDonor":       donorOrAdmin,
	"GetDonor":          donorOrAdmin,
	"GetMyDonor":        donorOrAdmin,
	"UpdateDonor":       donorOrAdmin,
	"ListDonorRequests": donorOrAdmin,

	// Recipients
	"CreateRecipient": recipOrAdmin,
	"GetRecipient":    recipOrAdmin,
	"GetMyRecipient":  recipOrAdmin,

	// Inventory
	"CreateBloodBank": adminOnly,
	"ListBloodBanks":  anyRole,
	"GetStock":        anyRole,
	"RecordDonation":  adminOnly,
	"InventoryReport": adminOnly,

	// Notifications
	"ListNotifications":        anyRole,
	"UnreadCount":              anyRole,
	"MarkNotificationRead":     anyRole,
	"MarkAllNotificationsRead": anyRole,
}

// GetRoutePolicy returns the policy for a route name
func GetRoutePolicy(name string) RoutePolicy {
	if p, exists := EndpointSecurityConfig[name]; exists {
		return p
	}
	// Unknown routes are admin-only
	return adminOnly
}
