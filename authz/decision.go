// Package authz is the role-and-territory authorization engine. Every
// registry operation is gated by Authorize before storage is touched.
// File: authz/decision.go
package authz

import "go-field-ops/models"

// ---------------- operation catalog ----------------

// Operation is the closed catalog of gated actions.
type Operation string

const (
	OpCreateAdmin       Operation = "create_admin"
	OpCreateWorker      Operation = "create_worker"
	OpCreateVenue       Operation = "create_venue"
	OpUpdateVenue       Operation = "update_venue"
	OpDeleteVenue       Operation = "delete_venue"
	OpToggleVenueStatus Operation = "toggle_venue_status"
	OpViewVenues        Operation = "view_venues"
	OpUploadMedia       Operation = "upload_media"
	OpViewMedia         Operation = "view_media"
	OpDeleteMedia       Operation = "delete_media"
	OpUpdateLocation    Operation = "update_location"
	OpViewLocation      Operation = "view_location"
	OpManageAdmin       Operation = "manage_admin"
	OpManageWorker      Operation = "manage_worker"
)

// ---------------- decision outputs ----------------

// Reason is the fixed set of denial codes. They map 1:1 onto the external
// error taxonomy.
type Reason string

const (
	ReasonRoleForbidden     Reason = "role_forbidden"
	ReasonTerritoryMismatch Reason = "territory_mismatch"
	ReasonNotOwner          Reason = "not_owner"
	ReasonResourceInactive  Reason = "resource_inactive"
	ReasonResourceNotFound  Reason = "resource_not_found"
)

// Scope is the data subset an allowed caller may see or act on.
type Scope string

const (
	ScopeNone      Scope = ""
	ScopeOwn       Scope = "own"
	ScopeTerritory Scope = "territory"
	ScopeAll       Scope = "all"
)

// Decision is the engine's verdict for one operation. It never carries an
// error; callers branch on Allowed.
type Decision struct {
	Allowed bool
	Scope   Scope
	Reason  Reason
}

// Allow builds a permit carrying the visible scope.
func Allow(scope Scope) Decision { return Decision{Allowed: true, Scope: scope} }

// Deny builds a rejection carrying a fixed reason code.
func Deny(reason Reason) Decision { return Decision{Reason: reason} }

// ---------------- inputs ----------------

// Caller is the identity extracted from a verified, non-revoked token.
// CityID is nil for superadmins.
type Caller struct {
	PersonID uint
	Role     models.Role
	CityID   *uint
}

// Resource describes the target of an operation with only the attributes the
// decision table reasons about. It is nil for pure listing/creation checks
// that have no concrete target.
type Resource struct {
	// Exists is false when the operation names a target that could not be
	// resolved.
	Exists bool
	// CityID is the target's territory.
	CityID *uint
	// OwnerID is the direct creator/uploader of the target.
	OwnerID *uint
	// Active is the target's active flag; nil when not applicable.
	Active *bool
	// OwnedViaCreation reports whether the target is tied to records the
	// caller provisioned (an admin deleting media traverses the uploader's
	// and hotel's creators). Nil when the rule does not consult it.
	OwnedViaCreation *bool
}

// sameCity reports whether the caller and target are pinned to one city.
// A caller or target without a city never matches.
func sameCity(caller Caller, target *Resource) bool {
	if caller.CityID == nil || target == nil || target.CityID == nil {
		return false
	}
	return *caller.CityID == *target.CityID
}

// ---------------- the engine ----------------

// Authorize evaluates one operation for one caller against the role x
// operation table. It is a pure function: decisions are recomputed per
// request and never cached, because active flags and revocations change
// between requests.
func Authorize(caller Caller, op Operation, target *Resource) Decision {
	switch op {
	case OpCreateAdmin:
		// Superadmins provision admins; territory existence, the one-admin
		// slot, and login uniqueness are validated before storage is touched.
		if caller.Role != models.RoleSuperadmin {
			return Deny(ReasonRoleForbidden)
		}
		return Allow(ScopeAll)

	case OpCreateWorker:
		// Admins provision workers, only inside their own city. Superadmins
		// deliberately cannot: that is not their job.
		if caller.Role != models.RoleAdmin {
			return Deny(ReasonRoleForbidden)
		}
		if target != nil && !sameCity(caller, target) {
			return Deny(ReasonTerritoryMismatch)
		}
		return Allow(ScopeTerritory)

	case OpCreateVenue:
		// The venue's city is forced to the admin's own; a target city that
		// differs can only come from a forged request.
		if caller.Role != models.RoleAdmin {
			return Deny(ReasonRoleForbidden)
		}
		if target != nil && !sameCity(caller, target) {
			return Deny(ReasonTerritoryMismatch)
		}
		return Allow(ScopeTerritory)

	case OpViewVenues:
		switch caller.Role {
		case models.RoleWorker, models.RoleAdmin:
			// Workers additionally see active venues only; the registry
			// applies that filter from the caller's role.
			return Allow(ScopeTerritory)
		case models.RoleSuperadmin:
			return Allow(ScopeAll)
		}
		return Deny(ReasonRoleForbidden)

	case OpUpdateVenue, OpToggleVenueStatus:
		switch caller.Role {
		case models.RoleAdmin:
			if target == nil || !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			if !sameCity(caller, target) {
				return Deny(ReasonTerritoryMismatch)
			}
			return Allow(ScopeTerritory)
		case models.RoleSuperadmin:
			if target != nil && !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			// Superadmin updates may reassign the venue's city.
			return Allow(ScopeAll)
		}
		return Deny(ReasonRoleForbidden)

	case OpDeleteVenue:
		switch caller.Role {
		case models.RoleAdmin:
			if target == nil || !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			if !sameCity(caller, target) {
				return Deny(ReasonTerritoryMismatch)
			}
			if target.OwnerID == nil || *target.OwnerID != caller.PersonID {
				return Deny(ReasonNotOwner)
			}
			return Allow(ScopeTerritory)
		case models.RoleSuperadmin:
			if target != nil && !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			return Allow(ScopeAll)
		}
		return Deny(ReasonRoleForbidden)

	case OpUploadMedia:
		if caller.Role != models.RoleWorker {
			return Deny(ReasonRoleForbidden)
		}
		if target == nil || !target.Exists {
			return Deny(ReasonResourceNotFound)
		}
		if target.Active != nil && !*target.Active {
			return Deny(ReasonResourceInactive)
		}
		if !sameCity(caller, target) {
			return Deny(ReasonTerritoryMismatch)
		}
		return Allow(ScopeTerritory)

	case OpViewMedia:
		switch caller.Role {
		case models.RoleWorker:
			return Allow(ScopeOwn)
		case models.RoleAdmin:
			return Allow(ScopeTerritory)
		case models.RoleSuperadmin:
			return Allow(ScopeAll)
		}
		return Deny(ReasonRoleForbidden)

	case OpDeleteMedia:
		switch caller.Role {
		case models.RoleWorker:
			if target == nil || !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			if target.OwnerID == nil || *target.OwnerID != caller.PersonID {
				return Deny(ReasonNotOwner)
			}
			return Allow(ScopeOwn)
		case models.RoleAdmin:
			if target == nil || !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			if target.OwnedViaCreation == nil || !*target.OwnedViaCreation {
				return Deny(ReasonNotOwner)
			}
			return Allow(ScopeOwn)
		case models.RoleSuperadmin:
			if target != nil && !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			return Allow(ScopeAll)
		}
		return Deny(ReasonRoleForbidden)

	case OpUpdateLocation:
		// Only workers report positions, and only their own.
		if caller.Role != models.RoleWorker {
			return Deny(ReasonRoleForbidden)
		}
		if target != nil && target.OwnerID != nil && *target.OwnerID != caller.PersonID {
			return Deny(ReasonNotOwner)
		}
		return Allow(ScopeOwn)

	case OpViewLocation:
		switch caller.Role {
		case models.RoleWorker:
			if target != nil && target.OwnerID != nil && *target.OwnerID != caller.PersonID {
				return Deny(ReasonNotOwner)
			}
			return Allow(ScopeOwn)
		case models.RoleAdmin:
			if target == nil || !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			if !sameCity(caller, target) {
				return Deny(ReasonTerritoryMismatch)
			}
			return Allow(ScopeTerritory)
		case models.RoleSuperadmin:
			if target != nil && !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			return Allow(ScopeAll)
		}
		return Deny(ReasonRoleForbidden)

	case OpManageAdmin:
		if caller.Role != models.RoleSuperadmin {
			return Deny(ReasonRoleForbidden)
		}
		if target != nil && !target.Exists {
			return Deny(ReasonResourceNotFound)
		}
		return Allow(ScopeAll)

	case OpManageWorker:
		switch caller.Role {
		case models.RoleAdmin:
			if target == nil || !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			if !sameCity(caller, target) {
				return Deny(ReasonTerritoryMismatch)
			}
			return Allow(ScopeTerritory)
		case models.RoleSuperadmin:
			if target != nil && !target.Exists {
				return Deny(ReasonResourceNotFound)
			}
			return Allow(ScopeAll)
		}
		return Deny(ReasonRoleForbidden)
	}

	// Unknown operations are never permitted.
	return Deny(ReasonRoleForbidden)
}
