package auth

// Role is a closed enumeration of caller roles. Permission checks go
// through the capability table below; no string-keyed role lists exist
// anywhere else in the codebase.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleStaff
	RoleProviderAdmin
	RolePlatformAdmin
	RoleCron
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleStaff:
		return "staff"
	case RoleProviderAdmin:
		return "provider_admin"
	case RolePlatformAdmin:
		return "platform_admin"
	case RoleCron:
		return "cron"
	default:
		return "unknown"
	}
}

// Capability names one guarded action.
type Capability string

const (
	CapResourcesRead    Capability = "resources:read"
	CapResourcesWrite   Capability = "resources:write"
	CapAssignmentsRead  Capability = "assignments:read"
	CapAssignmentsWrite Capability = "assignments:write"
	CapHoldsWrite       Capability = "holds:write"
	CapHoldsSweep       Capability = "holds:sweep"
)

type capabilitySet map[Capability]struct{}

func caps(list ...Capability) capabilitySet {
	set := make(capabilitySet, len(list))
	for _, c := range list {
		set[c] = struct{}{}
	}
	return set
}

// capabilities is the authoritative role/capability table. Extending a
// role means editing this table, nothing else.
var capabilities = map[Role]capabilitySet{
	RoleCustomer: caps(
		CapResourcesRead,
		CapHoldsWrite,
	),
	RoleStaff: caps(
		CapResourcesRead,
		CapAssignmentsRead,
		CapAssignmentsWrite,
		CapHoldsWrite,
	),
	RoleProviderAdmin: caps(
		CapResourcesRead,
		CapResourcesWrite,
		CapAssignmentsRead,
		CapAssignmentsWrite,
		CapHoldsWrite,
	),
	RolePlatformAdmin: caps(
		CapResourcesRead,
		CapResourcesWrite,
		CapAssignmentsRead,
		CapAssignmentsWrite,
		CapHoldsWrite,
		CapHoldsSweep,
	),
	RoleCron: caps(
		CapHoldsSweep,
	),
}

// Can reports whether a role holds a capability.
func (r Role) Can(c Capability) bool {
	set, ok := capabilities[r]
	if !ok {
		return false
	}
	_, ok = set[c]
	return ok
}

// Keyring maps API keys to roles. Built from config at startup.
type Keyring struct {
	keys map[string]Role
}

func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[string]Role)}
}

// Register binds an API key to a role. Empty keys are ignored so unset
// config entries simply disable that role's access.
func (k *Keyring) Register(key string, role Role) {
	if key == "" {
		return
	}
	k.keys[key] = role
}

// Resolve returns the role for an API key, or RoleUnknown.
func (k *Keyring) Resolve(key string) Role {
	if role, ok := k.keys[key]; ok {
		return role
	}
	return RoleUnknown
}
