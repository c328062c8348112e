// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

// Role names the position an identity holds in the deployment. The
// well-known roles below cover the built-in node and user tiers; any
// other string is a custom role and travels through serialization
// unchanged. Decoding a role never fails.
type Role string

// Well-known roles.
const (
	RoleSlaveNode    Role = "SlaveNode"
	RoleMasterNode   Role = "MasterNode"
	RoleSuperNode    Role = "SuperNode"
	RoleVerifierNode Role = "VerifierNode"
	RoleRegistryNode Role = "RegistryNode"
	RoleStorageNode  Role = "StorageNode"
	RoleFirewallNode Role = "FirewallNode"
	RoleRouterNode   Role = "RouterNode"
	RoleSuperUser    Role = "SuperUser"
	RoleAdmin        Role = "Admin"
	RoleUser         Role = "User"
)

var wellKnownRoles = map[Role]bool{
	RoleSlaveNode:    true,
	RoleMasterNode:   true,
	RoleSuperNode:    true,
	RoleVerifierNode: true,
	RoleRegistryNode: true,
	RoleStorageNode:  true,
	RoleFirewallNode: true,
	RoleRouterNode:   true,
	RoleSuperUser:    true,
	RoleAdmin:        true,
	RoleUser:         true,
}

// IsCustom reports whether the role is outside the well-known set.
func (r Role) IsCustom() bool {
	return !wellKnownRoles[r]
}
