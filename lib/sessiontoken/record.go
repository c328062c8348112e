// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

const (
	// recordSeparator joins the four record segments.
	recordSeparator = "⥂"

	// aclSeparator joins entries inside the ACL segment.
	aclSeparator = "⇅"

	// absentTag is the wire text for a record with no tag.
	absentTag = "None"
)

// IdentityRecord is the payload a token carries: who the session
// belongs to, what role they hold, an optional free-form tag, and the
// access control entries granted to the session. The record is what
// the envelope encrypts; it never travels in the clear.
type IdentityRecord struct {
	username string
	role     Role
	tag      string
	acl      []string
}

// NewIdentityRecord returns a record with the User role and nothing
// else set. A record needs at least one ACL entry before it can be
// sealed into a token.
func NewIdentityRecord() *IdentityRecord {
	return &IdentityRecord{role: RoleUser}
}

// SetUsername sets the identity's username.
func (r *IdentityRecord) SetUsername(username string) *IdentityRecord {
	r.username = username
	return r
}

// SetRole sets the identity's role.
func (r *IdentityRecord) SetRole(role Role) *IdentityRecord {
	r.role = role
	return r
}

// SetTag sets the record's free-form tag. The empty string clears it;
// a cleared tag serializes as the literal "None". A tag whose text is
// itself "None" is indistinguishable from an absent tag on the wire.
func (r *IdentityRecord) SetTag(tag string) *IdentityRecord {
	r.tag = tag
	return r
}

// AddACL inserts an access control entry, keeping the ACL sorted in
// ascending order. Duplicate entries are kept.
func (r *IdentityRecord) AddACL(entry string) *IdentityRecord {
	at := sort.SearchStrings(r.acl, entry)
	r.acl = slices.Insert(r.acl, at, entry)
	return r
}

// RemoveACL removes one occurrence of the given entry. It returns the
// removed entry and true, or the empty string and false when the
// entry is not present.
func (r *IdentityRecord) RemoveACL(entry string) (string, bool) {
	at := sort.SearchStrings(r.acl, entry)
	if at >= len(r.acl) || r.acl[at] != entry {
		return "", false
	}
	r.acl = slices.Delete(r.acl, at, at+1)
	return entry, true
}

// Username returns the identity's username.
func (r *IdentityRecord) Username() string {
	return r.username
}

// Role returns the identity's role.
func (r *IdentityRecord) Role() Role {
	return r.role
}

// Tag returns the record's tag, or the empty string when no tag is
// set.
func (r *IdentityRecord) Tag() string {
	return r.tag
}

// ACL returns a copy of the access control entries. Entries added
// through AddACL stay sorted; a parsed record keeps its encoded order.
func (r *IdentityRecord) ACL() []string {
	return slices.Clone(r.acl)
}

// Serialize encodes the record into its four-segment text form. A
// record with an empty ACL grants nothing and does not serialize.
func (r *IdentityRecord) Serialize() (string, error) {
	if len(r.acl) == 0 {
		return "", ErrEmptyACL
	}
	tag := r.tag
	if tag == "" {
		tag = absentTag
	}
	var b strings.Builder
	b.WriteString(r.username)
	b.WriteString(recordSeparator)
	b.WriteString(string(r.role))
	b.WriteString(recordSeparator)
	b.WriteString(tag)
	b.WriteString(recordSeparator)
	b.WriteString(strings.Join(r.acl, aclSeparator))
	return b.String(), nil
}

// ParseIdentityRecord decodes the four-segment text form. The tag
// literal "None" reads back as an absent tag, and ACL entries keep
// their encoded order.
func ParseIdentityRecord(text string) (*IdentityRecord, error) {
	segments := strings.Split(text, recordSeparator)
	if len(segments) != 4 {
		return nil, fmt.Errorf("%w: got %d segments", ErrRecordFieldCount, len(segments))
	}
	tag := segments[2]
	if tag == absentTag {
		tag = ""
	}
	return &IdentityRecord{
		username: segments[0],
		role:     Role(segments[1]),
		tag:      tag,
		acl:      strings.Split(segments[3], aclSeparator),
	}, nil
}
