package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberStatus is the lifecycle state of a group membership. Invited members
// start pending and become active when they accept.
type MemberStatus string

const (
	MemberStatusPending MemberStatus = "pending"
	MemberStatusActive  MemberStatus = "active"
)

// MemberRole determines what a member may do within a group.
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Group is a set of users that share expenses.
type Group struct {
	DefaultModel
	Name string `gorm:"uniqueIndex"`
}

func (g *Group) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	return nil
}

// GroupMember is the membership of one user in one group.
type GroupMember struct {
	DefaultModel
	GroupID uuid.UUID
	Group   Group `json:"-"`
	UserID  uuid.UUID
	User    User         `json:"-"`
	Role    MemberRole   `gorm:"default:member"`
	Status  MemberStatus `gorm:"default:pending"`
}

func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	err := tx.First(&Group{}, m.GroupID).Error
	if err != nil {
		return err
	}

	return tx.First(&User{}, m.UserID).Error
}

// ActiveMember returns the active membership of the user in the group.
// ErrNotGroupMember is returned when the user is not an active member.
func ActiveMember(db *gorm.DB, groupID, userID uuid.UUID) (GroupMember, error) {
	var member GroupMember

	err := db.Where(&GroupMember{GroupID: groupID, UserID: userID, Status: MemberStatusActive}).First(&member).Error
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return GroupMember{}, ErrNotGroupMember
		}
		return GroupMember{}, err
	}

	return member, nil
}
