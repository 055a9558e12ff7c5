package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/member"
)

// EnrollMemberRequest represents a request to enroll a member under a contract
type EnrollMemberRequest struct {
	MemberNumber  string    `json:"member_number" binding:"required,max=50"`
	FirstName     string    `json:"first_name" binding:"required,max=100"`
	LastName      string    `json:"last_name" binding:"required,max=100"`
	DateOfBirth   string    `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Gender        string    `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	Email         string    `json:"email" binding:"omitempty,email"`
	PhoneNumber   string    `json:"phone_number" binding:"omitempty,max=30"`
	Address       string    `json:"address" binding:"omitempty,max=500"`
	ContractID    uuid.UUID `json:"contract_id" binding:"required"`
	EffectiveDate string    `json:"effective_date" binding:"required,datetime=2006-01-02"`
}

// UpdateContactInfoRequest represents a request to update member contact details
type UpdateContactInfoRequest struct {
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=30"`
	Address     string `json:"address" binding:"omitempty,max=500"`
}

// ListMembersRequest represents member list query parameters
type ListMembersRequest struct {
	ListRequest
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED PENDING"`
}

// MemberResponse represents a member
type MemberResponse struct {
	ID              uuid.UUID `json:"id"`
	MemberNumber    string    `json:"member_number"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	DateOfBirth     string    `json:"date_of_birth"`
	Gender          string    `json:"gender"`
	Email           string    `json:"email,omitempty"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	Address         string    `json:"address,omitempty"`
	ContractID      uuid.UUID `json:"contract_id"`
	Status          string    `json:"status"`
	EffectiveDate   string    `json:"effective_date"`
	TerminationDate *string   `json:"termination_date,omitempty"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       string    `json:"created_by"`
	UpdatedAt       time.Time `json:"updated_at"`
	UpdatedBy       string    `json:"updated_by"`
}

// FromMember maps a member aggregate to its response
func FromMember(m *member.Member) MemberResponse {
	resp := MemberResponse{
		ID:            m.ID,
		MemberNumber:  m.MemberNumber,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		DateOfBirth:   m.DateOfBirth.String(),
		Gender:        string(m.Gender),
		Email:         m.Email,
		PhoneNumber:   m.PhoneNumber,
		Address:       m.Address,
		ContractID:    m.ContractID,
		Status:        string(m.Status),
		EffectiveDate: m.EffectiveDate.String(),
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		UpdatedAt:     m.UpdatedAt,
		UpdatedBy:     m.UpdatedBy,
	}
	if m.TerminationDate != nil {
		s := m.TerminationDate.String()
		resp.TerminationDate = &s
	}
	return resp
}

// FromMembers maps a slice of members
func FromMembers(members []member.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, FromMember(&members[i]))
	}
	return out
}
