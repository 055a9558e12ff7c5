package contract

// ContractStatus is the lifecycle status shared by master contracts and
// contracts
type ContractStatus string

const (
	ContractStatusDraft          ContractStatus = "DRAFT"
	ContractStatusActive         ContractStatus = "ACTIVE"
	ContractStatusSuspended      ContractStatus = "SUSPENDED"
	ContractStatusTerminated     ContractStatus = "TERMINATED"
	ContractStatusExpired        ContractStatus = "EXPIRED"
	ContractStatusPendingRenewal ContractStatus = "PENDING_RENEWAL"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusActive, ContractStatusSuspended,
		ContractStatusTerminated, ContractStatusExpired, ContractStatusPendingRenewal:
		return true
	}
	return false
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// CanActivate returns true if Activate is a legal transition from this status
func (s ContractStatus) CanActivate() bool {
	return s != ContractStatusTerminated && s != ContractStatusExpired
}
