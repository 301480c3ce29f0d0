package enums

import "fmt"

// RequestStatus maps to the request_status enum in Postgres.
type RequestStatus string

const (
	RequestStatusPendingApproval       RequestStatus = "pending_approval"
	RequestStatusApprovedPendingPickup RequestStatus = "approved_pending_pickup"
	RequestStatusCheckedOut            RequestStatus = "checked_out"
	RequestStatusReturned              RequestStatus = "returned"
	RequestStatusRejected              RequestStatus = "rejected"
	RequestStatusCancelled             RequestStatus = "cancelled"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPendingApproval,
	RequestStatusApprovedPendingPickup,
	RequestStatusCheckedOut,
	RequestStatusReturned,
	RequestStatusRejected,
	RequestStatusCancelled,
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical request_status enum.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusReturned, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
