package domain

import (
	"strconv"

	dErrors "vitacare/pkg/domain-errors"
)

// Numeric identifiers for records kept in id-keyed namespaces. Typed ids keep
// a claim id from ever being passed where an appointment id is expected.
type (
	// ClaimID identifies an insurance claim. Dense, allocated from 0.
	ClaimID uint64
	// AppointmentID identifies an appointment. Allocated from 1.
	AppointmentID uint64
	// HospitalID identifies a hospital. Allocated from 1.
	HospitalID uint64
	// RecordID identifies a medical-record entry within one patient's
	// namespace. Allocated from 1.
	RecordID uint64
)

// ParseClaimID parses a decimal claim id from external input.
func ParseClaimID(s string) (ClaimID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid claim id")
	}
	return ClaimID(n), nil
}

// ParseAppointmentID parses a decimal appointment id from external input.
func ParseAppointmentID(s string) (AppointmentID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid appointment id")
	}
	return AppointmentID(n), nil
}

// ParseHospitalID parses a decimal hospital id from external input.
func ParseHospitalID(s string) (HospitalID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid hospital id")
	}
	return HospitalID(n), nil
}
