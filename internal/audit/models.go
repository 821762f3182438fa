package audit

import (
	"time"

	"vitacare/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Actor     domain.Principal `json:"actor"`
	Subject   domain.Principal `json:"subject,omitempty"`
	Action    string           `json:"action"`
	Detail    string           `json:"detail,omitempty"`
	ClientIP  string           `json:"client_ip,omitempty"`
	UserAgent string           `json:"user_agent,omitempty"`
}

// Actions recorded by the registries. One constant per domain mutation keeps
// downstream consumers off free-form strings.
const (
	ActionClaimSubmitted        = "claim.submitted"
	ActionClaimProcessed        = "claim.processed"
	ActionAccessGranted         = "access.granted"
	ActionAccessRevoked         = "access.revoked"
	ActionRecordAdded           = "record.added"
	ActionPatientRegistered     = "patient.registered"
	ActionPatientUpdated        = "patient.updated"
	ActionDoctorRegistered      = "doctor.registered"
	ActionDoctorUpdated         = "doctor.updated"
	ActionDoctorVerified        = "doctor.verified"
	ActionInstitutionRegistered = "institution.registered"
	ActionInstitutionUpdated    = "institution.updated"
	ActionInstitutionVerified   = "institution.verified"
	ActionInsurerRegistered     = "insurer.registered"
	ActionInsurerUpdated        = "insurer.updated"
	ActionInsurerVerified       = "insurer.verified"
	ActionHospitalRegistered    = "hospital.registered"
	ActionHospitalUpdated       = "hospital.updated"
	ActionHospitalDeactivated   = "hospital.deactivated"
	ActionAppointmentCreated    = "appointment.created"
	ActionAppointmentCanceled   = "appointment.canceled"
	ActionAppointmentCompleted  = "appointment.completed"
	ActionRoleGranted           = "role.granted"
	ActionRoleRevoked           = "role.revoked"
)
