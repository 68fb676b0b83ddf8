// Package clinicerr declares the error kinds shared by the clinic domain
// packages. Operations wrap one of these sentinels with context, so callers
// match on kind with errors.Is.
package clinicerr

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrDuplicateKey        = errors.New("already registered")
	ErrDuplicateSpecialty  = errors.New("specialty already exists for doctor")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorUnavailable   = errors.New("doctor unavailable")
	ErrSlotTaken           = errors.New("slot already taken")
	ErrInvalidPrescription = errors.New("invalid prescription")
)

// kinds is ordered; Kind reports the first sentinel found in the chain.
var kinds = []error{
	ErrInvalidArgument,
	ErrDuplicateKey,
	ErrDuplicateSpecialty,
	ErrPatientNotFound,
	ErrDoctorUnavailable,
	ErrSlotTaken,
	ErrInvalidPrescription,
}

// Kind returns the sentinel wrapped by err, or nil when err carries none.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Reason returns a short, stable label for err's kind, used as a metrics
// label and log field.
func Reason(err error) string {
	switch Kind(err) {
	case ErrInvalidArgument:
		return "invalid_argument"
	case ErrDuplicateKey:
		return "duplicate_key"
	case ErrDuplicateSpecialty:
		return "duplicate_specialty"
	case ErrPatientNotFound:
		return "patient_not_found"
	case ErrDoctorUnavailable:
		return "doctor_unavailable"
	case ErrSlotTaken:
		return "slot_taken"
	case ErrInvalidPrescription:
		return "invalid_prescription"
	}
	if err == nil {
		return ""
	}
	return "unknown"
}
