package console

import (
	"github.com/ehr/clinic/internal/domain/clinicerr"
)

var kindMessages = map[error]string{
	clinicerr.ErrInvalidArgument:     "datos inválidos",
	clinicerr.ErrDuplicateKey:        "ya existe un registro con ese identificador",
	clinicerr.ErrDuplicateSpecialty:  "el médico ya tiene esa especialidad",
	clinicerr.ErrPatientNotFound:     "paciente no encontrado",
	clinicerr.ErrDoctorUnavailable:   "médico no disponible",
	clinicerr.ErrSlotTaken:           "el médico ya tiene un turno en ese horario",
	clinicerr.ErrInvalidPrescription: "receta inválida, debe incluir al menos un medicamento",
}

// Message returns the Spanish text shown for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := kindMessages[clinicerr.Kind(err)]; ok {
		return msg
	}
	return "error inesperado"
}
