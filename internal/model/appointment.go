package model

// Appointment lifecycle states. Scheduled appointments whose date has
// passed are flipped to completed by the due-transition sweep.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// PatientRef is the enrichment block attached to appointment and
// prescription listings when the patient directory answers. The patient id
// itself is a weak reference; this block is simply omitted when the peer
// does not answer.
type PatientRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Appointment struct {
	ID              int64    `db:"id" json:"id"`
	PatientID       int64    `db:"patient_id" json:"patient_id"`
	DoctorName      string   `db:"doctor_name" json:"doctor_name"`
	AppointmentDate DateTime `db:"appointment_date" json:"appointment_date"`
	Duration        int      `db:"duration" json:"duration"`
	Status          string   `db:"status" json:"status"`
	Reason          *string  `db:"reason" json:"reason"`
	Notes           *string  `db:"notes" json:"notes"`
	CreatedAt       DateTime `db:"created_at" json:"created_at"`
	UpdatedAt       DateTime `db:"updated_at" json:"updated_at"`

	Patient interface{} `db:"-" json:"patient,omitempty"`
}

// BookAppointmentRequest books an appointment, creating the patient record
// on the fly when no account matches the email.
type BookAppointmentRequest struct {
	FirstName       string  `json:"first_name" binding:"required"`
	LastName        string  `json:"last_name" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Phone           string  `json:"phone"`
	DateOfBirth     string  `json:"date_of_birth"`
	Gender          string  `json:"gender"`
	DoctorName      string  `json:"doctor_name" binding:"required"`
	AppointmentDate string  `json:"appointment_date" binding:"required"`
	Duration        int     `json:"duration"`
	Reason          *string `json:"reason"`
	Notes           *string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	DoctorName      *string `json:"doctor_name"`
	AppointmentDate *string `json:"appointment_date"`
	Duration        *int    `json:"duration"`
	Status          *string `json:"status"`
	Reason          *string `json:"reason"`
	Notes           *string `json:"notes"`
}

type AppointmentFilters struct {
	Status  string
	Date    string
	Page    int
	PerPage int
}

type AppointmentStats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
