package model

type Patient struct {
	ID             int64    `db:"id" json:"id"`
	FirstName      string   `db:"first_name" json:"first_name"`
	LastName       string   `db:"last_name" json:"last_name"`
	Email          string   `db:"email" json:"email"`
	Phone          string   `db:"phone" json:"phone"`
	DateOfBirth    Date     `db:"date_of_birth" json:"date_of_birth"`
	Gender         string   `db:"gender" json:"gender"`
	Address        *string  `db:"address" json:"address"`
	BloodGroup     *string  `db:"blood_group" json:"blood_group"`
	Allergies      *string  `db:"allergies" json:"allergies"`
	MedicalHistory *string  `db:"medical_history" json:"medical_history"`
	CreatedAt      DateTime `db:"created_at" json:"created_at"`
	UpdatedAt      DateTime `db:"updated_at" json:"updated_at"`
}

type CreatePatientRequest struct {
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          *string `json:"phone" binding:"required"`
	DateOfBirth    string  `json:"date_of_birth" binding:"required"`
	Gender         string  `json:"gender" binding:"required"`
	Address        *string `json:"address"`
	BloodGroup     *string `json:"blood_group"`
	Allergies      *string `json:"allergies"`
	MedicalHistory *string `json:"medical_history"`
}

type UpdatePatientRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"date_of_birth"`
	Gender         *string `json:"gender"`
	Address        *string `json:"address"`
	BloodGroup     *string `json:"blood_group"`
	Allergies      *string `json:"allergies"`
	MedicalHistory *string `json:"medical_history"`
}

type PatientFilters struct {
	Search  string
	Page    int
	PerPage int
}

type PatientStats struct {
	Total        int `json:"total"`
	Male         int `json:"male"`
	Female       int `json:"female"`
	NewThisMonth int `json:"new_this_month"`
}
