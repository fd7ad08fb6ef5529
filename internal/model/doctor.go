package model

type Doctor struct {
	ID                int64    `db:"id" json:"id"`
	FirstName         string   `db:"first_name" json:"first_name"`
	LastName          string   `db:"last_name" json:"last_name"`
	FullName          string   `db:"-" json:"full_name"`
	Email             string   `db:"email" json:"email"`
	Phone             string   `db:"phone" json:"phone"`
	Specialization    string   `db:"specialization" json:"specialization"`
	LicenseNumber     string   `db:"license_number" json:"license_number"`
	YearsOfExperience int      `db:"years_of_experience" json:"years_of_experience"`
	Education         *string  `db:"education" json:"education"`
	Languages         CSVList  `db:"languages" json:"languages"`
	Bio               *string  `db:"bio" json:"bio"`
	IsActive          bool     `db:"is_active" json:"is_active"`
	ConsultationFee   float64  `db:"consultation_fee" json:"consultation_fee"`
	WorkingDays       CSVList  `db:"working_days" json:"working_days"`
	WorkingHoursStart string   `db:"working_hours_start" json:"working_hours_start"`
	WorkingHoursEnd   string   `db:"working_hours_end" json:"working_hours_end"`
	OfficeAddress     *string  `db:"office_address" json:"office_address"`
	City              *string  `db:"city" json:"city"`
	CreatedAt         DateTime `db:"created_at" json:"created_at"`
	UpdatedAt         DateTime `db:"updated_at" json:"updated_at"`
}

// Normalize fills derived fields after a load.
func (d *Doctor) Normalize() {
	d.FullName = d.FirstName + " " + d.LastName
}

type Specialization struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}

type CreateDoctorRequest struct {
	FirstName         string   `json:"first_name" binding:"required"`
	LastName          string   `json:"last_name" binding:"required"`
	Email             string   `json:"email" binding:"required,email"`
	Phone             string   `json:"phone" binding:"required"`
	Specialization    string   `json:"specialization" binding:"required"`
	LicenseNumber     string   `json:"license_number" binding:"required"`
	YearsOfExperience int      `json:"years_of_experience"`
	Education         *string  `json:"education"`
	Languages         CSVList  `json:"languages"`
	Bio               *string  `json:"bio"`
	IsActive          *bool    `json:"is_active"`
	ConsultationFee   float64  `json:"consultation_fee"`
	WorkingDays       CSVList  `json:"working_days"`
	WorkingHoursStart string   `json:"working_hours_start"`
	WorkingHoursEnd   string   `json:"working_hours_end"`
	OfficeAddress     *string  `json:"office_address"`
	City              *string  `json:"city"`
}

type UpdateDoctorRequest struct {
	FirstName         *string  `json:"first_name"`
	LastName          *string  `json:"last_name"`
	Email             *string  `json:"email" binding:"omitempty,email"`
	Phone             *string  `json:"phone"`
	Specialization    *string  `json:"specialization"`
	YearsOfExperience *int     `json:"years_of_experience"`
	Education         *string  `json:"education"`
	Languages         *CSVList `json:"languages"`
	Bio               *string  `json:"bio"`
	IsActive          *bool    `json:"is_active"`
	ConsultationFee   *float64 `json:"consultation_fee"`
	WorkingDays       *CSVList `json:"working_days"`
	WorkingHoursStart *string  `json:"working_hours_start"`
	WorkingHoursEnd   *string  `json:"working_hours_end"`
	OfficeAddress     *string  `json:"office_address"`
	City              *string  `json:"city"`
}

type CreateSpecializationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type DoctorFilters struct {
	Search         string
	Specialization string
	IsActive       *bool
	City           string
	Page           int
	PerPage        int
}

type SpecializationCount struct {
	Specialization string `db:"specialization" json:"specialization"`
	Count          int    `db:"count" json:"count"`
}

type CityCount struct {
	City  string `db:"city" json:"city"`
	Count int    `db:"count" json:"count"`
}

type DoctorStats struct {
	Total            int                   `json:"total"`
	Active           int                   `json:"active"`
	Inactive         int                   `json:"inactive"`
	NewThisMonth     int                   `json:"new_this_month"`
	BySpecialization []SpecializationCount `json:"by_specialization"`
	ByCity           []CityCount           `json:"by_city"`
}
