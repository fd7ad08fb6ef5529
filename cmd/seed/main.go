// Command seed populates a running cluster of services with test data
// through their HTTP APIs. Re-running it is safe: every create is
// tolerant of conflicts.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/pkg/logger"
)

type config struct {
	AuthURL         string        `envconfig:"AUTH_SERVICE_URL" default:"http://localhost:5001"`
	PatientURL      string        `envconfig:"PATIENT_SERVICE_URL" default:"http://localhost:5002"`
	AppointmentURL  string        `envconfig:"APPOINTMENT_SERVICE_URL" default:"http://localhost:5003"`
	PrescriptionURL string        `envconfig:"PRESCRIPTION_SERVICE_URL" default:"http://localhost:5004"`
	MedicineURL     string        `envconfig:"MEDICINE_SERVICE_URL" default:"http://localhost:5005"`
	DoctorURL       string        `envconfig:"DOCTOR_SERVICE_URL" default:"http://localhost:5006"`
	BillingURL      string        `envconfig:"BILLING_SERVICE_URL" default:"http://localhost:5007"`
	Timeout         time.Duration `envconfig:"SEED_TIMEOUT" default:"5s"`
}

type seeder struct {
	cfg  config
	http *http.Client
}

func main() {
	logger.Setup(&logger.Config{Service: "seed", Pretty: true})

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	s := &seeder{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}

	if !s.checkHealth() {
		log.Fatal().Msg("not all services are reachable")
	}

	s.seedUsers()
	patientIDs := s.seedPatients()
	medicineIDs := s.seedMedicines()
	s.seedAppointments(patientIDs)
	s.seedPrescriptions(patientIDs, medicineIDs)
	s.seedInvoices(patientIDs)
	s.seedBMIRecords(patientIDs)

	log.Info().Msg("seeding complete")
}

func (s *seeder) checkHealth() bool {
	services := map[string]string{
		"auth":         s.cfg.AuthURL,
		"patient":      s.cfg.PatientURL,
		"appointment":  s.cfg.AppointmentURL,
		"prescription": s.cfg.PrescriptionURL,
		"medicine":     s.cfg.MedicineURL,
		"doctor":       s.cfg.DoctorURL,
		"billing":      s.cfg.BillingURL,
	}
	ok := true
	for name, base := range services {
		resp, err := s.http.Get(base + "/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			log.Error().Str("service", name).Msg("unreachable")
			ok = false
			continue
		}
		resp.Body.Close()
		log.Info().Str("service", name).Msg("healthy")
	}
	return ok
}

// post sends the payload and decodes the response body into out when the
// call succeeds with the expected status.
func (s *seeder) post(endpoint string, payload, out interface{}) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("marshal failed")
		return false
	}
	resp, err := s.http.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("rejected, probably exists")
		return false
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Error().Err(err).Str("endpoint", endpoint).Msg("decode failed")
			return false
		}
	}
	return true
}

func (s *seeder) seedUsers() {
	users := []map[string]interface{}{
		{"username": "dr.smith", "email": "dr.smith@clinic.com", "password": "Doctor@123", "first_name": "John", "last_name": "Smith", "role": "doctor"},
		{"username": "dr.jones", "email": "dr.jones@clinic.com", "password": "Doctor@123", "first_name": "Sarah", "last_name": "Jones", "role": "doctor"},
		{"username": "nurse.marie", "email": "marie@clinic.com", "password": "Nurse@123", "first_name": "Marie", "last_name": "Dubois", "role": "nurse"},
		{"username": "secretary.jane", "email": "jane@clinic.com", "password": "Secretary@123", "first_name": "Jane", "last_name": "Doe", "role": "secretary"},
	}
	for _, u := range users {
		if s.post(s.cfg.AuthURL+"/api/auth/register", u, nil) {
			log.Info().Str("username", u["username"].(string)).Msg("user created")
		}
	}
}

func (s *seeder) seedPatients() []int64 {
	patients := []map[string]interface{}{
		{"first_name": "Alice", "last_name": "Dupont", "email": "alice.dupont@email.com", "phone": "0612345678", "date_of_birth": "1990-05-15", "gender": "Femme", "blood_group": "A+", "allergies": "Pénicilline", "medical_history": "Hypertension"},
		{"first_name": "Bob", "last_name": "Martin", "email": "bob.martin@email.com", "phone": "0623456789", "date_of_birth": "1985-08-22", "gender": "Homme", "blood_group": "O+", "allergies": "Aucune", "medical_history": "Diabète type 2"},
		{"first_name": "Claire", "last_name": "Bernard", "email": "claire.bernard@email.com", "phone": "0634567890", "date_of_birth": "1992-11-30", "gender": "Femme", "blood_group": "B+", "allergies": "Latex", "medical_history": "Asthme"},
		{"first_name": "David", "last_name": "Petit", "email": "david.petit@email.com", "phone": "0645678901", "date_of_birth": "1988-03-12", "gender": "Homme", "blood_group": "AB+", "allergies": "Aucune", "medical_history": "Aucun"},
		{"first_name": "Emma", "last_name": "Leroy", "email": "emma.leroy@email.com", "phone": "0656789012", "date_of_birth": "1995-07-18", "gender": "Femme", "blood_group": "O-", "allergies": "Fruits de mer", "medical_history": "Migraines chroniques"},
	}

	var ids []int64
	for _, p := range patients {
		email := p["email"].(string)
		if id := s.findPatient(email); id > 0 {
			ids = append(ids, id)
			continue
		}
		var resp struct {
			Patient struct {
				ID int64 `json:"id"`
			} `json:"patient"`
		}
		if s.post(s.cfg.PatientURL+"/api/patients", p, &resp) {
			log.Info().Str("email", email).Int64("id", resp.Patient.ID).Msg("patient created")
			ids = append(ids, resp.Patient.ID)
		}
	}
	return ids
}

func (s *seeder) findPatient(email string) int64 {
	resp, err := s.http.Get(s.cfg.PatientURL + "/api/patients?search=" + url.QueryEscape(email))
	if err != nil {
		return 0
	}
	defer resp.Body.Close()

	var body struct {
		Patients []struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"patients"`
	}
	if json.NewDecoder(resp.Body).Decode(&body) != nil {
		return 0
	}
	for _, p := range body.Patients {
		if p.Email == email {
			return p.ID
		}
	}
	return 0
}

func (s *seeder) seedMedicines() []int64 {
	medicines := []map[string]interface{}{
		{"name": "Paracétamol 500mg", "generic_name": "Acetaminophen", "manufacturer": "PharmaCorp", "category": "Antalgique", "dosage_form": "Comprimé", "strength": "500mg", "stock_quantity": 150, "min_stock_level": 30, "unit_price": 5.50, "expiry_date": "2026-12-31"},
		{"name": "Amoxicilline 1g", "generic_name": "Amoxicillin", "manufacturer": "AntibioLab", "category": "Antibiotique", "dosage_form": "Comprimé", "strength": "1g", "stock_quantity": 80, "min_stock_level": 20, "unit_price": 12.00, "expiry_date": "2026-06-30"},
		{"name": "Ibuprofène 400mg", "generic_name": "Ibuprofen", "manufacturer": "PharmaCorp", "category": "Anti-inflammatoire", "dosage_form": "Comprimé", "strength": "400mg", "stock_quantity": 120, "min_stock_level": 25, "unit_price": 7.80, "expiry_date": "2027-03-31"},
		{"name": "Omeprazole 20mg", "generic_name": "Omeprazole", "manufacturer": "GastroMed", "category": "Cardiovasculaire", "dosage_form": "Gélule", "strength": "20mg", "stock_quantity": 60, "min_stock_level": 15, "unit_price": 9.50, "expiry_date": "2026-09-30"},
		{"name": "Aspirine 100mg", "generic_name": "Aspirin", "manufacturer": "PharmaCorp", "category": "Antalgique", "dosage_form": "Comprimé", "strength": "100mg", "stock_quantity": 200, "min_stock_level": 40, "unit_price": 4.20, "expiry_date": "2027-12-31"},
		{"name": "Ventoline 100mcg", "generic_name": "Salbutamol", "manufacturer": "RespiLab", "category": "Antiviral", "dosage_form": "Inhalateur", "strength": "100mcg", "stock_quantity": 45, "min_stock_level": 10, "unit_price": 15.80, "expiry_date": "2026-08-31"},
	}

	var ids []int64
	for _, m := range medicines {
		var resp struct {
			Medicine struct {
				ID int64 `json:"id"`
			} `json:"medicine"`
		}
		if s.post(s.cfg.MedicineURL+"/api/medicines", m, &resp) {
			log.Info().Str("name", m["name"].(string)).Int64("id", resp.Medicine.ID).Msg("medicine created")
			ids = append(ids, resp.Medicine.ID)
		}
	}
	return ids
}

func (s *seeder) seedAppointments(patientIDs []int64) {
	if len(patientIDs) == 0 {
		return
	}
	bookings := []map[string]interface{}{
		{"first_name": "Alice", "last_name": "Dupont", "email": "alice.dupont@email.com", "phone": "0612345678", "doctor_name": "Dr. Smith", "duration": 30, "reason": "Routine"},
		{"first_name": "Bob", "last_name": "Martin", "email": "bob.martin@email.com", "phone": "0623456789", "doctor_name": "Dr. Jones", "duration": 30, "reason": "Suivi"},
		{"first_name": "Claire", "last_name": "Bernard", "email": "claire.bernard@email.com", "phone": "0634567890", "doctor_name": "Dr. Smith", "duration": 30, "reason": "Contrôle"},
	}
	now := time.Now()
	for i, b := range bookings {
		b["appointment_date"] = now.AddDate(0, 0, i+1).Format("2006-01-02") + " 09:00"
		if s.post(s.cfg.AppointmentURL+"/api/appointments", b, nil) {
			log.Info().Str("email", b["email"].(string)).Msg("appointment booked")
		}
	}
}

func (s *seeder) seedPrescriptions(patientIDs, medicineIDs []int64) {
	if len(patientIDs) < 2 || len(medicineIDs) < 3 {
		return
	}
	prescriptions := []map[string]interface{}{
		{
			"patient_id":  patientIDs[0],
			"doctor_name": "Dr. Smith",
			"diagnosis":   "Infection respiratoire",
			"notes":       "Repos",
			"medications": []map[string]interface{}{
				{"medicine_id": medicineIDs[1], "dosage": "1g", "frequency": "3/jour", "duration": "7 jours", "quantity": 1},
				{"medicine_id": medicineIDs[0], "dosage": "500mg", "frequency": "2/jour", "duration": "5 jours", "quantity": 1},
			},
		},
		{
			"patient_id":  patientIDs[1],
			"doctor_name": "Dr. Jones",
			"diagnosis":   "Douleurs musculaires",
			"medications": []map[string]interface{}{
				{"medicine_id": medicineIDs[2], "dosage": "400mg", "frequency": "2/jour", "duration": "3 jours", "quantity": 1},
			},
		},
	}
	for _, p := range prescriptions {
		if s.post(s.cfg.PrescriptionURL+"/api/prescriptions", p, nil) {
			log.Info().Int64("patient_id", p["patient_id"].(int64)).Msg("prescription created")
		}
	}
}

func (s *seeder) seedInvoices(patientIDs []int64) {
	if len(patientIDs) == 0 {
		return
	}
	invoice := map[string]interface{}{
		"consultation_id": 1,
		"patient_id":      patientIDs[0],
		"doctor_id":       1,
		"medication_cost": 20.5,
		"additional_fees": 15,
		"remboursement":   40,
		"payment_method":  "card",
		"due_date":        time.Now().AddDate(0, 0, 30).Format("2006-01-02"),
	}
	if s.post(s.cfg.BillingURL+"/api/invoices", invoice, nil) {
		log.Info().Msg("invoice created")
	}
}

func (s *seeder) seedBMIRecords(patientIDs []int64) {
	measurements := []struct {
		weight, height float64
	}{
		{72, 170},
		{85, 180},
		{65, 165},
	}
	for i, m := range measurements {
		if i >= len(patientIDs) {
			break
		}
		payload := map[string]interface{}{
			"patient_id": patientIDs[i],
			"weight":     m.weight,
			"height":     m.height,
		}
		var resp struct {
			BMI float64 `json:"bmi"`
		}
		if s.post(s.cfg.BillingURL+"/api/bmi/calculate", payload, &resp) {
			log.Info().Int64("patient_id", patientIDs[i]).Str("bmi", fmt.Sprintf("%.2f", resp.BMI)).Msg("bmi recorded")
		}
	}
}
