package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/clinichub/clinic-services/internal/model"
)

// PatientClient talks to the patient directory service.
type PatientClient struct {
	baseClient
}

func NewPatientClient(baseURL string) *PatientClient {
	return &PatientClient{baseClient: newBaseClient(baseURL)}
}

// Get returns the patient, or (nil, nil) when the directory has no such
// patient or does not answer.
func (c *PatientClient) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var resp struct {
		Success bool           `json:"success"`
		Patient *model.Patient `json:"patient"`
	}
	if !c.getJSON(ctx, fmt.Sprintf("/api/patients/%d", id), &resp) || !resp.Success {
		return nil, nil
	}
	return resp.Patient, nil
}

// SearchByEmail looks a patient up through the directory's search endpoint
// and keeps only an exact email match.
func (c *PatientClient) SearchByEmail(ctx context.Context, email string) (*model.Patient, error) {
	var resp struct {
		Success  bool             `json:"success"`
		Patients []*model.Patient `json:"patients"`
	}
	path := "/api/patients?search=" + url.QueryEscape(email)
	if !c.getJSON(ctx, path, &resp) || !resp.Success {
		return nil, nil
	}
	for _, p := range resp.Patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

// Create registers a new patient in the directory. Unlike the lookups this
// is a hard call: the booking flow aborts when it fails.
func (c *PatientClient) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	var resp struct {
		Success bool           `json:"success"`
		Patient *model.Patient `json:"patient"`
	}
	if err := c.postJSON(ctx, "/api/patients", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	if !resp.Success || resp.Patient == nil {
		return nil, fmt.Errorf("patient service rejected the creation")
	}
	return resp.Patient, nil
}
