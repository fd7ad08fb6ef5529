package client

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-services/internal/model"
)

// DoctorClient talks to the doctor directory service.
type DoctorClient struct {
	baseClient
}

func NewDoctorClient(baseURL string) *DoctorClient {
	return &DoctorClient{baseClient: newBaseClient(baseURL)}
}

// Get returns the doctor, or (nil, nil) when the directory has no such
// doctor or does not answer.
func (c *DoctorClient) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	var resp struct {
		Success bool          `json:"success"`
		Doctor  *model.Doctor `json:"doctor"`
	}
	if !c.getJSON(ctx, fmt.Sprintf("/api/doctors/%d", id), &resp) || !resp.Success {
		return nil, nil
	}
	return resp.Doctor, nil
}
