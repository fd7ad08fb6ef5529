package client

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-services/internal/model"
)

// MedicineClient talks to the medicine inventory service.
type MedicineClient struct {
	baseClient
}

func NewMedicineClient(baseURL string) *MedicineClient {
	return &MedicineClient{baseClient: newBaseClient(baseURL)}
}

// Get returns the medicine, or (nil, nil) when the inventory has no such
// medicine or does not answer.
func (c *MedicineClient) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	var resp struct {
		Success  bool            `json:"success"`
		Medicine *model.Medicine `json:"medicine"`
	}
	if !c.getJSON(ctx, fmt.Sprintf("/api/medicines/%d", id), &resp) || !resp.Success {
		return nil, nil
	}
	return resp.Medicine, nil
}

// Stock is the lightweight stock view of the inventory service.
type Stock struct {
	MedicineID int64  `json:"medicine_id"`
	Quantity   int    `json:"stock"`
	MinLevel   int    `json:"min_level"`
	Status     string `json:"status"`
}

// GetStock returns the current stock level, or (nil, nil) when the
// inventory does not answer.
func (c *MedicineClient) GetStock(ctx context.Context, id int64) (*Stock, error) {
	var resp struct {
		Success bool `json:"success"`
		Stock
	}
	if !c.getJSON(ctx, fmt.Sprintf("/api/medicines/%d/stock", id), &resp) || !resp.Success {
		return nil, nil
	}
	s := resp.Stock
	return &s, nil
}
