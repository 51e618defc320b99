package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/lpellecer/quetzal/internal/transaction"
)

type entryResponse struct {
	ID                  uuid.UUID          `json:"id"`
	Date                time.Time          `json:"date"`
	Description         string             `json:"description"`
	OriginalDescription string             `json:"original_description,omitempty"`
	Amount              int64              `json:"amount"`
	Type                transaction.Type   `json:"type"`
	Category            string             `json:"category,omitempty"`
	AccountName         string             `json:"account_name"`
	Currency            string             `json:"currency"`
	Holder              transaction.Holder `json:"holder"`
	CreatedAt           time.Time          `json:"created_at"`
}

func toResponse(e *transaction.Entry) entryResponse {
	return entryResponse{
		ID:                  e.ID,
		Date:                e.Date,
		Description:         e.Description,
		OriginalDescription: e.OriginalDescription,
		Amount:              e.Amount,
		Type:                e.Type,
		Category:            e.Category,
		AccountName:         e.AccountName,
		Currency:            e.Currency,
		Holder:              e.Holder,
		CreatedAt:           e.CreatedAt,
	}
}

func toResponseList(entries []*transaction.Entry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}
