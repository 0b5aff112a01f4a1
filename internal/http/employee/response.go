package employee

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/employee"
)

type employeeResponse struct {
	ID          uuid.UUID  `json:"id"`
	Number      string     `json:"employee_number"`
	Name        string     `json:"name"`
	Department  string     `json:"department"`
	ContactInfo string     `json:"contact_info"`
	HireDate    string     `json:"hire_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:          e.ID,
		Number:      e.Number,
		Name:        e.Name,
		Department:  e.Department,
		ContactInfo: e.ContactInfo,
		HireDate:    e.HireDate.Display(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toResponseList(es []*employee.Employee) []employeeResponse {
	resp := make([]employeeResponse, len(es))
	for i, e := range es {
		resp[i] = toResponse(e)
	}

	return resp
}

type skippedRowResponse struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type importResponse struct {
	Charset    string               `json:"charset"`
	Imported   []employeeResponse   `json:"imported"`
	Duplicates []string             `json:"duplicates"`
	Invalid    []skippedRowResponse `json:"invalid"`
}
