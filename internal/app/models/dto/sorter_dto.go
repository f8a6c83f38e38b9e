package dto

import "github.com/idil/placematch/internal/app/models"

// SorterStudent is one student record in the sorter payload.
type SorterStudent struct {
	StudentID  string   `json:"studentid"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Choices    []string `json:"choices"`
}

// SorterPayload is the combined data package handed to the external matching
// computation. Field names follow the established feed contract; the matching
// algorithm itself lives outside this service.
type SorterPayload struct {
	StudentsArray  []SorterStudent        `json:"studentsArray"`
	CompanyChoices []models.CompanyChoice `json:"companyChoices"`
}
