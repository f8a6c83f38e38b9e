package dto

import "github.com/idil/placematch/internal/app/models"

// UpdateCompanyChoicesRequest replaces the admin's curated company-side
// preference data wholesale.
type UpdateCompanyChoicesRequest struct {
	CompanyChoices []models.CompanyChoice `json:"companyChoices" binding:"required,min=1,dive"`
}

// AddCompanyRequest adds one company to the catalog
type AddCompanyRequest struct {
	Name string `form:"name" json:"name" binding:"required"`
}

// StudentChoicesRow is one row of the admin dashboard's student table:
// a student who has submitted choices, with their ordered list.
type StudentChoicesRow struct {
	StudentID  string   `json:"studentId"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Choices    []string `json:"choices"`
}

// AdminDashboard is the data behind the admin dashboard view: both
// aggregation tables side by side.
type AdminDashboard struct {
	StudentChoicesTable []StudentChoicesRow    `json:"studentChoicesTable"`
	CompanyChoicesTable []models.CompanyChoice `json:"companyChoicesTable"`
}
