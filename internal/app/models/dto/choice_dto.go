package dto

// SubmitChoicesRequest represents a ranked company-choice submission. Form
// clients repeat the choices field once per entry; JSON clients send an array.
// Order is meaningful and the whole list replaces any previous submission.
type SubmitChoicesRequest struct {
	Choices []string `form:"choices" json:"choices" binding:"required,min=1,dive,required"`
}

// ProfilePage is the data behind the student profile view: the student's own
// record, their current submission and the catalog to pick from.
type ProfilePage struct {
	StudentID   string   `json:"studentId"`
	Name        string   `json:"name"`
	Department  string   `json:"department"`
	Choices     []string `json:"choices"`
	CompanyList []string `json:"companyList"`
}
