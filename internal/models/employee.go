package models

import "time"

// Employee represents an employee record owned by a single user.
type Employee struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	Courses     []string  `json:"courses"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EmployeeInput is the set of fields accepted when an employee is created.
type EmployeeInput struct {
	Name        string   `json:"name"        validate:"required,min=2,max=100"`
	Email       string   `json:"email"       validate:"required,email"`
	Mobile      string   `json:"mobile"      validate:"required,number,min=10,max=15"`
	Designation string   `json:"designation" validate:"required,oneof=HR Manager Sales"`
	Gender      string   `json:"gender"      validate:"required,oneof=M F"`
	Courses     []string `json:"courses"     validate:"omitempty,dive,oneof=MCA BCA BSC"`
	Image       string   `json:"image"       validate:"omitempty,url"`
}

// EmployeePatch carries a partial update. Nil fields are left untouched, present ones are validated
// like on create. An empty image clears it.
type EmployeePatch struct {
	Name        *string   `json:"name"        validate:"omitnil,min=2,max=100"`
	Email       *string   `json:"email"       validate:"omitnil,email"`
	Mobile      *string   `json:"mobile"      validate:"omitnil,number,min=10,max=15"`
	Designation *string   `json:"designation" validate:"omitnil,oneof=HR Manager Sales"`
	Gender      *string   `json:"gender"      validate:"omitnil,oneof=M F"`
	Courses     *[]string `json:"courses"     validate:"omitnil,dive,oneof=MCA BCA BSC"`
	Image       *string   `json:"image"       validate:"omitnil,url|eq="`
}

// NewEmployee builds an unsaved employee owned by userID from the create input.
func NewEmployee(userID string, input EmployeeInput) Employee {
	courses := input.Courses
	if courses == nil {
		courses = []string{}
	}

	return Employee{
		UserID:      userID,
		Name:        input.Name,
		Email:       input.Email,
		Mobile:      input.Mobile,
		Designation: input.Designation,
		Gender:      input.Gender,
		Courses:     courses,
		Image:       input.Image,
	}
}
