package models

import "fmt"

// Dept is an academic department
type Dept struct {
	ID   string `json:"id" db:"id" example:"CS"`
	Name string `json:"name" db:"name" example:"Computer Science"`
}

// Class is one section of one semester within a department
type Class struct {
	ID      string `json:"id" db:"id" example:"CS5A"`
	DeptID  string `json:"dept_id" db:"dept_id" example:"CS"`
	Sem     int    `json:"sem" db:"sem" example:"5"`
	Section string `json:"section" db:"section" example:"A"`

	// Relations (populated when needed)
	Dept *Dept `json:"dept,omitempty"`
}

// DisplayName renders "<dept name> : <sem> <section>", or the id when the dept is not loaded
func (c *Class) DisplayName() string {
	if c.Dept == nil {
		return c.ID
	}
	return fmt.Sprintf("%s : %d %s", c.Dept.Name, c.Sem, c.Section)
}

// Course is a subject offered by a department
type Course struct {
	ID        string `json:"id" db:"id" example:"CS510"`
	DeptID    string `json:"dept_id" db:"dept_id" example:"CS"`
	Name      string `json:"name" db:"name" example:"Compilers"`
	Shortname string `json:"shortname" db:"shortname" example:"CD"`
}
