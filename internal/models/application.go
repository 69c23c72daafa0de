package models

import "time"

// ApplicationForm holds the scalar answers of one finished questionnaire.
// It is only ever persisted complete; partial forms live on the scratchpad.
type ApplicationForm struct {
	ID              int64     `json:"id" db:"form_id"`
	FullName        string    `json:"fullName" db:"full_name"`
	BirthDate       time.Time `json:"birthDate" db:"birth_date"`
	Phone           string    `json:"phone" db:"phonenum"`
	DepartmentID    int64     `json:"departmentId" db:"department_id"`
	Address         string    `json:"address" db:"address"`
	LivingCondition string    `json:"livingCondition" db:"living_condition"`
	EducationDegree string    `json:"educationDegree" db:"education_degree"`
	Married         bool      `json:"married" db:"marital_status"`
	MilitaryService bool      `json:"militaryService" db:"military_service"`
	CriminalRecord  string    `json:"criminalRecord" db:"criminal_record"`
	DriverLicence   string    `json:"driverLicence" db:"driver_license"`
	PersonalCar     string    `json:"personalCar" db:"personal_car"`
	Origin          string    `json:"origin" db:"origin"`
	LastSalary      string    `json:"lastSalary" db:"salary_last_job"`
	AgreesOvertime  bool      `json:"agreesOvertime" db:"overwork_agreement"`
	AgreesCutSalary bool      `json:"agreesCutSalary" db:"force_majeure_salary_agreement"`
	WorkingStyle    string    `json:"workingStyle" db:"working_style"`
	Health          string    `json:"health" db:"health"`
	PhotoRef        string    `json:"photoRef" db:"photo_id"`
	RegisteredAt    time.Time `json:"registeredAt" db:"registered_at"`
}

// University is one completed education-history item.
type University struct {
	Name    string `json:"name" db:"name"`
	Faculty string `json:"faculty" db:"faculty"`
	Years   string `json:"years" db:"years"`
}

// Employer is one completed employment-history item.
type Employer struct {
	Name     string `json:"name" db:"name"`
	Position string `json:"position" db:"position"`
	Years    string `json:"years" db:"years"`
}

// Trip is one completed travel-history item.
type Trip struct {
	Country string `json:"country" db:"country"`
	Reason  string `json:"reason" db:"reason"`
	Year    string `json:"year" db:"traveled_at"`
}

// Language is one self-reported language with a 1-5 level.
type Language struct {
	Name  string `json:"name" db:"name"`
	Level string `json:"level" db:"level"`
}

// Skill is one self-assessed software skill.
type Skill struct {
	Name       string `json:"name" db:"type"`
	Assessment string `json:"assessment" db:"text"`
}

// Collections bundles all repeatable-section rows belonging to one form,
// each slice in insertion order.
type Collections struct {
	Universities []University `json:"universities"`
	Employers    []Employer   `json:"employers"`
	Trips        []Trip       `json:"trips"`
	Languages    []Language   `json:"languages"`
	Skills       []Skill      `json:"skills"`
}
