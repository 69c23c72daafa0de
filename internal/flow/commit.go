package flow

import (
	"fmt"
	"time"

	"hr-intake-bot/internal/models"
	"hr-intake-bot/internal/session"
)

// assemble converts the completed scratchpad into the typed form and
// collection records the storage layer persists. Missing scalar answers are
// an internal error: the graph guarantees every key was visited before the
// terminal step.
func assemble(pad *session.Scratchpad, photoRef string) (*models.ApplicationForm, *models.Collections, error) {
	birth, err := time.Parse("2006-01-02", pad.Answers["birth_date"].Date)
	if err != nil {
		return nil, nil, fmt.Errorf("assemble: bad birth date: %w", err)
	}

	form := &models.ApplicationForm{
		FullName:        pad.Answers["full_name"].Text,
		BirthDate:       birth,
		Phone:           pad.Answers["phone"].Text,
		DepartmentID:    pad.Answers["department"].ID,
		Address:         pad.Answers["address"].Text,
		LivingCondition: pad.Answers["living_condition"].Text,
		EducationDegree: pad.Answers["education_degree"].Text,
		Married:         pad.Answers["married"].Bool,
		MilitaryService: pad.Answers["military_service"].Bool,
		CriminalRecord:  pad.Answers["criminal_record"].Text,
		DriverLicence:   pad.Answers["driver_licence"].Text,
		PersonalCar:     pad.Answers["personal_car"].Text,
		Origin:          pad.Answers["origin"].Text,
		LastSalary:      pad.Answers["salary"].Text,
		AgreesOvertime:  pad.Answers["overtime"].Bool,
		AgreesCutSalary: pad.Answers["force_majeure"].Bool,
		WorkingStyle:    pad.Answers["working_style"].Text,
		Health:          pad.Answers["health"].Text,
		PhotoRef:        photoRef,
	}
	if form.FullName == "" || form.Phone == "" || form.DepartmentID == 0 {
		return nil, nil, fmt.Errorf("assemble: incomplete scratchpad")
	}

	cols := &models.Collections{}
	for _, f := range pad.Items(CollectionUniversities) {
		if len(f) != 3 {
			return nil, nil, fmt.Errorf("assemble: malformed university item")
		}
		cols.Universities = append(cols.Universities, models.University{Name: f[0], Faculty: f[1], Years: f[2]})
	}
	for _, f := range pad.Items(CollectionEmployers) {
		if len(f) != 3 {
			return nil, nil, fmt.Errorf("assemble: malformed employer item")
		}
		cols.Employers = append(cols.Employers, models.Employer{Name: f[0], Position: f[1], Years: f[2]})
	}
	for _, f := range pad.Items(CollectionTrips) {
		if len(f) != 3 {
			return nil, nil, fmt.Errorf("assemble: malformed trip item")
		}
		cols.Trips = append(cols.Trips, models.Trip{Country: f[0], Reason: f[1], Year: f[2]})
	}
	for _, f := range pad.Items(CollectionLanguages) {
		if len(f) != 2 {
			return nil, nil, fmt.Errorf("assemble: malformed language item")
		}
		cols.Languages = append(cols.Languages, models.Language{Name: f[0], Level: f[1]})
	}
	for _, f := range pad.Items(CollectionSkills) {
		if len(f) != 2 {
			return nil, nil, fmt.Errorf("assemble: malformed skill item")
		}
		cols.Skills = append(cols.Skills, models.Skill{Name: f[0], Assessment: f[1]})
	}
	return form, cols, nil
}
