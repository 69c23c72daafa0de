package flow

// Collection names used by the repeatable sections, the scratchpad and the
// commit assembler.
const (
	CollectionUniversities = "universities"
	CollectionEmployers    = "employers"
	CollectionTrips        = "trips"
	CollectionLanguages    = "languages"
	CollectionSkills       = "skills"
)

// Step ids of the applicant questionnaire.
const (
	StepFullName     StepID = "full_name"
	StepBirthDate    StepID = "birth_date"
	StepPhone        StepID = "phone"
	StepPhoneConfirm StepID = "phone_confirm"
	StepDepartment   StepID = "department"
	StepAddress      StepID = "address"
	StepLiving       StepID = "living_condition"
	StepEducation    StepID = "education_degree"

	StepUniversities      StepID = "universities"
	StepUniversityName    StepID = "university_name"
	StepUniversityFaculty StepID = "university_faculty"
	StepUniversityYears   StepID = "university_years"

	StepMarried StepID = "married"

	StepEmployers        StepID = "employers"
	StepEmployerName     StepID = "employer_name"
	StepEmployerPosition StepID = "employer_position"
	StepEmployerYears    StepID = "employer_years"

	StepTrips       StepID = "trips"
	StepTripCountry StepID = "trip_country"
	StepTripReason  StepID = "trip_reason"
	StepTripYear    StepID = "trip_year"

	StepMilitary    StepID = "military_service"
	StepCriminal    StepID = "criminal_record"
	StepLicence     StepID = "driver_licence"
	StepPersonalCar StepID = "personal_car"

	StepLanguages     StepID = "languages"
	StepLanguageName  StepID = "language_name"
	StepLanguageLevel StepID = "language_level"

	StepSkills          StepID = "skills"
	StepSkillName       StepID = "skill_name"
	StepSkillAssessment StepID = "skill_assessment"

	StepOrigin       StepID = "origin"
	StepSalary       StepID = "salary"
	StepOvertime     StepID = "overtime"
	StepForceMajeure StepID = "force_majeure"
	StepStyle        StepID = "working_style"
	StepHealth       StepID = "health"
	StepPhoto        StepID = "photo"
)

func yesNo(next StepID) []Choice {
	return []Choice{
		{Label: TextButtonYes, Record: "yes", Bool: true, IsBool: true, Next: next},
		{Label: TextButtonNo, Record: "no", IsBool: true, Next: next},
	}
}

// DefaultGraph declares the complete applicant questionnaire. The graph is
// data, not code: handlers interpret it step by step, and Validate checks
// it at startup.
func DefaultGraph() *Graph {
	return NewGraph(StepFullName,
		&Step{
			ID: StepFullName, Key: "full_name", Label: "Full name",
			Prompt:    "Enter your full name (surname, name, patronymic).",
			Kind:      KindText,
			Validator: ValidatorFullName,
			Next:      StepBirthDate,
		},
		&Step{
			ID: StepBirthDate, Key: "birth_date", Label: "Date of birth",
			Prompt:    "Enter your date of birth, for example 24.03.1998.",
			Kind:      KindText,
			Validator: ValidatorDate,
			Next:      StepPhone,
		},
		&Step{
			ID: StepPhone, Key: "phone", Label: "Phone",
			Prompt:          "Share your phone number or type it like +998901234567.",
			Kind:            KindText,
			Validator:       ValidatorPhone,
			Next:            StepPhoneConfirm,
			DeferTranscript: true,
		},
		&Step{
			ID: StepPhoneConfirm, Key: "phone_confirm", Label: "Phone",
			Prompt: "Is this number correct?",
			Kind:   KindChoice,
			Choices: []Choice{
				{Label: TextButtonYes, Skip: true, EmitAnswer: "phone", Next: StepDepartment},
				{Label: TextButtonNo, Skip: true, Next: StepPhone},
			},
		},
		&Step{
			ID: StepDepartment, Key: "department", Label: "Department",
			Prompt: "Choose the department you want to work in.",
			Kind:   KindCatalog,
			Next:   StepAddress,
		},
		&Step{
			ID: StepAddress, Key: "address", Label: "Address",
			Prompt:    "Enter your current home address.",
			Kind:      KindText,
			Validator: ValidatorText,
			Next:      StepLiving,
		},
		&Step{
			ID: StepLiving, Key: "living_condition", Label: "Living condition",
			Prompt: "What are your living conditions?",
			Kind:   KindChoice,
			Choices: []Choice{
				{Label: "Own home", Record: "own home"},
				{Label: "Rented", Record: "rented"},
				{Label: "With relatives", Record: "with relatives"},
			},
			Next: StepEducation,
		},
		&Step{
			ID: StepEducation, Key: "education_degree", Label: "Education",
			Prompt: "What is your education level?",
			Kind:   KindChoice,
			Choices: []Choice{
				{Label: "Secondary", Record: "secondary"},
				{Label: "Specialized secondary", Record: "specialized secondary"},
				{Label: "Higher", Record: "higher"},
			},
			Next: StepUniversities,
		},

		&Step{
			ID: StepUniversities, Label: "Education history",
			Prompt:      "Add the institutions you studied at, then press Next.",
			Kind:        KindRepeatChoice,
			Collection:  CollectionUniversities,
			AddStep:     StepUniversityName,
			Next:        StepMarried,
			ItemLabel:   "Institution",
			FieldLabels: []string{"Name", "Faculty", "Years"},
		},
		&Step{
			ID: StepUniversityName,
			Prompt:     "Enter the institution name.",
			Kind:       KindRepeatField,
			Collection: CollectionUniversities,
			Validator:  ValidatorText,
			Next:       StepUniversityFaculty,
		},
		&Step{
			ID: StepUniversityFaculty,
			Prompt:     "Enter the faculty or specialty.",
			Kind:       KindRepeatField,
			Collection: CollectionUniversities,
			Validator:  ValidatorText,
			Next:       StepUniversityYears,
		},
		&Step{
			ID: StepUniversityYears,
			Prompt:     "Enter the study years, for example 2015 - 2019.",
			Kind:       KindRepeatField,
			Collection: CollectionUniversities,
			Validator:  ValidatorYearRange,
			Next:       StepUniversities,
			Final:      true,
		},

		&Step{
			ID: StepMarried, Key: "married", Label: "Married",
			Prompt:  "Are you married?",
			Kind:    KindChoice,
			Choices: yesNo(StepEmployers),
		},

		&Step{
			ID: StepEmployers, Label: "Employment history",
			Prompt:      "Add the companies you worked at, then press Next.",
			Kind:        KindRepeatChoice,
			Collection:  CollectionEmployers,
			AddStep:     StepEmployerName,
			Next:        StepTrips,
			ItemLabel:   "Company",
			FieldLabels: []string{"Name", "Position", "Years"},
		},
		&Step{
			ID: StepEmployerName,
			Prompt:     "Enter the company name.",
			Kind:       KindRepeatField,
			Collection: CollectionEmployers,
			Validator:  ValidatorText,
			Next:       StepEmployerPosition,
		},
		&Step{
			ID: StepEmployerPosition,
			Prompt:     "Enter your position there.",
			Kind:       KindRepeatField,
			Collection: CollectionEmployers,
			Validator:  ValidatorText,
			Next:       StepEmployerYears,
		},
		&Step{
			ID: StepEmployerYears,
			Prompt:     "Enter the employment years, for example 2019 - 2023.",
			Kind:       KindRepeatField,
			Collection: CollectionEmployers,
			Validator:  ValidatorYearRange,
			Next:       StepEmployers,
			Final:      true,
		},

		&Step{
			ID: StepTrips, Label: "Trips abroad",
			Prompt:      "Add your trips abroad, then press Next.",
			Kind:        KindRepeatChoice,
			Collection:  CollectionTrips,
			AddStep:     StepTripCountry,
			Next:        StepMilitary,
			ItemLabel:   "Trip",
			FieldLabels: []string{"Country", "Reason", "Year"},
		},
		&Step{
			ID: StepTripCountry,
			Prompt:     "Which country did you visit?",
			Kind:       KindRepeatField,
			Collection: CollectionTrips,
			Validator:  ValidatorText,
			Next:       StepTripReason,
		},
		&Step{
			ID: StepTripReason,
			Prompt:     "What was the reason for the trip?",
			Kind:       KindRepeatField,
			Collection: CollectionTrips,
			Validator:  ValidatorText,
			Next:       StepTripYear,
		},
		&Step{
			ID: StepTripYear,
			Prompt:     "Which year was it, for example 2018?",
			Kind:       KindRepeatField,
			Collection: CollectionTrips,
			Validator:  ValidatorYear,
			Next:       StepTrips,
			Final:      true,
		},

		&Step{
			ID: StepMilitary, Key: "military_service", Label: "Military service",
			Prompt:  "Did you serve in the military?",
			Kind:    KindChoice,
			Choices: yesNo(StepCriminal),
		},
		&Step{
			ID: StepCriminal, Key: "criminal_record", Label: "Criminal record",
			Prompt:    "Do you have a criminal record? Describe or write \"none\".",
			Kind:      KindText,
			Validator: ValidatorText,
			Next:      StepLicence,
		},
		&Step{
			ID: StepLicence, Key: "driver_licence", Label: "Driver licence",
			Prompt:    "Which driver licence categories do you hold? Write \"none\" if you have no licence.",
			Kind:      KindText,
			Validator: ValidatorText,
			Next:      StepPersonalCar,
		},
		&Step{
			ID: StepPersonalCar, Key: "personal_car", Label: "Personal car",
			Prompt:    "Do you have a personal car? Name the model or write \"none\".",
			Kind:      KindText,
			Validator: ValidatorText,
			Next:      StepLanguages,
		},

		&Step{
			ID: StepLanguages, Label: "Languages",
			Prompt:      "Add the languages you speak, then press Next.",
			Kind:        KindRepeatChoice,
			Collection:  CollectionLanguages,
			AddStep:     StepLanguageName,
			Next:        StepSkills,
			ItemLabel:   "Language",
			FieldLabels: []string{"Name", "Level"},
		},
		&Step{
			ID: StepLanguageName,
			Prompt:     "Enter the language name.",
			Kind:       KindRepeatField,
			Collection: CollectionLanguages,
			Validator:  ValidatorText,
			Next:       StepLanguageLevel,
		},
		&Step{
			ID: StepLanguageLevel,
			Prompt: "Rate your proficiency from 1 to 5.",
			Kind:   KindRepeatField,
			Choices: []Choice{
				{Label: "1", Record: "1"},
				{Label: "2", Record: "2"},
				{Label: "3", Record: "3"},
				{Label: "4", Record: "4"},
				{Label: "5", Record: "5"},
			},
			Collection: CollectionLanguages,
			Next:       StepLanguages,
			Final:      true,
		},

		&Step{
			ID: StepSkills, Label: "Software skills",
			Prompt:      "Add the programs you can work with, then press Next.",
			Kind:        KindRepeatChoice,
			Collection:  CollectionSkills,
			AddStep:     StepSkillName,
			Next:        StepOrigin,
			ItemLabel:   "Program",
			FieldLabels: []string{"Name", "Proficiency"},
		},
		&Step{
			ID: StepSkillName,
			Prompt:     "Enter the program name.",
			Kind:       KindRepeatField,
			Collection: CollectionSkills,
			Validator:  ValidatorText,
			Next:       StepSkillAssessment,
		},
		&Step{
			ID: StepSkillAssessment,
			Prompt:     "Describe how well you know it.",
			Kind:       KindRepeatField,
			Collection: CollectionSkills,
			Validator:  ValidatorText,
			Next:       StepSkills,
			Final:      true,
		},

		&Step{
			ID: StepOrigin, Key: "origin", Label: "Origin",
			Prompt: "Are you local or from another region?",
			Kind:   KindChoice,
			Choices: []Choice{
				{Label: "Local", Record: "local"},
				{Label: "From another region", Record: "out of region"},
			},
			Next: StepSalary,
		},
		&Step{
			ID: StepSalary, Key: "salary", Label: "Last salary",
			Prompt:    "What was your salary at your last job?",
			Kind:      KindText,
			Validator: ValidatorText,
			Next:      StepOvertime,
		},
		&Step{
			ID: StepOvertime, Key: "overtime", Label: "Agrees to overtime",
			Prompt:  "Are you ready to work overtime when needed?",
			Kind:    KindChoice,
			Choices: yesNo(StepForceMajeure),
		},
		&Step{
			ID: StepForceMajeure, Key: "force_majeure", Label: "Agrees to reduced pay in force majeure",
			Prompt:  "In case of force majeure, do you agree to a temporarily reduced salary?",
			Kind:    KindChoice,
			Choices: yesNo(StepStyle),
		},
		&Step{
			ID: StepStyle, Key: "working_style", Label: "Working style",
			Prompt: "Do you prefer working independently or in a team?",
			Kind:   KindChoice,
			Choices: []Choice{
				{Label: "Independently", Record: "independent"},
				{Label: "In a team", Record: "team"},
			},
			Next: StepHealth,
		},
		&Step{
			ID: StepHealth, Key: "health", Label: "Health",
			Prompt:    "Describe your health condition.",
			Kind:      KindText,
			Validator: ValidatorText,
			Next:      StepPhoto,
		},
		&Step{
			ID: StepPhoto, Key: "photo", Label: "Photo",
			Prompt: "Finally, send your photo (3x4).",
			Kind:   KindPhoto,
		},
	)
}
