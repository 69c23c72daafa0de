package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hr-intake-bot/internal/common/logger"
	"hr-intake-bot/internal/models"
)

// ApplicationRepo implements ApplicationStore over PostgreSQL.
type ApplicationRepo struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationRepo(db *sql.DB, log logger.Logger) *ApplicationRepo {
	return &ApplicationRepo{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "application-repo"}),
	}
}

// Commit writes the primary form row, the department link, and every
// collection row inside one transaction, then points the actor at the new
// form. Returns the new form id.
func (r *ApplicationRepo) Commit(ctx context.Context, actorID int64, form *models.ApplicationForm, cols *models.Collections) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("commit begin: %w", err)
	}
	defer tx.Rollback()

	var formID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO forms (
			full_name, birth_date, phonenum, address, living_condition,
			education_degree, marital_status, military_service, criminal_record,
			driver_license, personal_car, origin, salary_last_job,
			overwork_agreement, force_majeure_salary_agreement, working_style,
			health, photo_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING form_id`,
		form.FullName, form.BirthDate, form.Phone, form.Address, form.LivingCondition,
		form.EducationDegree, form.Married, form.MilitaryService, form.CriminalRecord,
		form.DriverLicence, form.PersonalCar, form.Origin, form.LastSalary,
		form.AgreesOvertime, form.AgreesCutSalary, form.WorkingStyle,
		form.Health, form.PhotoRef,
	).Scan(&formID)
	if err != nil {
		return 0, fmt.Errorf("commit form insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO forms_departments (form_id, department_id) VALUES ($1, $2)`,
		formID, form.DepartmentID); err != nil {
		return 0, fmt.Errorf("commit department link: %w", err)
	}

	for _, u := range cols.Universities {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO universities (form_id, name, faculty, years) VALUES ($1, $2, $3, $4)`,
			formID, u.Name, u.Faculty, u.Years); err != nil {
			return 0, fmt.Errorf("commit university insert: %w", err)
		}
	}
	for _, e := range cols.Employers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO worked_companies (form_id, name, position, years) VALUES ($1, $2, $3, $4)`,
			formID, e.Name, e.Position, e.Years); err != nil {
			return 0, fmt.Errorf("commit employer insert: %w", err)
		}
	}
	for _, t := range cols.Trips {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO trips (form_id, country, reason, traveled_at) VALUES ($1, $2, $3, $4)`,
			formID, t.Country, t.Reason, t.Year); err != nil {
			return 0, fmt.Errorf("commit trip insert: %w", err)
		}
	}
	for _, l := range cols.Languages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO languages (form_id, name, level) VALUES ($1, $2, $3)`,
			formID, l.Name, l.Level); err != nil {
			return 0, fmt.Errorf("commit language insert: %w", err)
		}
	}
	for _, s := range cols.Skills {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO self_assessment (form_id, type, text) VALUES ($1, $2, $3)`,
			formID, s.Name, s.Assessment); err != nil {
			return 0, fmt.Errorf("commit skill insert: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE actors SET form_id = $1 WHERE actor_id = $2`,
		formID, actorID); err != nil {
		return 0, fmt.Errorf("commit actor link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	r.writeAuditLog(ctx, formID, form, cols)
	return formID, nil
}

// writeAuditLog records the commit outside the transaction; failures are
// logged and do not fail the application.
func (r *ApplicationRepo) writeAuditLog(ctx context.Context, formID int64, form *models.ApplicationForm, cols *models.Collections) {
	details, err := json.Marshal(map[string]interface{}{
		"formId":       formID,
		"departmentId": form.DepartmentID,
		"universities": len(cols.Universities),
		"employers":    len(cols.Employers),
		"trips":        len(cols.Trips),
		"languages":    len(cols.Languages),
		"skills":       len(cols.Skills),
	})
	if err != nil {
		details = []byte("{}")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_id, event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), "application_committed", "form", formID, details,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		r.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":  err,
			"formId": formID,
		})
	}
}
