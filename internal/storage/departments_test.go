package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boterrors "hr-intake-bot/internal/common/errors"
)

func TestDepartmentRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT department_id, title`).
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "title", "description", "image_ref"}).
			AddRow(1, "logistics", "warehouse work", "photo-1").
			AddRow(2, "sales", "", ""))

	repo := NewDepartmentRepo(db)
	out, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, "logistics", out[0].Title)
	assert.Equal(t, "sales", out[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepo_Insert_LowercasesTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO departments`).
		WithArgs("logistics", "warehouse work", "photo-1").
		WillReturnRows(sqlmock.NewRows([]string{"department_id"}).AddRow(7))

	repo := NewDepartmentRepo(db)
	id, err := repo.Insert(context.Background(), "  Logistics ", "warehouse work", "photo-1")

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepo_Insert_DuplicateTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO departments`).
		WithArgs("logistics", "", "").
		WillReturnError(&pq.Error{Code: "23505"})

	repo := NewDepartmentRepo(db)
	_, err = repo.Insert(context.Background(), "Logistics", "", "")

	assert.True(t, errors.Is(err, boterrors.ErrDuplicateDepartment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepo_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT title`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"title", "description", "image_ref"}))

	repo := NewDepartmentRepo(db)
	_, err = repo.Get(context.Background(), 99)

	assert.True(t, errors.Is(err, boterrors.ErrDepartmentNotFound))
}

func TestDepartmentRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM departments`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewDepartmentRepo(db)
	assert.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
