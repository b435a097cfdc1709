package repository_test_test

import (
	"testing"

	"student_auth_ms/repository"
	"student_auth_ms/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGetByMatric_SQLMock(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)
	rows := sqlmock.NewRows([]string{"matric_number", "password"}).
		AddRow("21CG029882", "$2a$10$hash")
	mock.ExpectQuery(`SELECT \* FROM "students" WHERE matric_number = \$1 ORDER BY "students"\."matric_number" LIMIT \$2`).
		WithArgs("21CG029882", 1).
		WillReturnRows(rows)

	repo := repository.NewStudentRepository()
	student, err := repo.GetByMatric(conn, "21CG029882")

	assert.NoError(t, err)
	assert.NotNil(t, student)
	assert.Equal(t, "21CG029882", student.MatricNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByMatric_NotFound(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "students" WHERE matric_number = \$1 ORDER BY "students"\."matric_number" LIMIT \$2`).
		WithArgs("UNKNOWN", 1).
		WillReturnRows(sqlmock.NewRows([]string{"matric_number", "password"}))

	repo := repository.NewStudentRepository()
	student, err := repo.GetByMatric(conn, "UNKNOWN")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, student)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByMatricForUpdate_LocksRow(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)
	rows := sqlmock.NewRows([]string{"matric_number", "password"}).
		AddRow("21CG029882", "$2a$10$hash")
	mock.ExpectQuery(`SELECT \* FROM "students" WHERE matric_number = \$1 ORDER BY "students"\."matric_number" LIMIT \$2 FOR UPDATE`).
		WithArgs("21CG029882", 1).
		WillReturnRows(rows)

	repo := repository.NewStudentRepository()
	student, err := repo.GetByMatricForUpdate(conn, "21CG029882")

	assert.NoError(t, err)
	assert.NotNil(t, student)
	assert.NoError(t, mock.ExpectationsWereMet())
}
