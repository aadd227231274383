package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/athenaeum/data"
)

type students interface {
	CreateStudent(student *data.Student) error
	GetStudentByID(ID int64) (*data.Student, error)
	GetAllStudents(search string, filters data.Filters) ([]*data.Student, data.Metadata, error)
	UpdateStudent(student *data.Student) error
	DeleteStudent(ID int64) error
}

const studentColumns = `id, created_at, reg_no, name, email, phone, department, semester, version`

// CreateStudent creates a new student registry record.
func (r *repository) CreateStudent(student *data.Student) error {
	query := `
		INSERT INTO students (reg_no, name, email, phone, department, semester)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version`
	args := []interface{}{student.RegNo, student.Name, student.Email, student.Phone, student.Department, student.Semester}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&student.ID,
		&student.CreatedAt,
		&student.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "students_reg_no_key"`:
			return ErrDuplicateRecord
		case err.Error() == `pq: duplicate key value violates unique constraint "students_email_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetStudentByID retrieves a student registry record by its ID.
func (r *repository) GetStudentByID(ID int64) (*data.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE id = $1`
	var student data.Student
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, ID).Scan(
		&student.ID,
		&student.CreatedAt,
		&student.RegNo,
		&student.Name,
		&student.Email,
		&student.Phone,
		&student.Department,
		&student.Semester,
		&student.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &student, nil
}

// GetAllStudents retrieves a paginated list of student registry records.
// Records can be searched by registration number, name or email.
func (r *repository) GetAllStudents(search string, filters data.Filters) ([]*data.Student, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+studentColumns+`
		FROM students
		WHERE (reg_no ILIKE '%%' || $1 || '%%' OR name ILIKE '%%' || $1 || '%%' OR email ILIKE '%%' || $1 || '%%' OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{search, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	students := []*data.Student{}
	for rows.Next() {
		var student data.Student
		err := rows.Scan(
			&totalRecords,
			&student.ID,
			&student.CreatedAt,
			&student.RegNo,
			&student.Name,
			&student.Email,
			&student.Phone,
			&student.Department,
			&student.Semester,
			&student.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		students = append(students, &student)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return students, metadata, nil
}

// UpdateStudent updates a student registry record.
func (r *repository) UpdateStudent(student *data.Student) error {
	query := `
		UPDATE students
		SET reg_no = $1, name = $2, email = $3, phone = $4, department = $5, semester = $6, version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version`
	args := []interface{}{
		student.RegNo,
		student.Name,
		student.Email,
		student.Phone,
		student.Department,
		student.Semester,
		student.ID,
		student.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&student.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "students_reg_no_key"`:
			return ErrDuplicateRecord
		case err.Error() == `pq: duplicate key value violates unique constraint "students_email_key"`:
			return ErrDuplicateRecord
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteStudent deletes a student registry record.
func (r *repository) DeleteStudent(ID int64) error {
	if ID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM students
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
