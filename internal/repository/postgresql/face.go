package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/face"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type faceRepositoryImpl struct {
	db *database.DB
}

func NewFaceRepository(db *database.DB) face.FaceRepository {
	return &faceRepositoryImpl{db: db}
}

// GetByEmployeeID implements face.FaceRepository.
func (r *faceRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (face.Descriptor, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, embedding, quality_score, enrolled_by,
			   created_at, updated_at
		FROM face_descriptors
		WHERE employee_id = $1
	`

	var d face.Descriptor
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&d.ID,
		&d.EmployeeID,
		&d.Embedding,
		&d.QualityScore,
		&d.EnrolledBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return face.Descriptor{}, face.ErrDescriptorNotFound
		}
		return face.Descriptor{}, err
	}

	return d, nil
}

// Upsert implements face.FaceRepository. Re-enrolling replaces the existing
// descriptor for the employee.
func (r *faceRepositoryImpl) Upsert(ctx context.Context, d face.Descriptor) (face.Descriptor, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO face_descriptors (id, employee_id, embedding, quality_score, enrolled_by)
		VALUES (uuidv7(), $1, $2, $3, $4)
		ON CONFLICT (employee_id) DO UPDATE
		SET embedding = EXCLUDED.embedding,
			quality_score = EXCLUDED.quality_score,
			enrolled_by = EXCLUDED.enrolled_by,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		d.EmployeeID,
		d.Embedding,
		d.QualityScore,
		d.EnrolledBy,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return face.Descriptor{}, err
	}

	return d, nil
}

// Delete implements face.FaceRepository.
func (r *faceRepositoryImpl) Delete(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM face_descriptors WHERE employee_id = $1`

	commandTag, err := q.Exec(ctx, query, employeeID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return face.ErrDescriptorNotFound
	}
	return nil
}

// CreateVerificationLog implements face.FaceRepository.
func (r *faceRepositoryImpl) CreateVerificationLog(ctx context.Context, log face.VerificationLog) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO face_verification_logs (
			id, employee_id, similarity, liveness_score, confidence_score,
			matched, liveness_passed
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		log.EmployeeID,
		log.Similarity,
		log.LivenessScore,
		log.ConfidenceScore,
		log.Matched,
		log.LivenessPassed,
	)
	return err
}

// ListVerificationLogs implements face.FaceRepository.
func (r *faceRepositoryImpl) ListVerificationLogs(ctx context.Context, employeeID string, limit int) ([]face.VerificationLog, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, employee_id, similarity, liveness_score, confidence_score,
			   matched, liveness_passed, created_at
		FROM face_verification_logs
		WHERE employee_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []face.VerificationLog
	for rows.Next() {
		var log face.VerificationLog
		err := rows.Scan(
			&log.ID,
			&log.EmployeeID,
			&log.Similarity,
			&log.LivenessScore,
			&log.ConfidenceScore,
			&log.Matched,
			&log.LivenessPassed,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
