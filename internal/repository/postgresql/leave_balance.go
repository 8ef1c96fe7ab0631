package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Get implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.entitled_days, lb.used_days, lb.remaining_days, lb.updated_at,
			   lt.name AS leave_type_name, lt.code AS leave_type_code
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.leave_type_id = $2 AND lb.year = $3
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(
		&b.ID,
		&b.EmployeeID,
		&b.LeaveTypeID,
		&b.Year,
		&b.EntitledDays,
		&b.UsedDays,
		&b.RemainingDays,
		&b.UpdatedAt,
		&b.LeaveTypeName,
		&b.LeaveTypeCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}

	return b, nil
}

// GetForEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetForEmployee(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.entitled_days, lb.used_days, lb.remaining_days, lb.updated_at,
			   lt.name AS leave_type_name, lt.code AS leave_type_code
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.code ASC
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		var b leave.Balance
		err := rows.Scan(
			&b.ID,
			&b.EmployeeID,
			&b.LeaveTypeID,
			&b.Year,
			&b.EntitledDays,
			&b.UsedDays,
			&b.RemainingDays,
			&b.UpdatedAt,
			&b.LeaveTypeName,
			&b.LeaveTypeCode,
		)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// Upsert implements leave.BalanceRepository. Existing balances keep their
// used days; only the entitlement is refreshed.
func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, year, entitled_days, used_days, remaining_days)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, leave_type_id, year) DO UPDATE
		SET entitled_days = EXCLUDED.entitled_days,
			remaining_days = EXCLUDED.entitled_days - leave_balances.used_days,
			updated_at = NOW()
		RETURNING id, used_days, remaining_days, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.EmployeeID,
		b.LeaveTypeID,
		b.Year,
		b.EntitledDays,
		b.UsedDays,
		b.RemainingDays,
	).Scan(&b.ID, &b.UsedDays, &b.RemainingDays, &b.UpdatedAt)
	if err != nil {
		return leave.Balance{}, err
	}

	return b, nil
}

// AddUsedDays implements leave.BalanceRepository. Unless allowNegative is
// set, the update is guarded so remaining_days cannot drop below zero even
// when concurrent approvals race.
func (r *leaveBalanceRepositoryImpl) AddUsedDays(ctx context.Context, employeeID, leaveTypeID string, year, delta int, allowNegative bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $1,
			remaining_days = remaining_days - $1,
			updated_at = NOW()
		WHERE employee_id = $2 AND leave_type_id = $3 AND year = $4
		  AND (remaining_days - $1 >= 0 OR $5)
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, delta, employeeID, leaveTypeID, year, allowNegative).Scan(&updatedID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// no row updated: either the balance is missing or the floor guard
	// rejected the decrement
	var exists bool
	checkQuery := `
		SELECT EXISTS (
			SELECT 1 FROM leave_balances
			WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		)
	`
	if checkErr := q.QueryRow(ctx, checkQuery, employeeID, leaveTypeID, year).Scan(&exists); checkErr != nil {
		return checkErr
	}
	if exists {
		return leave.ErrInsufficientBalance
	}
	return leave.ErrBalanceNotFound
}
