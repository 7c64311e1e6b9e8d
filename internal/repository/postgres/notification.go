package postgres

import (
	"context"
	"fmt"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
	// Inside a transaction each insert runs under a savepoint so a failed
	// notification leaves the surrounding transaction usable.
	savepoint bool
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.NotificationLog) error {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID)

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	query := `INSERT INTO notification_logs (user_id, message, is_read, created_at)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	logger.DatabaseCall("INSERT", "notification_logs", "userID", n.UserID)

	var err error
	if r.savepoint {
		err = r.insertUnderSavepoint(ctx, query, n)
	} else {
		err = r.db.QueryRowContext(ctx, query, n.UserID, n.Message, n.IsRead, n.CreatedAt).Scan(&n.ID)
	}
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
	} else {
		logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	}
	return err
}

func (r *notificationRepository) insertUnderSavepoint(ctx context.Context, query string, n *domain.NotificationLog) error {
	if _, err := r.db.ExecContext(ctx, "SAVEPOINT notify"); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Message, n.IsRead, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		if _, rbErr := r.db.ExecContext(ctx, "ROLLBACK TO SAVEPOINT notify"); rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint: %v)", err, rbErr)
		}
		return err
	}
	if _, err := r.db.ExecContext(ctx, "RELEASE SAVEPOINT notify"); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.NotificationLog, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notification_logs WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, message, is_read, created_at
	          FROM notification_logs WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.NotificationLog
	for rows.Next() {
		var n domain.NotificationLog
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

// MarkAsRead only touches notifications owned by userID.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notification_logs SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE notification_logs SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notification_logs WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	return count, err
}
