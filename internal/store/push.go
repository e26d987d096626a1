package store

import (
	"fmt"

	"github.com/tessadair/bloom/internal/model"
)

type PushStore struct {
	db DBTX
}

func NewPushStore(db DBTX) *PushStore {
	return &PushStore{db: db}
}

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := scanner.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dhKey, &sub.AuthKey, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

const subscriptionCols = `id, user_id, endpoint, p256dh_key, auth_key, created_at`

// SaveSubscription inserts a subscription, or refreshes the keys when the
// endpoint is already registered (browsers rotate keys on re-subscribe).
func (s *PushStore) SaveSubscription(userID int64, endpoint, p256dh, auth string) (*model.PushSubscription, error) {
	_, err := s.db.Exec(
		`INSERT INTO push_subscriptions (user_id, endpoint, p256dh_key, auth_key)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET user_id = excluded.user_id,
		 p256dh_key = excluded.p256dh_key, auth_key = excluded.auth_key`,
		userID, endpoint, p256dh, auth,
	)
	if err != nil {
		return nil, fmt.Errorf("save push subscription: %w", err)
	}

	row := s.db.QueryRow(
		`SELECT `+subscriptionCols+` FROM push_subscriptions WHERE endpoint = ?`, endpoint,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("get push subscription: %w", err)
	}
	return sub, nil
}

func (s *PushStore) ListByUser(userID int64) ([]model.PushSubscription, error) {
	rows, err := s.db.Query(
		`SELECT `+subscriptionCols+` FROM push_subscriptions WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan push subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// ListSubscribedUserIDs returns distinct user IDs holding at least one
// subscription, so the reminder loop only touches users it can reach.
func (s *PushStore) ListSubscribedUserIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT DISTINCT user_id FROM push_subscriptions`)
	if err != nil {
		return nil, fmt.Errorf("list subscribed user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByEndpoint removes a subscription. userID scopes the delete so one
// user cannot unsubscribe another's device.
func (s *PushStore) DeleteByEndpoint(userID int64, endpoint string) error {
	_, err := s.db.Exec(
		`DELETE FROM push_subscriptions WHERE endpoint = ? AND user_id = ?`,
		endpoint, userID,
	)
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

// DeleteExpiredEndpoint removes a subscription the push service reported
// gone, regardless of owner.
func (s *PushStore) DeleteExpiredEndpoint(endpoint string) error {
	_, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	if err != nil {
		return fmt.Errorf("delete expired push subscription: %w", err)
	}
	return nil
}

// MarkSent records that a notification went out. Returns false when the
// (user, kind, ref) triple was already recorded, so concurrent reminder
// ticks cannot double-send.
func (s *PushStore) MarkSent(userID int64, kind, ref string) (bool, error) {
	result, err := s.db.Exec(
		`INSERT OR IGNORE INTO push_sent (user_id, kind, ref) VALUES (?, ?, ?)`,
		userID, kind, ref,
	)
	if err != nil {
		return false, fmt.Errorf("mark push sent: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// PruneSentBefore deletes dedupe rows older than the cutoff; the log only
// needs to cover the current day.
func (s *PushStore) PruneSentBefore(cutoff string) error {
	_, err := s.db.Exec(`DELETE FROM push_sent WHERE sent_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("prune push sent log: %w", err)
	}
	return nil
}
