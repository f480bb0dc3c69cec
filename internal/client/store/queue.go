package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QueuedLeave 离线请假队列中的一项
//
// 幂等键在入队时即分配并持久化：同一项无论重试多少次，
// 服务端看到的都是同一个 Idempotency-Key。
type QueuedLeave struct {
	Seq            int64
	IdempotencyKey string
	Payload        json.RawMessage
	CreatedAt      time.Time
}

// Enqueue 将请假请求放入队尾并分配幂等键
func (s *Store) Enqueue(ctx context.Context, payload json.RawMessage) (*QueuedLeave, error) {
	item := &QueuedLeave{
		IdempotencyKey: uuid.New().String(),
		Payload:        payload,
		CreatedAt:      time.Now().UTC(),
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_queue (idempotency_key, payload, created_at)
		VALUES (?, ?, ?)`,
		item.IdempotencyKey, string(payload), item.CreatedAt.UnixNano())
	if err != nil {
		return nil, err
	}

	item.Seq, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListQueue 按入队顺序返回全部待提交项
func (s *Store) ListQueue(ctx context.Context) ([]QueuedLeave, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, idempotency_key, payload, created_at
		FROM leave_queue ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QueuedLeave
	for rows.Next() {
		var (
			item    QueuedLeave
			payload string
			nanos   int64
		)
		if err := rows.Scan(&item.Seq, &item.IdempotencyKey, &payload, &nanos); err != nil {
			return nil, err
		}
		item.Payload = json.RawMessage(payload)
		item.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, item)
	}
	return out, rows.Err()
}

// Dequeue 移除已确认提交的队列项；仅在服务端确认后调用
func (s *Store) Dequeue(ctx context.Context, seq int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM leave_queue WHERE seq = ?`, seq)
	return err
}
