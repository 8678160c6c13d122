package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/schichtplan/pkg/logger"
	"github.com/paiban/schichtplan/pkg/model"
)

// WishRepository 愿望仓储
type WishRepository struct {
	db DB
}

// NewWishRepository 创建愿望仓储
func NewWishRepository(db DB) *WishRepository {
	return &WishRepository{db: db}
}

// ListRange 按员工返回 [start, end] 内的愿望；未知种类被跳过
func (r *WishRepository) ListRange(ctx context.Context, start, end time.Time) (map[uuid.UUID][]model.Wish, error) {
	query := `
		SELECT mitarbeiter_id, datum, art, genehmigt
		FROM wuensche
		WHERE datum BETWEEN $1 AND $2
		ORDER BY mitarbeiter_id, datum
	`

	rows, err := r.db.QueryContext(ctx, query, start.Format(model.DateLayout), end.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("查询愿望失败: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]model.Wish)
	for rows.Next() {
		id, wish, ok, err := scanWish(rows)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out[id] = append(out[id], wish)
	}
	return out, rows.Err()
}

// Add 记录愿望
func (r *WishRepository) Add(ctx context.Context, employeeID uuid.UUID, w model.Wish) error {
	query := `
		INSERT INTO wuensche (mitarbeiter_id, datum, art, genehmigt)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (mitarbeiter_id, datum, art) DO UPDATE SET genehmigt = EXCLUDED.genehmigt
	`
	if _, err := r.db.ExecContext(ctx, query, employeeID, w.Date, string(w.Kind), w.Approved); err != nil {
		return fmt.Errorf("保存愿望失败: %w", err)
	}
	return nil
}

func scanWish(row Scanner) (uuid.UUID, model.Wish, bool, error) {
	var (
		id    uuid.UUID
		date  time.Time
		art   string
		wish  model.Wish
		known bool
	)
	if err := row.Scan(&id, &date, &art, &wish.Approved); err != nil {
		return id, wish, false, fmt.Errorf("扫描愿望数据失败: %w", err)
	}
	wish.Date = date.Format(model.DateLayout)
	wish.Kind, known = model.ParseWishKind(art)
	if !known {
		logger.Warn().Str("art", art).Str("date", wish.Date).Msg("忽略未知愿望种类")
	}
	return id, wish, known, nil
}

// AttachWishes 将愿望挂到对应员工
func AttachWishes(employees []*model.Employee, wishes map[uuid.UUID][]model.Wish) {
	for _, emp := range employees {
		emp.Wishes = append(emp.Wishes, wishes[emp.ID]...)
	}
}
