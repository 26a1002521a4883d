package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/model"
)

// Schedule 一周排班记录
type Schedule struct {
	ID          uuid.UUID         `json:"id"`
	StoreID     uuid.UUID         `json:"store_id"`
	WeekStart   string            `json:"week_start"` // YYYY-MM-DD，周一
	Assignments model.Assignments `json:"assignments"`
	Warnings    []model.Warning   `json:"warnings"`
	Stats       *model.Stats      `json:"stats"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ScheduleStore 排班仓储接口
type ScheduleStore interface {
	Save(ctx context.Context, schedule *Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	GetByWeek(ctx context.Context, storeID uuid.UUID, weekStart string) (*Schedule, error)
	List(ctx context.Context, filter ListFilter) ([]*Schedule, error)
}

// ScheduleRepository PostgreSQL排班仓储
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository 创建排班仓储
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Save 写入排班记录，同门店同周覆盖旧记录
func (r *ScheduleRepository) Save(ctx context.Context, schedule *Schedule) error {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	now := time.Now()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	assignmentsJSON, err := json.Marshal(schedule.Assignments)
	if err != nil {
		return fmt.Errorf("序列化排班结果失败: %w", err)
	}
	warningsJSON, err := json.Marshal(schedule.Warnings)
	if err != nil {
		return fmt.Errorf("序列化排班警告失败: %w", err)
	}
	statsJSON, err := json.Marshal(schedule.Stats)
	if err != nil {
		return fmt.Errorf("序列化排班统计失败: %w", err)
	}

	// 覆盖旧记录时行内的 id 和 created_at 保持不变，
	// 必须回读写进 schedule，否则调用方拿到的 ID 指向不存在的行
	query := `
		INSERT INTO schedules (id, store_id, week_start, assignments, warnings, stats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (store_id, week_start) DO UPDATE SET
			assignments = EXCLUDED.assignments,
			warnings = EXCLUDED.warnings,
			stats = EXCLUDED.stats,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		schedule.ID, schedule.StoreID, schedule.WeekStart,
		assignmentsJSON, warningsJSON, statsJSON,
		schedule.CreatedAt, schedule.UpdatedAt,
	).Scan(&schedule.ID, &schedule.CreatedAt)
	if err != nil {
		return fmt.Errorf("保存排班记录失败: %w", err)
	}
	return nil
}

// GetByID 根据ID获取排班
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	query := `
		SELECT id, store_id, week_start, assignments, warnings, stats, created_at, updated_at
		FROM schedules WHERE id = $1
	`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

// GetByWeek 获取门店某周的排班
func (r *ScheduleRepository) GetByWeek(ctx context.Context, storeID uuid.UUID, weekStart string) (*Schedule, error) {
	query := `
		SELECT id, store_id, week_start, assignments, warnings, stats, created_at, updated_at
		FROM schedules WHERE store_id = $1 AND week_start = $2
	`
	return r.scan(r.db.QueryRowContext(ctx, query, storeID, weekStart))
}

// List 列出排班记录，按周起始日倒序
func (r *ScheduleRepository) List(ctx context.Context, filter ListFilter) ([]*Schedule, error) {
	query := `
		SELECT id, store_id, week_start, assignments, warnings, stats, created_at, updated_at
		FROM schedules
	`
	var args []interface{}
	if filter.StoreID != nil {
		query += ` WHERE store_id = $1`
		args = append(args, *filter.StoreID)
	}
	query += fmt.Sprintf(" ORDER BY week_start DESC OFFSET %d LIMIT %d", filter.Offset, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询排班列表失败: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// rowScanner 兼容 *sql.Row 和 *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ScheduleRepository) scan(row *sql.Row) (*Schedule, error) {
	s, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.CodeScheduleMissing, "排班记录不存在")
	}
	return s, err
}

func scanSchedule(row rowScanner) (*Schedule, error) {
	var (
		s               Schedule
		assignmentsJSON []byte
		warningsJSON    []byte
		statsJSON       []byte
	)
	err := row.Scan(&s.ID, &s.StoreID, &s.WeekStart,
		&assignmentsJSON, &warningsJSON, &statsJSON,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("读取排班记录失败: %w", err)
	}

	if err := json.Unmarshal(assignmentsJSON, &s.Assignments); err != nil {
		return nil, fmt.Errorf("解析排班结果失败: %w", err)
	}
	if err := json.Unmarshal(warningsJSON, &s.Warnings); err != nil {
		return nil, fmt.Errorf("解析排班警告失败: %w", err)
	}
	if err := json.Unmarshal(statsJSON, &s.Stats); err != nil {
		return nil, fmt.Errorf("解析排班统计失败: %w", err)
	}
	return &s, nil
}

// MemoryScheduleStore 内存排班仓储
type MemoryScheduleStore struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*Schedule
	byWeekKey map[string]uuid.UUID // storeID|weekStart → id
}

// NewMemoryScheduleStore 创建内存排班仓储
func NewMemoryScheduleStore() *MemoryScheduleStore {
	return &MemoryScheduleStore{
		byID:      make(map[uuid.UUID]*Schedule),
		byWeekKey: make(map[string]uuid.UUID),
	}
}

func weekKey(storeID uuid.UUID, weekStart string) string {
	return storeID.String() + "|" + weekStart
}

// Save 写入排班记录，同门店同周覆盖旧记录
func (s *MemoryScheduleStore) Save(_ context.Context, schedule *Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	key := weekKey(schedule.StoreID, schedule.WeekStart)

	if existing, ok := s.byWeekKey[key]; ok {
		schedule.ID = existing
		schedule.CreatedAt = s.byID[existing].CreatedAt
	} else {
		if schedule.ID == uuid.Nil {
			schedule.ID = uuid.New()
		}
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	copied := *schedule
	s.byID[schedule.ID] = &copied
	s.byWeekKey[key] = schedule.ID
	return nil
}

// GetByID 根据ID获取排班
func (s *MemoryScheduleStore) GetByID(_ context.Context, id uuid.UUID) (*Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, ok := s.byID[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeScheduleMissing, "排班记录不存在")
	}
	copied := *schedule
	return &copied, nil
}

// GetByWeek 获取门店某周的排班
func (s *MemoryScheduleStore) GetByWeek(_ context.Context, storeID uuid.UUID, weekStart string) (*Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byWeekKey[weekKey(storeID, weekStart)]
	if !ok {
		return nil, apperrors.New(apperrors.CodeScheduleMissing, "排班记录不存在")
	}
	copied := *s.byID[id]
	return &copied, nil
}

// List 列出排班记录，按周起始日倒序
func (s *MemoryScheduleStore) List(_ context.Context, filter ListFilter) ([]*Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var schedules []*Schedule
	for _, schedule := range s.byID {
		if filter.StoreID != nil && schedule.StoreID != *filter.StoreID {
			continue
		}
		copied := *schedule
		schedules = append(schedules, &copied)
	}

	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].WeekStart > schedules[j].WeekStart
	})

	if filter.Offset >= len(schedules) {
		return nil, nil
	}
	schedules = schedules[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(schedules) {
		schedules = schedules[:filter.Limit]
	}
	return schedules, nil
}
