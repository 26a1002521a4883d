package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/paigong/paigong/pkg/errors"
)

// Staff 员工记录
type Staff struct {
	ID           uuid.UUID `json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	HourlyRate   float64   `json:"hourly_rate"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StaffStore 员工仓储接口
type StaffStore interface {
	Create(ctx context.Context, staff *Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	GetByPhone(ctx context.Context, phone string) (*Staff, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*Staff, error)
}

// StaffRepository PostgreSQL员工仓储
type StaffRepository struct {
	db DB
}

// NewStaffRepository 创建员工仓储
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create 创建员工
func (r *StaffRepository) Create(ctx context.Context, staff *Staff) error {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	query := `
		INSERT INTO staff (id, store_id, name, phone, password_hash, hourly_rate, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		staff.ID, staff.StoreID, staff.Name, staff.Phone,
		staff.PasswordHash, staff.HourlyRate, staff.Active,
		staff.CreatedAt, staff.UpdatedAt)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}
	return nil
}

// GetByID 根据ID获取员工
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	query := staffSelect + ` WHERE id = $1 AND deleted_at IS NULL`
	return scanStaff(r.db.QueryRowContext(ctx, query, id))
}

// GetByPhone 根据手机号获取员工（登录用）
func (r *StaffRepository) GetByPhone(ctx context.Context, phone string) (*Staff, error) {
	query := staffSelect + ` WHERE phone = $1 AND deleted_at IS NULL`
	return scanStaff(r.db.QueryRowContext(ctx, query, phone))
}

// ListByStore 列出门店在职员工
func (r *StaffRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*Staff, error) {
	query := staffSelect + ` WHERE store_id = $1 AND active AND deleted_at IS NULL ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("查询门店员工失败: %w", err)
	}
	defer rows.Close()

	var list []*Staff
	for rows.Next() {
		var s Staff
		if err := rows.Scan(&s.ID, &s.StoreID, &s.Name, &s.Phone,
			&s.PasswordHash, &s.HourlyRate, &s.Active,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("读取员工记录失败: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

const staffSelect = `
	SELECT id, store_id, name, phone, password_hash, hourly_rate, active, created_at, updated_at
	FROM staff
`

func scanStaff(row *sql.Row) (*Staff, error) {
	var s Staff
	err := row.Scan(&s.ID, &s.StoreID, &s.Name, &s.Phone,
		&s.PasswordHash, &s.HourlyRate, &s.Active,
		&s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("员工", "")
	}
	if err != nil {
		return nil, fmt.Errorf("读取员工记录失败: %w", err)
	}
	return &s, nil
}

// MemoryStaffStore 内存员工仓储
type MemoryStaffStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*Staff
	order []uuid.UUID
}

// NewMemoryStaffStore 创建内存员工仓储
func NewMemoryStaffStore() *MemoryStaffStore {
	return &MemoryStaffStore{byID: make(map[uuid.UUID]*Staff)}
}

// Create 创建员工
func (s *MemoryStaffStore) Create(_ context.Context, staff *Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	copied := *staff
	s.byID[staff.ID] = &copied
	s.order = append(s.order, staff.ID)
	return nil
}

// GetByID 根据ID获取员工
func (s *MemoryStaffStore) GetByID(_ context.Context, id uuid.UUID) (*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staff, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFound("员工", id.String())
	}
	copied := *staff
	return &copied, nil
}

// GetByPhone 根据手机号获取员工
func (s *MemoryStaffStore) GetByPhone(_ context.Context, phone string) (*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if s.byID[id].Phone == phone {
			copied := *s.byID[id]
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("员工", phone)
}

// ListByStore 列出门店在职员工，按创建顺序
func (s *MemoryStaffStore) ListByStore(_ context.Context, storeID uuid.UUID) ([]*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*Staff
	for _, id := range s.order {
		staff := s.byID[id]
		if staff.StoreID == storeID && staff.Active {
			copied := *staff
			list = append(list, &copied)
		}
	}
	return list, nil
}
