package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/paigong/paigong/pkg/errors"
)

// DefaultShareTTL 分享链接默认有效期
const DefaultShareTTL = 14 * 24 * time.Hour

const shareCodeLength = 8

// ShareLink 排班分享链接
// Snapshot 是创建时刻排班内容的冻结副本，原排班后续变更不影响已分享的链接
type ShareLink struct {
	Code       string          `json:"code"`
	ScheduleID uuid.UUID       `json:"schedule_id"`
	Snapshot   json.RawMessage `json:"snapshot"`
	ExpiresAt  time.Time       `json:"expires_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Expired 判断链接是否已过期
func (l *ShareLink) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// ShareLinkStore 分享链接仓储接口
type ShareLinkStore interface {
	Create(ctx context.Context, scheduleID uuid.UUID, snapshot json.RawMessage, ttl time.Duration) (*ShareLink, error)
	Resolve(ctx context.Context, code string) (*ShareLink, error)
}

// shareCodeEncoding 小写base32字母表，去掉易混淆的 i l o u
var shareCodeEncoding = base32.NewEncoding("0123456789abcdefghjkmnpqrstvwxyz").WithPadding(base32.NoPadding)

// NewShareCode 生成8位分享码
// base32小写去掉易混淆字符后的随机片段
func NewShareCode() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成分享码失败: %w", err)
	}
	code := shareCodeEncoding.EncodeToString(buf)
	return code[:shareCodeLength], nil
}

// ShareLinkRepository PostgreSQL分享链接仓储
type ShareLinkRepository struct {
	db DB
}

// NewShareLinkRepository 创建分享链接仓储
func NewShareLinkRepository(db DB) *ShareLinkRepository {
	return &ShareLinkRepository{db: db}
}

// Create 为排班创建分享链接
func (r *ShareLinkRepository) Create(ctx context.Context, scheduleID uuid.UUID, snapshot json.RawMessage, ttl time.Duration) (*ShareLink, error) {
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	code, err := NewShareCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	link := &ShareLink{
		Code:       code,
		ScheduleID: scheduleID,
		Snapshot:   snapshot,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}

	query := `
		INSERT INTO share_links (code, schedule_id, snapshot, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, query,
		link.Code, link.ScheduleID, []byte(link.Snapshot), link.ExpiresAt, link.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("创建分享链接失败: %w", err)
	}
	return link, nil
}

// Resolve 按分享码取回链接
// 过期的链接返回过期错误，不返回内容
func (r *ShareLinkRepository) Resolve(ctx context.Context, code string) (*ShareLink, error) {
	query := `
		SELECT code, schedule_id, snapshot, expires_at, created_at
		FROM share_links WHERE code = $1
	`
	var (
		link     ShareLink
		snapshot []byte
	)
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&link.Code, &link.ScheduleID, &snapshot, &link.ExpiresAt, &link.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrShareLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询分享链接失败: %w", err)
	}
	link.Snapshot = snapshot

	if link.Expired(time.Now()) {
		return nil, apperrors.ErrShareLinkExpired
	}
	return &link, nil
}

// MemoryShareLinkStore 内存分享链接仓储
type MemoryShareLinkStore struct {
	mu    sync.RWMutex
	links map[string]*ShareLink
}

// NewMemoryShareLinkStore 创建内存分享链接仓储
func NewMemoryShareLinkStore() *MemoryShareLinkStore {
	return &MemoryShareLinkStore{links: make(map[string]*ShareLink)}
}

// Create 为排班创建分享链接
func (s *MemoryShareLinkStore) Create(_ context.Context, scheduleID uuid.UUID, snapshot json.RawMessage, ttl time.Duration) (*ShareLink, error) {
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	code, err := NewShareCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	link := &ShareLink{
		Code:       code,
		ScheduleID: scheduleID,
		Snapshot:   append(json.RawMessage(nil), snapshot...),
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}

	s.mu.Lock()
	s.links[code] = link
	s.mu.Unlock()

	copied := *link
	return &copied, nil
}

// Resolve 按分享码取回链接
func (s *MemoryShareLinkStore) Resolve(_ context.Context, code string) (*ShareLink, error) {
	s.mu.RLock()
	link, ok := s.links[code]
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrShareLinkNotFound
	}
	if link.Expired(time.Now()) {
		return nil, apperrors.ErrShareLinkExpired
	}
	copied := *link
	return &copied, nil
}
