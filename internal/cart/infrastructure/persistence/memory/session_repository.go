// Package memory 购物会话的内存存储实现
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

// NewSessionRepository 创建会话仓储
func NewSessionRepository() domain.SessionRepository {
	return &sessionRepository{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

func (r *sessionRepository) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return domain.NewSession(sessionID), nil
	}
	return clone(s), nil
}

// Update fn 返回错误时不保存任何修改
func (r *sessionRepository) Update(_ context.Context, sessionID string, fn func(*domain.Session) error) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[sessionID]
	if !ok {
		current = domain.NewSession(sessionID)
	}
	next := clone(current)
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = sessionID
	next.UpdatedAt = r.now()
	r.sessions[sessionID] = next
	return clone(next), nil
}

func (r *sessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *sessionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}

func clone(s *domain.Session) *domain.Session {
	out := *s
	out.Cart = slices.Clone(s.Cart)
	if out.Cart == nil {
		out.Cart = domain.Cart{}
	}
	if s.Coupon != nil {
		c := *s.Coupon
		out.Coupon = &c
	}
	return &out
}
