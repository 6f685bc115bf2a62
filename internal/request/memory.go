package request

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is a mutex-guarded Repository for tests and local
// development. Transition applies the same compare-and-swap discipline as
// the Postgres repository.
type MemoryRepository struct {
	mu        sync.Mutex
	requests  map[int64]*Request
	decisions map[int64]*ApprovalDecision
	nextID    int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		requests:  make(map[int64]*Request),
		decisions: make(map[int64]*ApprovalDecision),
		nextID:    1,
	}
}

func (m *MemoryRepository) Create(_ context.Context, req *Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.ID = m.nextID
	m.nextID++
	req.Version = 1
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	copied := *req
	m.requests[req.ID] = &copied
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, exists := m.requests[id]
	if !exists {
		return nil, ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (m *MemoryRepository) ListByEmployee(_ context.Context, employeeID int64, limit, offset int) ([]*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*Request
	for id := int64(1); id < m.nextID; id++ {
		if req, exists := m.requests[id]; exists && req.EmployeeID == employeeID {
			copied := *req
			result = append(result, &copied)
		}
	}
	return paginate(result, limit, offset), nil
}

func (m *MemoryRepository) ListPending(_ context.Context, limit, offset int) ([]*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*Request
	for id := int64(1); id < m.nextID; id++ {
		if req, exists := m.requests[id]; exists && req.Status == StatusPending {
			copied := *req
			result = append(result, &copied)
		}
	}
	return paginate(result, limit, offset), nil
}

func (m *MemoryRepository) Transition(ctx context.Context, id, fromVersion int64, t Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, exists := m.requests[id]
	if !exists {
		return ErrRequestNotFound
	}
	if req.Version != fromVersion {
		return ErrConcurrentModification
	}

	snapshot := *req
	req.Status = t.Status
	req.ApproverID = t.ApproverID
	decidedAt := t.DecidedAt
	req.DecidedAt = &decidedAt
	req.Version++
	req.UpdatedAt = time.Now()

	decisionAdded := false
	if t.Decision != nil {
		decision := *t.Decision
		decision.ID = int64(len(m.decisions) + 1)
		decision.RequestID = id
		m.decisions[id] = &decision
		decisionAdded = true
	}

	if t.Settle != nil {
		// Same contract as the Postgres repository: a failed settlement
		// rolls the transition back.
		if err := t.Settle(ctx); err != nil {
			*req = snapshot
			if decisionAdded {
				delete(m.decisions, id)
			}
			return err
		}
	}
	return nil
}

func (m *MemoryRepository) GetDecision(_ context.Context, requestID int64) (*ApprovalDecision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	decision, exists := m.decisions[requestID]
	if !exists {
		return nil, ErrDecisionNotFound
	}
	copied := *decision
	return &copied, nil
}

// DecisionCount reports how many decision rows exist for a request. Used by
// tests asserting the at-most-one-decision property.
func (m *MemoryRepository) DecisionCount(requestID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.decisions[requestID]; exists {
		return 1
	}
	return 0
}

func paginate(items []*Request, limit, offset int) []*Request {
	if offset >= len(items) {
		return []*Request{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
