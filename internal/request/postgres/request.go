package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/TonyS-dev/nexus-hr/internal/core/database"
	requestDatamodel "github.com/TonyS-dev/nexus-hr/internal/core/datamodel/request"
	"github.com/TonyS-dev/nexus-hr/internal/request"
	"gorm.io/gorm"
)

// RequestRepository implements request.Repository using GORM. Transition is
// conditioned on the version column: the UPDATE matches zero rows when a
// concurrent decision got there first, and the whole transaction (status
// write, decision row and settlement callback) rolls back.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *request.Request) error {
	row := request.ToDataModel(req)
	row.Status = request.StatusPending
	row.Version = 1
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	req.ID = row.ID
	req.Status = row.Status
	req.Version = row.Version
	req.CreatedAt = row.CreatedAt
	req.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*request.Request, error) {
	var row requestDatamodel.Request
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrRequestNotFound
		}
		return nil, err
	}
	return request.FromDataModel(&row), nil
}

func (r *RequestRepository) ListByEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]*request.Request, error) {
	var rows []*requestDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return request.FromDataModelSlice(rows), nil
}

func (r *RequestRepository) ListPending(ctx context.Context, limit, offset int) ([]*request.Request, error) {
	var rows []*requestDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("status = ?", request.StatusPending).
		Order("created_at ASC"). // FIFO for approvals
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return request.FromDataModelSlice(rows), nil
}

func (r *RequestRepository) Transition(ctx context.Context, id, fromVersion int64, t request.Transition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&requestDatamodel.Request{}).
			Where("id = ? AND version = ?", id, fromVersion).
			Updates(map[string]interface{}{
				"status":      t.Status,
				"approver_id": t.ApproverID,
				"decided_at":  t.DecidedAt,
				"version":     gorm.Expr("version + 1"),
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&requestDatamodel.Request{}).
				Where("id = ?", id).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return request.ErrRequestNotFound
			}
			return request.ErrConcurrentModification
		}

		if t.Decision != nil {
			decision := requestDatamodel.ApprovalDecision{
				RequestID:  id,
				ApproverID: t.Decision.ApproverID,
				Outcome:    t.Decision.Outcome,
				Comments:   t.Decision.Comments,
				DecidedAt:  t.Decision.DecidedAt,
			}
			if err := tx.Create(&decision).Error; err != nil {
				return err
			}
		}

		if t.Settle != nil {
			// Ledger settlement joins this transaction via the context.
			return t.Settle(database.WithTx(ctx, tx))
		}
		return nil
	})
}

func (r *RequestRepository) GetDecision(ctx context.Context, requestID int64) (*request.ApprovalDecision, error) {
	var row requestDatamodel.ApprovalDecision
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrDecisionNotFound
		}
		return nil, err
	}
	return &request.ApprovalDecision{
		ID:         row.ID,
		RequestID:  row.RequestID,
		ApproverID: row.ApproverID,
		Outcome:    row.Outcome,
		Comments:   row.Comments,
		DecidedAt:  row.DecidedAt,
	}, nil
}
