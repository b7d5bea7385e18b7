package controller

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hrms/models"
	"hrms/utils"
)

// Meta is the free-form payload stored with an audit entry.
type Meta map[string]interface{}

// Auditor appends audit log rows. Callers pass the transaction that carries the mutation
// being audited so both commit or roll back together.
type Auditor struct {
	metrics *utils.Metrics
}

func NewAuditor(metrics *utils.Metrics) *Auditor {
	return &Auditor{metrics: metrics}
}

func (a *Auditor) Record(tx *gorm.DB, identity utils.Identity, action string, meta Meta) error {
	if meta == nil {
		meta = Meta{}
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode audit meta: %w", err)
	}

	entry := models.Log{
		OrganisationID: identity.OrganisationID,
		UserID:         identity.UserID,
		Action:         action,
		Meta:           datatypes.JSON(payload),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log %s: %w", action, err)
	}

	a.metrics.AuditRecorded(action)
	return nil
}
