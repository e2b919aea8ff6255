package entity

import "time"

// QualityCheck is a single measurement against a specification range.
// Passed is derived from the value and spec bounds, never client-supplied.
type QualityCheck struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	OrderID uint `json:"order_id" gorm:"not null;index"`
	// FK so a concurrent order delete cannot orphan the check
	Order            *ProductionOrder `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
	Parameter        string           `json:"parameter" gorm:"size:64;not null"`
	Value            float64          `json:"value" gorm:"not null"`
	SpecificationMin float64          `json:"specification_min" gorm:"not null"`
	SpecificationMax float64          `json:"specification_max" gorm:"not null"`
	Passed           bool             `json:"passed" gorm:"not null"`
	CheckedAt        time.Time        `json:"checked_at" gorm:"index"`
}

func (QualityCheck) TableName() string {
	return "quality_checks"
}

// Evaluate recomputes the derived pass flag, inclusive on both bounds.
func (q *QualityCheck) Evaluate() {
	q.Passed = q.SpecificationMin <= q.Value && q.Value <= q.SpecificationMax
}
