package models

import "time"

/************************************************
/**** MARK: POLICY STATUS ****/
/************************************************/
const POLICY_STATUS_ACTIVE = "active"
const POLICY_STATUS_PENDING = "pending"
const POLICY_STATUS_EXPIRED = "expired"
const POLICY_STATUS_CANCELLED = "cancelled"

// Policy é uma apólice de seguro gerida pelo corretor.
// Gestão de apólices é feature exclusiva do plano enterprise.
type Policy struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID        int64      `gorm:"not null;index" json:"user_id"`
	LeadID        int64      `gorm:"default:0;index" json:"lead_id" form:"lead_id"`
	Number        string     `gorm:"not null" json:"number" form:"number"`
	Insurer       string     `gorm:"default:''" json:"insurer" form:"insurer"`
	InsuranceType string     `gorm:"default:''" json:"insurance_type" form:"insurance_type"`
	Status        string     `gorm:"not null;default:'pending';index" json:"status" form:"status"`
	PremiumCents  int64      `gorm:"not null;default:0" json:"premium_cents" form:"premium_cents"`
	StartsAt      *time.Time `json:"starts_at" form:"starts_at"`
	ExpiresAt     *time.Time `json:"expires_at" form:"expires_at"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func ValidPolicyStatus(status string) bool {
	switch status {
	case POLICY_STATUS_ACTIVE, POLICY_STATUS_PENDING, POLICY_STATUS_EXPIRED, POLICY_STATUS_CANCELLED:
		return true
	}
	return false
}

func (policy Policy) MissingFields() string {
	if policy.Number == "" {
		return "number"
	}
	return ""
}
