package models

import "time"

/************************************************
/**** MARK: SUBSCRIPTION STATUS ****/
/************************************************/
const SUBSCRIPTION_STATUS_ACTIVE = "active"
const SUBSCRIPTION_STATUS_INACTIVE = "inactive"
const SUBSCRIPTION_STATUS_CANCELED = "canceled"
const SUBSCRIPTION_STATUS_PAST_DUE = "past_due"

// Subscription representa o vínculo "1 usuário -> 1 plano".
// user_id é único, garantindo no máximo 1 assinatura por usuário.
type Subscription struct {
	ID                   int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID               int64      `gorm:"not null;unique_index" json:"user_id"`
	Plan                 string     `gorm:"not null;default:'free'" json:"plan"`
	Status               string     `gorm:"not null;default:'active'" json:"status"`
	CurrentPeriodStart   *time.Time `json:"current_period_start"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	StripeCustomerID     string     `gorm:"default:''" json:"-"`
	StripeSubscriptionID string     `gorm:"default:''" json:"-"`
	CreatedAt            *time.Time `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at"`
}

// EffectivePlan resolve o plano em vigor num instante.
// Regras:
// - active: plano vale.
// - canceled/past_due: plano vale até o fim do período corrente (downgrade
//   só na virada, nunca imediato).
// - inactive (ou período vencido): cai pra free.
func (s Subscription) EffectivePlan(now time.Time) string {
	if !ValidPlanTier(s.Plan) {
		return PLAN_FREE
	}
	switch s.Status {
	case SUBSCRIPTION_STATUS_ACTIVE:
		return s.Plan
	case SUBSCRIPTION_STATUS_CANCELED, SUBSCRIPTION_STATUS_PAST_DUE:
		if s.CurrentPeriodEnd != nil && now.Before(*s.CurrentPeriodEnd) {
			return s.Plan
		}
		return PLAN_FREE
	default:
		return PLAN_FREE
	}
}

func ValidSubscriptionStatus(status string) bool {
	switch status {
	case SUBSCRIPTION_STATUS_ACTIVE, SUBSCRIPTION_STATUS_INACTIVE,
		SUBSCRIPTION_STATUS_CANCELED, SUBSCRIPTION_STATUS_PAST_DUE:
		return true
	}
	return false
}
