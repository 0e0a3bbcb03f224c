package models

import "time"

// Template é um modelo de mensagem do marketplace de templates.
// Pack define o degrau mínimo de plano que enxerga o template:
// free = todos; basic/pro por limiar (plano de rank >= libera); enterprise
// só para enterprise (não existe degrau acima).
type Template struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Key         string     `gorm:"not null;unique" json:"key" form:"key"`
	Name        string     `gorm:"not null" json:"name" form:"name"`
	Description string     `gorm:"type:text" json:"description" form:"description"`
	Pack        string     `gorm:"not null;default:'free';index" json:"pack" form:"pack"`
	Body        string     `gorm:"type:text" json:"body" form:"body"`
	PriceCents  int64      `gorm:"not null;default:0" json:"price_cents" form:"price_cents"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// TemplatePackFeature mapeia o pack do template para a feature gate
// correspondente. Pack free não tem gate.
func TemplatePackFeature(pack string) (string, bool) {
	switch pack {
	case PLAN_BASIC:
		return FEATURE_TEMPLATES_BASIC, true
	case PLAN_PRO:
		return FEATURE_TEMPLATES_PRO, true
	case PLAN_ENTERPRISE:
		return FEATURE_TEMPLATES_ENTERPRISE, true
	}
	return "", false
}
