package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePlan(t *testing.T) {
	now := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 10)
	past := now.AddDate(0, 0, -10)

	tests := []struct {
		name string
		sub  Subscription
		want string
	}{
		{"active keeps plan", Subscription{Plan: PLAN_PRO, Status: SUBSCRIPTION_STATUS_ACTIVE}, PLAN_PRO},
		{"canceled inside period keeps plan",
			Subscription{Plan: PLAN_PRO, Status: SUBSCRIPTION_STATUS_CANCELED, CurrentPeriodEnd: &future}, PLAN_PRO},
		{"canceled after period drops to free",
			Subscription{Plan: PLAN_PRO, Status: SUBSCRIPTION_STATUS_CANCELED, CurrentPeriodEnd: &past}, PLAN_FREE},
		{"past_due inside period keeps plan",
			Subscription{Plan: PLAN_BASIC, Status: SUBSCRIPTION_STATUS_PAST_DUE, CurrentPeriodEnd: &future}, PLAN_BASIC},
		{"past_due after period drops to free",
			Subscription{Plan: PLAN_BASIC, Status: SUBSCRIPTION_STATUS_PAST_DUE, CurrentPeriodEnd: &past}, PLAN_FREE},
		{"canceled without period end drops to free",
			Subscription{Plan: PLAN_PRO, Status: SUBSCRIPTION_STATUS_CANCELED}, PLAN_FREE},
		{"inactive drops to free", Subscription{Plan: PLAN_ENTERPRISE, Status: SUBSCRIPTION_STATUS_INACTIVE}, PLAN_FREE},
		{"unknown plan drops to free", Subscription{Plan: "platinum", Status: SUBSCRIPTION_STATUS_ACTIVE}, PLAN_FREE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.EffectivePlan(now))
		})
	}
}
