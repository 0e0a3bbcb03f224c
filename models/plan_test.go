package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAccessIsMonotonic(t *testing.T) {
	plans := []string{PLAN_FREE, PLAN_BASIC, PLAN_PRO, PLAN_ENTERPRISE}
	features := []string{
		FEATURE_INBOX, FEATURE_CAMPAIGNS, FEATURE_POLICIES,
		FEATURE_TEMPLATES_BASIC, FEATURE_TEMPLATES_PRO, FEATURE_TEMPLATES_ENTERPRISE,
	}

	// subir de plano nunca perde acesso
	for _, feature := range features {
		for i := 1; i < len(plans); i++ {
			lower := HasAccess(plans[i-1], feature)
			higher := HasAccess(plans[i], feature)
			if lower {
				assert.True(t, higher, "upgrade %s->%s perdeu %s", plans[i-1], plans[i], feature)
			}
		}
	}
}

func TestHasAccessThresholds(t *testing.T) {
	assert.False(t, HasAccess(PLAN_FREE, FEATURE_INBOX))
	assert.True(t, HasAccess(PLAN_BASIC, FEATURE_INBOX))
	assert.True(t, HasAccess(PLAN_BASIC, FEATURE_CAMPAIGNS))
	assert.False(t, HasAccess(PLAN_BASIC, FEATURE_TEMPLATES_PRO))
	assert.True(t, HasAccess(PLAN_PRO, FEATURE_TEMPLATES_PRO))
	assert.False(t, HasAccess(PLAN_PRO, FEATURE_POLICIES))
	assert.True(t, HasAccess(PLAN_ENTERPRISE, FEATURE_POLICIES))
	assert.True(t, HasAccess(PLAN_ENTERPRISE, FEATURE_TEMPLATES_ENTERPRISE))
}

func TestHasAccessFailsClosed(t *testing.T) {
	// feature desconhecida exige enterprise
	assert.False(t, HasAccess(PLAN_PRO, "telemetria"))
	assert.True(t, HasAccess(PLAN_ENTERPRISE, "telemetria"))

	// plano desconhecido conta como free
	assert.False(t, HasAccess("platinum", FEATURE_INBOX))
	assert.False(t, HasAccess("", FEATURE_INBOX))
}

func TestMinimumPlanFor(t *testing.T) {
	assert.Equal(t, PLAN_BASIC, MinimumPlanFor(FEATURE_INBOX))
	assert.Equal(t, PLAN_BASIC, MinimumPlanFor(FEATURE_CAMPAIGNS))
	assert.Equal(t, PLAN_BASIC, MinimumPlanFor(FEATURE_TEMPLATES_BASIC))
	assert.Equal(t, PLAN_PRO, MinimumPlanFor(FEATURE_TEMPLATES_PRO))
	assert.Equal(t, PLAN_ENTERPRISE, MinimumPlanFor(FEATURE_POLICIES))
	assert.Equal(t, PLAN_ENTERPRISE, MinimumPlanFor("qualquer-coisa"))
}

func TestTemplatePackFeature(t *testing.T) {
	feature, gated := TemplatePackFeature(PLAN_BASIC)
	assert.True(t, gated)
	assert.Equal(t, FEATURE_TEMPLATES_BASIC, feature)

	feature, gated = TemplatePackFeature(PLAN_ENTERPRISE)
	assert.True(t, gated)
	assert.Equal(t, FEATURE_TEMPLATES_ENTERPRISE, feature)

	_, gated = TemplatePackFeature(PLAN_FREE)
	assert.False(t, gated)
}
