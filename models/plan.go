package models

/************************************************
/**** MARK: PLAN TIERS ****/
/************************************************/
const PLAN_FREE = "free"
const PLAN_BASIC = "basic"
const PLAN_PRO = "pro"
const PLAN_ENTERPRISE = "enterprise"

/************************************************
/**** MARK: FEATURE KEYS ****/
/************************************************/
const FEATURE_INBOX = "inbox"
const FEATURE_CAMPAIGNS = "campaigns"
const FEATURE_POLICIES = "policies"
const FEATURE_TEMPLATES_BASIC = "templates:basic"
const FEATURE_TEMPLATES_PRO = "templates:pro"
const FEATURE_TEMPLATES_ENTERPRISE = "templates:enterprise"

// planRank define a ordem total free < basic < pro < enterprise usada nas
// checagens "exige X ou superior". Plano desconhecido cai no rank do free
// (fecha o acesso, nunca abre).
func planRank(plan string) int {
	switch plan {
	case PLAN_BASIC:
		return 1
	case PLAN_PRO:
		return 2
	case PLAN_ENTERPRISE:
		return 3
	default:
		return 0
	}
}

func ValidPlanTier(plan string) bool {
	switch plan {
	case PLAN_FREE, PLAN_BASIC, PLAN_PRO, PLAN_ENTERPRISE:
		return true
	}
	return false
}

// MinimumPlanFor retorna o menor plano que libera a feature.
// Feature desconhecida exige enterprise (fail closed).
func MinimumPlanFor(feature string) string {
	switch feature {
	case FEATURE_INBOX, FEATURE_CAMPAIGNS, FEATURE_TEMPLATES_BASIC:
		return PLAN_BASIC
	case FEATURE_TEMPLATES_PRO:
		return PLAN_PRO
	case FEATURE_POLICIES, FEATURE_TEMPLATES_ENTERPRISE:
		return PLAN_ENTERPRISE
	default:
		return PLAN_ENTERPRISE
	}
}

// HasAccess responde se um plano enxerga uma feature.
// Função total: todo par (plano, feature) tem resposta definida.
func HasAccess(plan string, feature string) bool {
	return planRank(plan) >= planRank(MinimumPlanFor(feature))
}
