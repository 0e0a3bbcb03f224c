package models

import "time"

// LeadStatusBuckets agrega contagens por status em três janelas simultâneas:
// total (desde sempre), mês-calendário corrente e dia-calendário corrente.
// As janelas usam fronteiras de calendário LOCAL (meia-noite, dia 1º do mês),
// não janelas móveis de 24h/30d. O corte é sempre pelo created_at do lead,
// nunca pela data da última mudança de status.
type LeadStatusBuckets struct {
	Total map[string]int64 `json:"total"`
	Month map[string]int64 `json:"month"`
	Day   map[string]int64 `json:"day"`
}

// CountLeadBuckets computa os buckets para um conjunto de leads num "agora".
// Determinística e sem efeitos: rodar duas vezes no mesmo conjunto devolve
// contagens idênticas.
func CountLeadBuckets(leads []Lead, now time.Time) LeadStatusBuckets {
	buckets := LeadStatusBuckets{
		Total: map[string]int64{},
		Month: map[string]int64{},
		Day:   map[string]int64{},
	}
	for _, s := range LeadStatuses() {
		buckets.Total[s] = 0
		buckets.Month[s] = 0
		buckets.Day[s] = 0
	}

	loc := now.Location()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthEnd := monthStart.AddDate(0, 1, 0)

	for _, lead := range leads {
		status := lead.EffectiveStatus()
		if !ValidLeadStatus(status) {
			status = LEAD_STATUS_NEW
		}
		buckets.Total[status]++

		if lead.CreatedAt == nil {
			continue
		}
		created := lead.CreatedAt.In(loc)
		if !created.Before(monthStart) && created.Before(monthEnd) {
			buckets.Month[status]++
		}
		if !created.Before(dayStart) && created.Before(dayEnd) {
			buckets.Day[status]++
		}
	}

	return buckets
}
