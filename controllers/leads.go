package controllers

import (
	"net/http"
	"strings"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"

	"github.com/gin-gonic/gin"
)

// findTenantLead resolve um lead DENTRO do tenant do caller.
// Lead de outro tenant e lead inexistente respondem o mesmo 404:
// não vazamos existência entre tenants.
func findTenantLead(c *gin.Context, userID int64, leadID int64) (*models.Lead, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return nil, false
	}

	var lead models.Lead
	if err := db.Where("id = ? AND user_id = ?", leadID, userID).First(&lead).Error; err != nil {
		RespondError(c, "lead não encontrado", http.StatusNotFound)
		return nil, false
	}
	return &lead, true
}

// leadView serializa o lead com status efetivo (ausente lê como NEW),
// dados extras decodificados e link wa.me pronto pro front.
func leadView(lead models.Lead) gin.H {
	waLink := ""
	if lead.Phone != "" {
		if link, err := tools.WaMeLink(lead.Phone, ""); err == nil {
			waLink = link
		}
	}
	return gin.H{
		"id":             lead.ID,
		"user_id":        lead.UserID,
		"name":           lead.Name,
		"phone":          lead.Phone,
		"email":          lead.Email,
		"tax_id":         lead.TaxID,
		"insurance_type": lead.InsuranceType,
		"status":         lead.EffectiveStatus(),
		"folder_link":    lead.FolderLink,
		"extra_data":     lead.GetExtraData(),
		"wa_me_link":     waLink,
		"created_at":     lead.CreatedAt,
		"updated_at":     lead.UpdatedAt,
	}
}

// GET /api/leads
// Query params:
// - status=NEW|NEGOTIATION|CLOSED|LOST (optional)
// - q=texto (optional) -> busca em name + phone + email
// - limit (optional, default: 200, max: 500)
// - offset (optional, default: 0)
func GetLeads(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	q := strings.TrimSpace(c.Query("q"))
	limit := clampInt(queryInt(c, "limit", 200), 1, 500)
	offset := clampInt(queryInt(c, "offset", 0), 0, 1_000_000)

	// BASE POR USUÁRIO
	query := db.Model(&models.Lead{}).Where("user_id = ?", user.ID)

	if status != "" {
		if !models.ValidLeadStatus(status) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
		query = query.Where("status = ?", status)
	}
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var leads []models.Lead
	if err := query.Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&leads).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	views := make([]gin.H, 0, len(leads))
	for _, lead := range leads {
		views = append(views, leadView(lead))
	}

	RespondSuccess(c, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"leads":  views,
	})
}

// GET /api/leads/:id
func GetLeadByID(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	lead, ok := findTenantLead(c, user.ID, id)
	if !ok {
		return
	}

	RespondSuccess(c, gin.H{"lead": leadView(*lead)})
}

// POST /api/leads
// Campos conhecidos viram colunas; o resto do payload é dobrado no saco de
// dados extras (string/número/link).
func CreateLead(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	lead := models.Lead{
		UserID:        user.ID,
		Name:          stringField(payload, "name"),
		Phone:         stringField(payload, "phone"),
		Email:         stringField(payload, "email"),
		TaxID:         stringField(payload, "tax_id"),
		InsuranceType: stringField(payload, "insurance_type"),
		FolderLink:    stringField(payload, "folder_link"),
		Status:        models.LEAD_STATUS_NEW,
	}

	if status := stringField(payload, "status"); status != "" {
		if !models.ValidLeadStatus(status) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
		lead.Status = status
	}

	if missing := lead.MissingFields(); missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}

	if extra := models.FoldExtraData(payload); len(extra) > 0 {
		if err := lead.SetExtraData(extra); err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := db.Create(&lead).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"lead": leadView(lead)})
}

// PATCH /api/leads/:id
// Update parcial: usado pro drag do kanban (status) e edição de campos
// (folder_link, contato). Mudança de status é mutação de linha única, sem
// efeito colateral; qualquer status alcança qualquer outro.
func UpdateLead(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	lead, ok := findTenantLead(c, user.ID, id)
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if rawStatus, has := payload["status"]; has {
		status, isString := rawStatus.(string)
		if !isString || !models.ValidLeadStatus(status) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
		lead.Status = status
	}

	if v, has := payload["name"]; has {
		if s, isString := v.(string); isString && s != "" {
			lead.Name = s
		}
	}
	if v, has := payload["phone"]; has {
		if s, isString := v.(string); isString {
			lead.Phone = s
		}
	}
	if v, has := payload["email"]; has {
		if s, isString := v.(string); isString {
			lead.Email = s
		}
	}
	if v, has := payload["tax_id"]; has {
		if s, isString := v.(string); isString {
			lead.TaxID = s
		}
	}
	if v, has := payload["insurance_type"]; has {
		if s, isString := v.(string); isString {
			lead.InsuranceType = s
		}
	}
	if v, has := payload["folder_link"]; has {
		if s, isString := v.(string); isString {
			lead.FolderLink = s
		}
	}

	// Campos desconhecidos fazem merge no saco de dados extras.
	if newExtra := models.FoldExtraData(payload); len(newExtra) > 0 {
		extra := lead.GetExtraData()
		for k, v := range newExtra {
			extra[k] = v
		}
		if err := lead.SetExtraData(extra); err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := db.Save(lead).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"lead": leadView(*lead)})
}

// DELETE /api/leads/:id
// Hard delete. A confirmação é responsabilidade da UI; aqui só vale a
// autenticação + escopo de tenant.
func DeleteLead(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	if _, ok := findTenantLead(c, user.ID, id); !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if err := db.Delete(&models.Lead{}, "id = ? AND user_id = ?", id, user.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "deleted"})
}

func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, isString := v.(string); isString {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
