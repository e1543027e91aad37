package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/procat-web/internal/app/audit/queries/list_entries"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/usecases/update_config"
)

const auditPageSize = 50

type dayHours struct {
	Day string
	Key string
}

func weekdays() []dayHours {
	days := make([]dayHours, 0, len(domain.Weekdays))
	for _, d := range domain.Weekdays {
		days = append(days, dayHours{Day: d, Key: domain.BusinessHoursKey(d)})
	}
	return days
}

// Settings handles GET /admin/settings.
func (h *Handler) Settings(c *gin.Context) {
	form, err := h.queries.SiteConfig.Form(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "admin_settings", gin.H{
		"Title":   "Site settings",
		"Entries": form,
		"Notice":  c.Query("notice"),
	})
}

// SaveSettings handles POST /admin/settings. Only known keys present in
// the form are submitted.
func (h *Handler) SaveSettings(c *gin.Context) {
	values := make(map[string]string)
	for _, d := range domain.Definitions() {
		if v, ok := c.GetPostForm(d.Key); ok {
			values[d.Key] = v
		}
	}

	changed, err := h.commands.UpdateConfig.Execute(c.Request.Context(), &update_config.Request{
		Values: values,
		Actor:  actor(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	redirect(c, withNotice("/admin/settings", "notice", strconv.Itoa(len(changed))+" settings saved"))
}

func auditRequest(c *gin.Context, limit int) *list_entries.Request {
	offset, _ := strconv.Atoi(c.Query("offset"))
	if l, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = l
	}
	return &list_entries.Request{
		ResourceType: c.Query("resource_type"),
		UserID:       c.Query("user_id"),
		Limit:        limit,
		Offset:       offset,
	}
}

// AuditLog handles GET /admin/audit.
func (h *Handler) AuditLog(c *gin.Context) {
	req := auditRequest(c, auditPageSize)
	res, err := h.queries.AuditLog.Execute(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	data := gin.H{
		"Title":        "Audit log",
		"Result":       res,
		"ResourceType": req.ResourceType,
	}
	if req.Offset > 0 {
		prev := req.Offset - auditPageSize
		if prev < 0 {
			prev = 0
		}
		data["Prev"] = strconv.Itoa(prev)
	}
	if int64(req.Offset+len(res.Records)) < res.Total {
		data["Next"] = strconv.Itoa(req.Offset + len(res.Records))
	}
	h.html(c, http.StatusOK, "admin_audit", data)
}

// AuditAPI handles GET /api/v1/audit.
func (h *Handler) AuditAPI(c *gin.Context) {
	res, err := h.queries.AuditLog.Execute(c.Request.Context(), auditRequest(c, 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":     nonNil(res.Records),
		"total_count": res.Total,
	})
}
