package api

import (
	"net/http"
	"time"

	"github.com/dreamerjackson/salesintel/collect"
	"github.com/dreamerjackson/salesintel/record"
	"github.com/dreamerjackson/salesintel/template"
	"go.uber.org/zap"
)

type collectRequest struct {
	TemplateName string         `json:"template_name"`
	Params       collect.Params `json:"params"`
}

type collectResponse struct {
	Success  bool            `json:"success"`
	Data     []record.Record `json:"data"`
	Count    int             `json:"count"`
	RunID    string          `json:"run_id"`
	Template string          `json:"template"`
}

type putTemplateRequest struct {
	Name     string             `json:"name"`
	Template *template.Template `json:"template"`
}

type listResponse struct {
	Data      []record.Record `json:"data"`
	Total     int             `json:"total"`
	Timestamp string          `json:"timestamp"`
}

func (a *App) timestamp() string {
	return a.now().UTC().Format(time.RFC3339)
}

func (a *App) overview(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	a.writeJSON(w, http.StatusOK, overviewFixture(a.store.Counts()))
}

// intelligenceFeed seeds an empty list with one run of the feed template
// before answering. A failed seed answers with the empty list.
func (a *App) intelligenceFeed(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if a.store.Counts().Intelligence == 0 {
		if t, ok := a.registry.Get(a.feedTemplate); ok {
			if res := a.collector.Run(r.Context(), t, a.feedParams); res != nil {
				a.store.Route(res.Category, res.Records)
			}
		} else {
			a.logger.Warn("feed template not registered", zap.String("template", a.feedTemplate))
		}
	}

	a.writeJSON(w, http.StatusOK, listResponse{
		Data:      a.store.Latest(LatestFeedItems),
		Total:     a.store.Counts().Intelligence,
		Timestamp: a.timestamp(),
	})
}

func (a *App) dealsPipeline(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	a.store.ReplaceDeals(dealsFixture())
	deals := a.store.Deals()

	a.writeJSON(w, http.StatusOK, listResponse{
		Data:      deals,
		Total:     len(deals),
		Timestamp: a.timestamp(),
	})
}

func (a *App) companyIntelligence(w http.ResponseWriter, r *http.Request, params map[string]string) {
	a.writeJSON(w, http.StatusOK, companyFixture(params["id"]))
}

func (a *App) collectTemplate(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req collectRequest
	if err := decode(r.Body, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	t, ok := a.registry.Get(req.TemplateName)
	if !ok {
		a.writeError(w, http.StatusBadRequest, msgTemplateNotFound)
		return
	}

	res := a.collector.Run(r.Context(), t, req.Params)
	if res == nil {
		a.writeError(w, http.StatusInternalServerError, msgCollectFailed)
		return
	}

	a.store.Route(res.Category, res.Records)

	a.writeJSON(w, http.StatusOK, collectResponse{
		Success:  true,
		Data:     res.Records,
		Count:    len(res.Records),
		RunID:    res.RunID,
		Template: res.Template,
	})
}

func (a *App) listTemplates(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	a.writeJSON(w, http.StatusOK, a.registry.All())
}

func (a *App) putTemplate(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req putTemplateRequest
	if err := decode(r.Body, &req); err != nil || req.Template == nil {
		a.writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Name == "" {
		a.writeError(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	a.registry.Put(req.Name, req.Template)
	a.logger.Info("template registered",
		zap.String("template", req.Name),
		zap.Stringer("kind", req.Template.Kind()),
	)

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Template " + req.Name + " registered",
	})
}

func (a *App) health(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": a.timestamp(),
		"version":   a.version,
		"counts":    a.store.Counts(),
	})
}
