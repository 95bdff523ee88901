package handler

import (
	"net/http"
	"strconv"

	"github.com/shametoflame/ministry/internal/catalog"
	"github.com/shametoflame/ministry/internal/response"
)

type planHandler struct {
	catalog *catalog.Catalog
}

func NewPlanHandler(cat *catalog.Catalog) *planHandler {
	return &planHandler{
		catalog: cat,
	}
}

func (h *planHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	featured := r.URL.Query().Get("featured") == "true"

	var err error
	plans, err := h.catalog.Plans()
	if err == nil && category != "" {
		plans, err = h.catalog.PlansByCategory(category)
	} else if err == nil && featured {
		plans, err = h.catalog.FeaturedPlans()
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load plans")
		return
	}

	response.Success(w, plans)
}

func (h *planHandler) Show(w http.ResponseWriter, r *http.Request) {
	plan, err := h.catalog.PlanByID(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "plan not found")
		return
	}

	response.Success(w, plan)
}

func (h *planHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load categories")
		return
	}

	response.Success(w, categories)
}

func (h *planHandler) Devotional(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil || day < 1 {
		response.Error(w, http.StatusBadRequest, "invalid day")
		return
	}

	html, err := h.catalog.DevotionalHTML(r.PathValue("id"), day)
	if err != nil {
		response.Error(w, http.StatusNotFound, "devotional not found")
		return
	}

	response.Success(w, map[string]any{"day": day, "html": html})
}
