package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/response"
	"github.com/shametoflame/ministry/internal/service"
)

type progressHandler struct {
	progress *service.ProgressService
}

func NewProgressHandler(progress *service.ProgressService) *progressHandler {
	return &progressHandler{
		progress: progress,
	}
}

func (h *progressHandler) Start(w http.ResponseWriter, r *http.Request) {
	progress, err := h.progress.StartPlan(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrPlanDataNotFound) {
			response.Error(w, http.StatusNotFound, "plan not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not start plan")
		return
	}

	response.Created(w, progress)
}

func (h *progressHandler) Current(w http.ResponseWriter, r *http.Request) {
	active, err := h.progress.CurrentPlan()
	if err != nil {
		if errors.Is(err, service.ErrPlanNotStarted) {
			response.Error(w, http.StatusNotFound, "no plan in progress")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not load current plan")
		return
	}

	response.Success(w, active)
}

type dayRequest struct {
	Day int `json:"day"`
}

func (h *progressHandler) CompleteDay(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Day < 1 {
		response.Error(w, http.StatusBadRequest, "invalid day")
		return
	}

	progress, err := h.progress.CompleteDay(r.PathValue("id"), req.Day)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotStarted) {
			response.Error(w, http.StatusNotFound, "plan not started")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not update progress")
		return
	}

	response.Success(w, progress)
}

func (h *progressHandler) UncompleteDay(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Day < 1 {
		response.Error(w, http.StatusBadRequest, "invalid day")
		return
	}

	progress, err := h.progress.UncompleteDay(r.PathValue("id"), req.Day)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotStarted) {
			response.Error(w, http.StatusNotFound, "plan not started")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not update progress")
		return
	}

	response.Success(w, progress)
}

func (h *progressHandler) NextDay(w http.ResponseWriter, r *http.Request) {
	progress, err := h.progress.NextDay(r.PathValue("id"))
	h.respondMove(w, progress, err)
}

func (h *progressHandler) PreviousDay(w http.ResponseWriter, r *http.Request) {
	progress, err := h.progress.PreviousDay(r.PathValue("id"))
	h.respondMove(w, progress, err)
}

func (h *progressHandler) respondMove(w http.ResponseWriter, progress *model.Progress, err error) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotStarted):
			response.Error(w, http.StatusNotFound, "plan not started")
		case errors.Is(err, service.ErrPlanDataNotFound):
			response.Error(w, http.StatusNotFound, "plan not found")
		default:
			response.Error(w, http.StatusInternalServerError, "could not update current day")
		}
		return
	}

	response.Success(w, progress)
}

func (h *progressHandler) GoToDay(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid day")
		return
	}

	active, err := h.progress.GoToDay(day)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotStarted) {
			response.Error(w, http.StatusNotFound, "no plan in progress")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not update current day")
		return
	}

	response.Success(w, active)
}

func (h *progressHandler) All(w http.ResponseWriter, r *http.Request) {
	records, err := h.progress.AllProgress()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load progress")
		return
	}

	response.Success(w, records)
}

func (h *progressHandler) Save(w http.ResponseWriter, r *http.Request) {
	err := h.progress.SavePlan(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrPlanDataNotFound) {
			response.Error(w, http.StatusNotFound, "plan not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not save plan")
		return
	}

	response.Success(w, map[string]any{"saved": true})
}

func (h *progressHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	err := h.progress.UnsavePlan(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not remove saved plan")
		return
	}

	response.Success(w, map[string]any{"saved": false})
}

func (h *progressHandler) Saved(w http.ResponseWriter, r *http.Request) {
	saved, err := h.progress.SavedPlans()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load saved plans")
		return
	}

	response.Success(w, saved)
}
