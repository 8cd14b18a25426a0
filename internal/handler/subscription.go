package handler

import (
	"log/slog"
	"net/http"

	"github.com/usersubs/usersubs/internal/handler/dto"
	"github.com/usersubs/usersubs/internal/service"
)

// SubscriptionHandler handles HTTP requests for subscription operations.
type SubscriptionHandler struct {
	svc    *service.SubscriptionService
	logger *slog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(svc *service.SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /subscriptions/users/{user_id}.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	sub, err := h.svc.AttachToUser(r.Context(), userID, service.CreateSubscriptionInput{
		ServiceTitle: req.ServiceTitle,
		Plan:         req.Plan,
		Description:  req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("subscription_created",
		"subscription_id", sub.ID,
		"user_id", sub.UserID,
		"service_title", sub.ServiceTitle,
	)

	writeJSON(w, http.StatusOK, dto.ToSubscriptionResponse(sub))
}

// List handles GET /subscriptions.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSubscriptionResponses(subs))
}

// Get handles GET /subscriptions/{subscription_id}.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "subscription_id")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	sub, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSubscriptionResponse(sub))
}

// ListForUser handles GET /subscriptions/users/{user_id}.
func (h *SubscriptionHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	subs, err := h.svc.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSubscriptionResponses(subs))
}

// Update handles PUT /subscriptions/{subscription_id}.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "subscription_id")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	sub, err := h.svc.Update(r.Context(), id, service.UpdateSubscriptionInput{
		UserID:       req.UserID,
		ServiceTitle: req.ServiceTitle,
		Plan:         req.Plan,
		Description:  req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("subscription_updated", "subscription_id", sub.ID, "user_id", sub.UserID)

	writeJSON(w, http.StatusOK, dto.ToSubscriptionResponse(sub))
}

// Delete handles DELETE /subscriptions/{subscription_id}/users/{user_id}.
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "subscription_id")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("subscription_deleted", "subscription_id", id, "user_id", userID)

	w.WriteHeader(http.StatusOK)
}

// Top handles GET /subscriptions/top.
func (h *SubscriptionHandler) Top(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.svc.TopPopular(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPopularResponses(ranking))
}
