package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calebmartin/inkwell/internal/models"
	pkghttp "github.com/calebmartin/inkwell/pkg/http"
)

// ContactServiceInterface defines the interface for contact form logic
type ContactServiceInterface interface {
	Submit(ctx context.Context, name, email, phone, message string) error
}

// ContactHandler handles contact form submissions
type ContactHandler struct {
	service ContactServiceInterface
}

func NewContactHandler(service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.Submit(r.Context(), req.Name, req.Email, req.Phone, req.Message); err != nil {
		if errors.Is(err, models.ErrDeliveryFailure) {
			pkghttp.WriteFlash(w, http.StatusBadGateway,
				"We couldn't send your message, please try again later.",
				pkghttp.FlashDanger, "/contact")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to send message")
		return
	}

	pkghttp.WriteFlash(w, http.StatusOK,
		"Successfully sent your message.",
		pkghttp.FlashSuccess, "/contact")
}
