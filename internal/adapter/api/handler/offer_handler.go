package handler

import (
	"github.com/labstack/echo/v4"

	"giglink/internal/domain/service"
	"giglink/internal/usecase"
	"giglink/pkg/response"
)

type OfferHandler struct {
	offerUseCase *usecase.OfferUseCase
}

func NewOfferHandler(offerUseCase *usecase.OfferUseCase) *OfferHandler {
	return &OfferHandler{
		offerUseCase: offerUseCase,
	}
}

type createOfferRequest struct {
	ConversationID string  `json:"conversation_id" validate:"required"`
	Title          string  `json:"title" validate:"required,max=100"`
	Description    string  `json:"description" validate:"required,max=2000"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	DeliveryDays   int     `json:"delivery_days" validate:"required,min=1,max=90"`
	Revisions      int     `json:"revisions" validate:"min=0,max=10"`
}

type rejectOfferRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// CreateOffer lets a freelancer propose custom terms in a conversation
func (h *OfferHandler) CreateOffer(c echo.Context) error {
	var req createOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	offer, err := h.offerUseCase.CreateOffer(c.Request().Context(), userID, req.ConversationID, service.OfferTerms{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		Revisions:    req.Revisions,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, offer)
}

func (h *OfferHandler) GetOffer(c echo.Context) error {
	userID := c.Get("uid").(string)

	offer, err := h.offerUseCase.GetOffer(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

// AcceptOffer accepts a pending offer and returns the order created from it
func (h *OfferHandler) AcceptOffer(c echo.Context) error {
	userID := c.Get("uid").(string)

	order, err := h.offerUseCase.AcceptOffer(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OfferHandler) RejectOffer(c echo.Context) error {
	var req rejectOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	offer, err := h.offerUseCase.RejectOffer(c.Request().Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

// ListOffers lists the user's offers, ?role=sent for offers made as
// freelancer, ?role=received (default) for offers received as client.
// ?status filters by offer status.
func (h *OfferHandler) ListOffers(c echo.Context) error {
	userID := c.Get("uid").(string)
	status := c.QueryParam("status")

	var err error
	var offers interface{}

	if c.QueryParam("role") == "sent" {
		offers, err = h.offerUseCase.ListSentOffers(c.Request().Context(), userID, status)
	} else {
		offers, err = h.offerUseCase.ListReceivedOffers(c.Request().Context(), userID, status)
	}
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offers)
}

// ListConversationOffers lists offers negotiated in one conversation
func (h *OfferHandler) ListConversationOffers(c echo.Context) error {
	userID := c.Get("uid").(string)

	offers, err := h.offerUseCase.ListConversationOffers(c.Request().Context(), userID, c.Param("id"), c.QueryParam("status"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offers)
}
