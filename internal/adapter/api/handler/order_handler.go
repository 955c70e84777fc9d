package handler

import (
	"github.com/labstack/echo/v4"

	"giglink/internal/domain/entity"
	"giglink/internal/usecase"
	"giglink/pkg/response"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type deliveryFileRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Name string `json:"name" validate:"required"`
	Size int64  `json:"size"`
}

type deliverOrderRequest struct {
	Files []deliveryFileRequest `json:"files" validate:"required,min=1,dive"`
}

type requestRevisionRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

// ListOrders lists orders the user is party to, ?status filters
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID := c.Get("uid").(string)

	orders, err := h.orderUseCase.ListOrders(c.Request().Context(), userID, c.QueryParam("status"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, orders)
}

// Deliver records the freelancer's delivery files on the order
func (h *OrderHandler) Deliver(c echo.Context) error {
	var req deliverOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	files := make([]entity.DeliveryFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, entity.DeliveryFile{
			URL:  f.URL,
			Name: f.Name,
			Size: f.Size,
		})
	}

	order, err := h.orderUseCase.Deliver(c.Request().Context(), userID, c.Param("id"), files)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

// RequestRevision sends a delivered order back for rework
func (h *OrderHandler) RequestRevision(c echo.Context) error {
	var req requestRevisionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.RequestRevision(c.Request().Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

// Complete closes a delivered order on the client's approval
func (h *OrderHandler) Complete(c echo.Context) error {
	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.Complete(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
