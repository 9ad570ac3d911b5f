package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "debtwise/internal/errors"
	"debtwise/internal/models"
	"debtwise/internal/services"
)

// DebtHandler handles debt-related requests
type DebtHandler struct {
	debtService services.DebtServicer
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService services.DebtServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// CreateDebtRequest represents the request payload for creating a debt
type CreateDebtRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	InitialBalance *decimal.Decimal `json:"initial_balance" binding:"required,gte=0" swaggertype:"string" example:"1000"`
	RatePercent    *decimal.Decimal `json:"rate_percent" binding:"omitempty,gte=0" swaggertype:"string" example:"12"`
	RateType       models.RateType  `json:"rate_type" binding:"omitempty,rate_type" example:"yearly"`
	MinPayment     *decimal.Decimal `json:"min_payment" binding:"omitempty,gte=0" swaggertype:"string" example:"100"`
	DueDay         int              `json:"due_day" binding:"required,min=1,max=31" example:"15"`
}

// UpdateDebtRequest represents the request payload for updating a debt.
// Omitted fields are left unchanged.
type UpdateDebtRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=100"`
	InitialBalance *decimal.Decimal `json:"initial_balance" binding:"omitempty,gte=0" swaggertype:"string"`
	CurrentBalance *decimal.Decimal `json:"current_balance" swaggertype:"string"`
	RatePercent    *decimal.Decimal `json:"rate_percent" binding:"omitempty,gte=0" swaggertype:"string"`
	RateType       *models.RateType `json:"rate_type" binding:"omitempty,rate_type"`
	MinPayment     *decimal.Decimal `json:"min_payment" binding:"omitempty,gte=0" swaggertype:"string"`
	DueDay         *int             `json:"due_day" binding:"omitempty,min=1,max=31"`
}

// CreateDebt handles the creation of a new debt
// @Summary     Create a debt
// @Description Register money owed. The current balance starts at the initial balance.
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDebtRequest true "Debt details"
// @Success     201 {object} models.Debt "Debt created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate debt name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [post]
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.NewDebtInput{
		Name:           req.Name,
		InitialBalance: *req.InitialBalance,
		RateType:       req.RateType,
		DueDay:         req.DueDay,
	}
	if input.RateType == "" {
		input.RateType = models.RateTypeYearly
	}
	if req.RatePercent != nil {
		input.RatePercent = *req.RatePercent
	}
	if req.MinPayment != nil {
		input.MinPayment = *req.MinPayment
	}

	debt, err := h.debtService.CreateDebt(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"debt": debt})
}

// GetUserDebts lists the user's debts
// @Summary     Get all debts
// @Description Get all debts of the authenticated user ordered by name
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Debt "List of debts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [get]
func (h *DebtHandler) GetUserDebts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debts, err := h.debtService.GetUserDebts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debts": debts})
}

// GetDebtByID handles the retrieval of a specific debt
// @Summary     Get debt by ID
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} models.Debt "Debt details"
// @Failure     400 {object} ErrorResponse "Invalid debt ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [get]
func (h *DebtHandler) GetDebtByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.GetDebtByID(userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// UpdateDebt handles updating a debt
// @Summary     Update debt
// @Description Update debt fields. Setting current_balance overrides the balance derived from payments.
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Debt ID"
// @Param       request body UpdateDebtRequest true "Fields to update"
// @Success     200 {object} models.Debt "Updated debt"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     409 {object} ErrorResponse "Duplicate debt name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	debt, err := h.debtService.UpdateDebt(userID, debtID, services.DebtUpdate{
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.CurrentBalance,
		RatePercent:    req.RatePercent,
		RateType:       req.RateType,
		MinPayment:     req.MinPayment,
		DueDay:         req.DueDay,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// DeleteDebt handles deleting a debt
// @Summary     Delete debt
// @Description Delete a debt. Its payment transactions are kept.
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} MessageResponse "Debt deleted"
// @Failure     400 {object} ErrorResponse "Invalid debt ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.debtService.DeleteDebt(userID, debtID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Debt deleted"})
}

// GetDebtPayments returns the payment history of a debt
// @Summary     Get debt payments
// @Description Get a debt with its payment transactions (newest first) and the total paid
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} services.DebtPayments "Debt payment history"
// @Failure     400 {object} ErrorResponse "Invalid debt ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id}/payments [get]
func (h *DebtHandler) GetDebtPayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payments, err := h.debtService.GetDebtPayments(userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// ProjectPayoff estimates when a debt will be paid off
// @Summary     Project debt payoff
// @Description Estimate the months until payoff when paying the minimum payment plus an optional extra amount every month
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id            path  string true  "Debt ID"
// @Param       extra_payment query string false "Extra monthly payment (default 0)"
// @Success     200 {object} ledger.Projection "Payoff projection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id}/projection [get]
func (h *DebtHandler) ProjectPayoff(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	extra := decimal.Zero
	if v := c.Query("extra_payment"); v != "" {
		extra, err = decimal.NewFromString(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid extra_payment"))
			return
		}
	}

	projection, err := h.debtService.ProjectPayoff(userID, debtID, extra)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projection": projection})
}
