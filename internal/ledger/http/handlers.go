package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joneireis/cidacake-program/internal/ledger/domain"
)

const AddressParamKey = "address"

type initializeRequestBody struct {
	Address      string  `json:"address" binding:"required"`
	InitialStock *uint64 `json:"initialStock"`
	InitialPrice *uint64 `json:"initialPrice"`
}

type addStockRequestBody struct {
	Amount uint64 `json:"amount" binding:"required,gt=0"`
}

type updatePriceRequestBody struct {
	NewPrice uint64 `json:"newPrice" binding:"required,gt=0"`
}

type sellRequestBody struct {
	Quantity uint64 `json:"quantity" binding:"required,gt=0"`
}

type depositRequestBody struct {
	Amount uint64 `json:"amount" binding:"required,gt=0"`
}

type recordResponse struct {
	Address string `json:"address"`
	Stock   uint64 `json:"stock"`
	Price   uint64 `json:"price"`
	Owner   string `json:"owner"`
}

type saleResponse struct {
	recordResponse
	TotalDue uint64 `json:"totalDue"`
}

type balanceResponse struct {
	Identity string `json:"identity"`
	Balance  uint64 `json:"balance"`
}

type LedgerHandler struct {
	service OperationService
}

func NewLedgerHandler(service OperationService) *LedgerHandler {
	return &LedgerHandler{
		service: service,
	}
}

func (h *LedgerHandler) Initialize(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "caller identity missing"})
		return
	}

	var body initializeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid request body"})
		return
	}

	address, err := domain.ParseAddress(body.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	initialStock := uint64(domain.DefaultInitialStock)
	if body.InitialStock != nil {
		initialStock = *body.InitialStock
	}

	initialPrice := uint64(domain.DefaultInitialPrice)
	if body.InitialPrice != nil {
		initialPrice = *body.InitialPrice
	}

	summary, err := h.service.Initialize(c, address, caller, initialStock, initialPrice)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, convertToRecordResponse(summary))
}

func (h *LedgerHandler) GetRecord(c *gin.Context) {
	address, err := domain.ParseAddress(c.Param(AddressParamKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	summary, err := h.service.GetRecord(c, address)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertToRecordResponse(summary))
}

func (h *LedgerHandler) AddStock(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "caller identity missing"})
		return
	}

	address, err := domain.ParseAddress(c.Param(AddressParamKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	var body addStockRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid request body"})
		return
	}

	summary, err := h.service.AddStock(c, address, caller, body.Amount)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertToRecordResponse(summary))
}

func (h *LedgerHandler) UpdatePrice(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "caller identity missing"})
		return
	}

	address, err := domain.ParseAddress(c.Param(AddressParamKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	var body updatePriceRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid request body"})
		return
	}

	summary, err := h.service.UpdatePrice(c, address, caller, body.NewPrice)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertToRecordResponse(summary))
}

func (h *LedgerHandler) Sell(c *gin.Context) {
	buyer, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "caller identity missing"})
		return
	}

	address, err := domain.ParseAddress(c.Param(AddressParamKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	var body sellRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid request body"})
		return
	}

	summary, err := h.service.Sell(c, address, buyer, body.Quantity)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, saleResponse{
		recordResponse: convertToRecordResponse(summary.RecordSummary),
		TotalDue:       summary.TotalDue,
	})
}

func (h *LedgerHandler) Deposit(c *gin.Context) {
	identity, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "caller identity missing"})
		return
	}

	var body depositRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid request body"})
		return
	}

	balance, err := h.service.Deposit(c, identity, body.Amount)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, balanceResponse{
		Identity: identity.String(),
		Balance:  balance,
	})
}

func (h *LedgerHandler) GetBalance(c *gin.Context) {
	identity, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "caller identity missing"})
		return
	}

	balance, err := h.service.GetBalance(c, identity)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, balanceResponse{
		Identity: identity.String(),
		Balance:  balance,
	})
}

func convertToRecordResponse(summary domain.RecordSummary) recordResponse {
	return recordResponse{
		Address: summary.Address.String(),
		Stock:   summary.Stock,
		Price:   summary.Price,
		Owner:   summary.Owner.String(),
	}
}

// handleDomainError maps each failure kind to its own status code so clients
// can tell a retryable settlement failure from a request that will never
// succeed as submitted.
func handleDomainError(c *gin.Context, err error) {
	kind := domain.ErrorKind(err)

	var statusCode int
	switch kind {
	case "invalid_amount", "invalid_price":
		statusCode = http.StatusBadRequest
	case "unauthorized":
		statusCode = http.StatusForbidden
	case "record_not_found", "account_not_found":
		statusCode = http.StatusNotFound
	case "already_initialized", "insufficient_stock":
		statusCode = http.StatusConflict
	case "overflow":
		statusCode = http.StatusUnprocessableEntity
	case "transfer_failed":
		statusCode = http.StatusBadGateway
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal server error"})
		return
	}

	message := err.Error()
	if message == "" {
		message = kind
	}

	c.JSON(statusCode, gin.H{"error": kind, "message": message})
}
