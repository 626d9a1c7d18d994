package handler

import (
	"errors"
	"io"
	"net/http"

	"taxreturn/internal/service"
	"taxreturn/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxDeclarationSize bounds a compute request body, the same bound the websocket applies to
// a frame.
const maxDeclarationSize = 1 << 20

type TaxHandler struct {
	taxService service.TaxService
}

func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// RegisterRoutes mounts the stateless calculator. It is public: nothing is stored.
func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api/tax")
	{
		tax.POST("/compute", h.Compute)
		tax.POST("/dividend-entries", h.NewDividendEntry)
	}
}

// Compute recomputes a declaration
// @Summary      Compute a declaration
// @Description  Runs the calculators, the risk rules and the handoff summary over a declaration. Omitted fields keep their defaults.
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        payload  body      model.Declaration  true  "Declaration"
// @Success      200      {object}  response.Response{data=service.ComputeResponse}
// @Failure      400      {object}  response.Response
// @Failure      413      {object}  response.Response
// @Router       /api/tax/compute [post]
func (h *TaxHandler) Compute(c *gin.Context) {
	body, err := readBody(c, maxDeclarationSize)
	if err != nil {
		writeBodyError(c, err)
		return
	}

	d, err := h.taxService.DecodeDeclaration(body)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.taxService.Compute(d)))
}

// NewDividendEntry converts a foreign dividend into a declaration entry
// @Summary      Create a dividend entry
// @Description  Converts the original-currency amounts into EUR at the given rate, once.
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDividendEntryRequest  true  "Dividend receipt"
// @Success      201      {object}  response.Response{data=model.DividendEntry}
// @Failure      400      {object}  response.Response
// @Router       /api/tax/dividend-entries [post]
func (h *TaxHandler) NewDividendEntry(c *gin.Context) {
	var req service.CreateDividendEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.taxService.NewDividendEntry(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// readBody reads the whole request body, failing once it grows past limit.
func readBody(c *gin.Context, limit int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	return io.ReadAll(c.Request.Body)
}

func writeBodyError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, response.Error(http.StatusRequestEntityTooLarge, "Request payload too large"))
		return
	}
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
}
