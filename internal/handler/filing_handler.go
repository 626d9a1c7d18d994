package handler

import (
	"net/http"
	"strconv"

	"taxreturn/internal/middleware"
	"taxreturn/internal/service"
	"taxreturn/pkg/pagination"
	"taxreturn/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxImportSize bounds an uploaded filing XML document.
const maxImportSize = 2 << 20

type FilingHandler struct {
	filingService service.FilingService
}

func NewFilingHandler(filingService service.FilingService) *FilingHandler {
	return &FilingHandler{filingService: filingService}
}

func (h *FilingHandler) RegisterRoutes(router *gin.RouterGroup) {
	filings := router.Group("/api/filings")
	filings.Use(middleware.RequireRole(middleware.AnyRole...))
	{
		filings.GET("", h.ListFilings)
		filings.POST("", h.CreateFiling)
		filings.POST("/import", h.ImportFiling)
		filings.GET("/:id", h.GetFiling)
		filings.PUT("/:id", h.UpdateFiling)
		filings.DELETE("/:id", h.DeleteFiling)
		filings.GET("/:id/summary", h.GetSummary)
		filings.GET("/:id/export.xml", h.ExportFiling)
	}
}

// CreateFiling stores a new declaration
// @Summary      Create a filing
// @Description  Stores a declaration and its computed result for the calling taxpayer.
// @Tags         filings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateFilingRequest  true  "Filing"
// @Success      201      {object}  response.Response{data=service.FilingResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/filings [post]
func (h *FilingHandler) CreateFiling(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	filing, err := h.filingService.Create(c.Request.Context(), a, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, filing))
}

// ListFilings lists visible filings
// @Summary      List filings
// @Description  Taxpayers see their own filings; accountants and admins see all.
// @Tags         filings
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Param        tax_year  query     int     false  "Filter by tax year"
// @Param        status    query     string  false  "DRAFT, IN_REVIEW, APPROVED or REJECTED"
// @Success      200       {object}  response.Response{data=response.Page{items=[]service.FilingResponse}}
// @Router       /api/filings [get]
func (h *FilingHandler) ListFilings(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	p := pagination.Parse(c)
	taxYear, _ := strconv.Atoi(c.Query("tax_year"))

	filings, total, err := h.filingService.List(c.Request.Context(), a, service.FilingFilter{
		TaxYear: taxYear,
		Status:  c.Query("status"),
		Page:    p.Page,
		Limit:   p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, filings, total, p.Page, p.Limit))
}

// GetFiling returns one filing with a fresh computation
// @Summary      Get a filing
// @Tags         filings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Filing ID"
// @Success      200  {object}  response.Response{data=service.FilingResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/filings/{id} [get]
func (h *FilingHandler) GetFiling(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	filing, err := h.filingService.Get(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, filing))
}

// UpdateFiling replaces the declaration of a filing
// @Summary      Update a filing
// @Description  Replaces the declaration and recomputes every row. The last write wins.
// @Tags         filings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Filing ID"
// @Param        payload  body      service.UpdateFilingRequest  true  "Filing"
// @Success      200      {object}  response.Response{data=service.FilingResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/filings/{id} [put]
func (h *FilingHandler) UpdateFiling(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req service.UpdateFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	filing, err := h.filingService.Update(c.Request.Context(), a, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, filing))
}

// DeleteFiling removes a filing
// @Summary      Delete a filing
// @Tags         filings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Filing ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/filings/{id} [delete]
func (h *FilingHandler) DeleteFiling(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := h.filingService.Delete(c.Request.Context(), a, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"id": c.Param("id")}))
}

// GetSummary returns the handoff summary of a filing
// @Summary      Get the handoff summary
// @Tags         filings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Filing ID"
// @Success      200  {object}  response.Response{data=model.HandoffSummary}
// @Failure      404  {object}  response.Response
// @Router       /api/filings/{id}/summary [get]
func (h *FilingHandler) GetSummary(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	summary, err := h.filingService.Summary(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// ExportFiling downloads the filing XML
// @Summary      Export a filing as XML
// @Tags         filings
// @Produce      xml
// @Security     BearerAuth
// @Param        id   path      string  true  "Filing ID"
// @Success      200  {string}  string  "filing XML document"
// @Failure      404  {object}  response.Response
// @Router       /api/filings/{id}/export.xml [get]
func (h *FilingHandler) ExportFiling(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	data, err := h.filingService.ExportXML(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="dpfo-`+c.Param("id")+`.xml"`)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}

// ImportFiling creates a filing from an XML document
// @Summary      Import a filing from XML
// @Description  The request body is the filing XML document; each present section is enabled.
// @Tags         filings
// @Accept       xml
// @Produce      json
// @Security     BearerAuth
// @Param        title  query     string  false  "Title of the new filing"
// @Success      201    {object}  response.Response{data=service.FilingResponse}
// @Failure      400    {object}  response.Response
// @Failure      413    {object}  response.Response
// @Router       /api/filings/import [post]
func (h *FilingHandler) ImportFiling(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	data, err := readBody(c, maxImportSize)
	if err != nil {
		writeBodyError(c, err)
		return
	}

	filing, err := h.filingService.ImportXML(c.Request.Context(), a, c.Query("title"), data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, filing))
}
