package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	partnerapp "github.com/crm/backend/internal/application/partner"
	reportapp "github.com/crm/backend/internal/application/report"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	importTemplateName   = "customer-import-template.xlsx"
	customerExportName   = "customers.xlsx"
	importUploadFormName = "file"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	importService   *partnerapp.CustomerImportService
	reportService   *reportapp.ReportService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(
	customerService *partnerapp.CustomerService,
	importService *partnerapp.CustomerImportService,
	reportService *reportapp.ReportService,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		importService:   importService,
		reportService:   reportService,
	}
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Paginated customer list; search matches code, name, phone and email
// @Tags         customers
// @Produce      json
// @Param        search    query string false "Search term"
// @Param        tier      query string false "Tier filter" Enums(New, VIP)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size"
// @Success      200 {array} partnerapp.CustomerResponse
// @Header       200 {integer} X-Total-Count "Number of matching customers"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, customers, total)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID"
// @Success      200 {object} partnerapp.CustomerResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Description  The customer code is issued by the server and the tier starts at New
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CustomerRequest true "Customer"
// @Success      201 {object} partnerapp.CustomerResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Param        id      path int                      true "Customer ID"
// @Param        request body partnerapp.CustomerRequest true "Customer"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if !h.BindJSON(c, &req) || !h.CheckIDMismatch(c, id, req.ID) {
		return
	}

	if err := h.customerService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path int true "Customer ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Dropdown godoc
// @ID           customerDropdown
// @Summary      Customer picker entries
// @Description  Items are labelled "code-name"
// @Tags         customers
// @Produce      json
// @Success      200 {array} partnerapp.DropdownItem
// @Security     BearerAuth
// @Router       /customer/dropdown [get]
func (h *CustomerHandler) Dropdown(c *gin.Context) {
	items, err := h.customerService.Dropdown(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Count godoc
// @ID           countCustomers
// @Summary      Number of customers
// @Tags         customers
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /customer/count [get]
func (h *CustomerHandler) Count(c *gin.Context) {
	n, err := h.reportService.CountCustomers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// CountVIP godoc
// @ID           countVipCustomers
// @Summary      Number of VIP customers
// @Tags         customers
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /customer/count-vip [get]
func (h *CustomerHandler) CountVIP(c *gin.Context) {
	n, err := h.reportService.CountVIPCustomers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// AvailableYears godoc
// @ID           customerAvailableYears
// @Summary      Years with new customers
// @Description  Distinct creation years, newest first
// @Tags         customers
// @Produce      json
// @Success      200 {array} int
// @Security     BearerAuth
// @Router       /customer/available-years [get]
func (h *CustomerHandler) AvailableYears(c *gin.Context) {
	years, err := h.reportService.AvailableYears(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, years)
}

// MonthlyGrowth godoc
// @ID           customerMonthlyGrowth
// @Summary      New customers per month
// @Description  Twelve counts, January first
// @Tags         customers
// @Produce      json
// @Param        year path int true "Calendar year"
// @Success      200 {array} int
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer/monthly-growth/{year} [get]
func (h *CustomerHandler) MonthlyGrowth(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "year must be a number between 1 and 9999")
		return
	}

	growth, err := h.reportService.MonthlyGrowth(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, growth)
}

// CheckDuplicate godoc
// @ID           checkCustomerDuplicate
// @Summary      Check phone and email uniqueness
// @Description  The customer named by id is ignored; an empty email is never a duplicate
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.DuplicateCheckRequest true "Values to check"
// @Success      200 {object} partnerapp.DuplicateCheckResponse
// @Security     BearerAuth
// @Router       /customer/check-duplicate [post]
func (h *CustomerHandler) CheckDuplicate(c *gin.Context) {
	var req partnerapp.DuplicateCheckRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.customerService.CheckDuplicate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ImportPreview godoc
// @ID           previewCustomerImport
// @Summary      Parse an import workbook
// @Description  Reads the first sheet of an .xlsx upload and returns the rows without saving them
// @Tags         customers
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Workbook"
// @Success      200 {array} partnerapp.ImportCustomerRow
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer/import-preview [post]
func (h *CustomerHandler) ImportPreview(c *gin.Context) {
	header, err := c.FormFile(importUploadFormName)
	if err != nil {
		h.BadRequest(c, "a workbook must be uploaded in the \"file\" field")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "the uploaded file cannot be read")
		return
	}
	defer file.Close()

	rows, err := h.importService.Preview(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Import godoc
// @ID           importCustomers
// @Summary      Import customers
// @Description  All rows are saved or none; the first invalid row is reported by position
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.ImportCustomersRequest true "Rows to import"
// @Success      200 {object} partnerapp.ImportResult
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /customer/import [post]
func (h *CustomerHandler) Import(c *gin.Context) {
	var req partnerapp.ImportCustomersRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.importService.Import(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DownloadTemplate godoc
// @ID           downloadCustomerImportTemplate
// @Summary      Import template
// @Description  Workbook with the import header row only
// @Tags         customers
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /customer/download-template [get]
func (h *CustomerHandler) DownloadTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.importService.WriteTemplate(&buf); err != nil {
		h.HandleError(c, err)
		return
	}
	sendWorkbook(c, importTemplateName, buf.Bytes())
}

// ExportExcel godoc
// @ID           exportCustomers
// @Summary      Export customers
// @Description  Columns may repeat or be comma separated; unknown names are skipped and no known name exports every column
// @Tags         customers
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        columns query []string false "Columns" collectionFormat(multi)
// @Param        search  query string   false "Search term"
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /customer/export-excel [get]
func (h *CustomerHandler) ExportExcel(c *gin.Context) {
	var columns []string
	for _, value := range c.QueryArray("columns") {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				columns = append(columns, name)
			}
		}
	}

	var buf bytes.Buffer
	if err := h.importService.Export(c.Request.Context(), &buf, columns, c.Query("search")); err != nil {
		h.HandleError(c, err)
		return
	}
	sendWorkbook(c, customerExportName, buf.Bytes())
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
