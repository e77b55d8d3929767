package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	partnerapp "github.com/crm/backend/internal/application/partner"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupCustomerRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	h := NewCustomerHandler(env.customer, env.imports, env.report)

	r := newTestRouter(nil)
	g := r.Group("/api/customer")
	g.GET("/dropdown", h.Dropdown)
	g.GET("/count", h.Count)
	g.GET("/count-vip", h.CountVIP)
	g.GET("/available-years", h.AvailableYears)
	g.GET("/monthly-growth/:year", h.MonthlyGrowth)
	g.GET("/download-template", h.DownloadTemplate)
	g.GET("/export-excel", h.ExportExcel)
	g.POST("/import-preview", h.ImportPreview)
	g.POST("/import", h.Import)
	g.POST("/check-duplicate", h.CheckDuplicate)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r, env
}

func createCustomer(t *testing.T, r http.Handler, body map[string]any) partnerapp.CustomerResponse {
	t.Helper()
	w := performRequest(r, http.MethodPost, "/api/customer", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeJSON[partnerapp.CustomerResponse](t, w)
}

func TestCustomerHandler_CRUD(t *testing.T) {
	r, _ := setupCustomerRouter(t)

	created := createCustomer(t, r, map[string]any{
		"name":         "Nguyen Van A",
		"phone":        "0901234567",
		"email":        "A@Example.com",
		"created_date": "2024-02-10",
	})
	assert.Equal(t, "KH0001", created.Code)
	assert.Equal(t, "New", created.Tier)
	assert.Equal(t, "2024-02-10", created.CreatedDate)

	w := performRequest(r, http.MethodGet, fmt.Sprintf("/api/customer/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nguyen Van A", decodeJSON[partnerapp.CustomerResponse](t, w).Name)

	w = performRequest(r, http.MethodPut, fmt.Sprintf("/api/customer/%d", created.ID), map[string]any{
		"name":  "Nguyen Van B",
		"phone": "0901234567",
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/customer/%d", created.ID), nil)
	updated := decodeJSON[partnerapp.CustomerResponse](t, w)
	assert.Equal(t, "Nguyen Van B", updated.Name)
	assert.Equal(t, "KH0001", updated.Code)

	w = performRequest(r, http.MethodGet, "/api/customer?search=Van", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(TotalCountHeader))

	w = performRequest(r, http.MethodDelete, fmt.Sprintf("/api/customer/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/customer/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
}

func TestCustomerHandler_Create_Validation(t *testing.T) {
	r, _ := setupCustomerRouter(t)
	createCustomer(t, r, map[string]any{"name": "First", "phone": "0900000001", "email": "first@example.com"})

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{"missing name", map[string]any{"phone": "0900000002"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"bad email", map[string]any{"name": "X", "phone": "0900000003", "email": "not-an-email"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"duplicate phone", map[string]any{"name": "X", "phone": "0900000001"}, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"duplicate email ignoring case", map[string]any{"name": "X", "phone": "0900000004", "email": "FIRST@example.com"}, http.StatusConflict, dto.ErrCodeAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPost, "/api/customer", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestCustomerHandler_Update_IDMismatch(t *testing.T) {
	r, _ := setupCustomerRouter(t)
	c := createCustomer(t, r, map[string]any{"name": "A", "phone": "0900000001"})

	w := performRequest(r, http.MethodPut, fmt.Sprintf("/api/customer/%d", c.ID), map[string]any{
		"id":    c.ID + 1,
		"name":  "A",
		"phone": "0900000001",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeIDMismatch, errorCode(t, w))
}

func TestCustomerHandler_Statistics(t *testing.T) {
	r, _ := setupCustomerRouter(t)
	createCustomer(t, r, map[string]any{"name": "A", "phone": "0900000001", "created_date": "2023-05-01"})
	createCustomer(t, r, map[string]any{"name": "B", "phone": "0900000002", "created_date": "2024-01-15"})
	createCustomer(t, r, map[string]any{"name": "C", "phone": "0900000003", "created_date": "2024-01-20"})

	w := performRequest(r, http.MethodGet, "/api/customer/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Body.String())

	w = performRequest(r, http.MethodGet, "/api/customer/count-vip", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())

	w = performRequest(r, http.MethodGet, "/api/customer/available-years", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{2024, 2023}, decodeJSON[[]int](t, w))

	w = performRequest(r, http.MethodGet, "/api/customer/monthly-growth/2024", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [12]int{2}, decodeJSON[[12]int](t, w))

	w = performRequest(r, http.MethodGet, "/api/customer/monthly-growth/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, errorCode(t, w))

	w = performRequest(r, http.MethodGet, "/api/customer/dropdown", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]partnerapp.DropdownItem](t, w), 3)
}

func TestCustomerHandler_CheckDuplicate(t *testing.T) {
	r, _ := setupCustomerRouter(t)
	c := createCustomer(t, r, map[string]any{"name": "A", "phone": "0900000001", "email": "a@example.com"})

	w := performRequest(r, http.MethodPost, "/api/customer/check-duplicate", map[string]any{
		"phone": "0900000001",
		"email": "A@EXAMPLE.COM",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, partnerapp.DuplicateCheckResponse{IsPhoneDuplicate: true, IsEmailDuplicate: true},
		decodeJSON[partnerapp.DuplicateCheckResponse](t, w))

	w = performRequest(r, http.MethodPost, "/api/customer/check-duplicate", map[string]any{
		"id":    c.ID,
		"phone": "0900000001",
		"email": "a@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, partnerapp.DuplicateCheckResponse{}, decodeJSON[partnerapp.DuplicateCheckResponse](t, w))

	// the create this check precedes stores the phone trimmed
	w = performRequest(r, http.MethodPost, "/api/customer/check-duplicate", map[string]any{
		"phone": " 0900000001",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeJSON[partnerapp.DuplicateCheckResponse](t, w).IsPhoneDuplicate)
}

func workbookUpload(t *testing.T, rows [][]any) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(importUploadFormName, "customers.xlsx")
	require.NoError(t, err)
	require.NoError(t, f.Write(part))
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestCustomerHandler_ImportFlow(t *testing.T) {
	r, _ := setupCustomerRouter(t)

	body, contentType := workbookUpload(t, [][]any{
		{"Name", "Phone", "Address", "Email", "CreatedDate"},
		{"Tran Thi B", "0902000001", "Ha Noi", "b@example.com", "2024-03-15"},
		{"Le Van C", "0902000002", "", "", "15/04/2024"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/customer/import-preview", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rows := decodeJSON[[]partnerapp.ImportCustomerRow](t, w)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tran Thi B", rows[0].Name)
	assert.Equal(t, "2024-03-15", rows[0].CreatedDate)
	assert.Equal(t, "2024-04-15", rows[1].CreatedDate)

	w = performRequest(r, http.MethodGet, "/api/customer/count", nil)
	assert.Equal(t, "0", w.Body.String(), "preview must not save")

	w = performRequest(r, http.MethodPost, "/api/customer/import", map[string]any{"customers": rows})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, decodeJSON[partnerapp.ImportResult](t, w).Count)

	w = performRequest(r, http.MethodGet, "/api/customer/count", nil)
	assert.Equal(t, "2", w.Body.String())
}

func TestCustomerHandler_Import_RejectsWholeBatch(t *testing.T) {
	r, _ := setupCustomerRouter(t)

	w := performRequest(r, http.MethodPost, "/api/customer/import", map[string]any{
		"customers": []map[string]string{
			{"name": "Ok", "phone": "0902000001"},
			{"name": "", "phone": "0902000002"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = performRequest(r, http.MethodGet, "/api/customer/count", nil)
	assert.Equal(t, "0", w.Body.String())
}

func TestCustomerHandler_ImportPreview_MissingFile(t *testing.T) {
	r, _ := setupCustomerRouter(t)

	w := performRequest(r, http.MethodPost, "/api/customer/import-preview", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w))
}

func TestCustomerHandler_Workbooks(t *testing.T) {
	r, _ := setupCustomerRouter(t)
	createCustomer(t, r, map[string]any{"name": "A", "phone": "0900000001"})

	t.Run("template", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/customer/download-template", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), importTemplateName)

		f, err := excelize.OpenReader(w.Body)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, []string{"Name", "Phone", "Address", "Email", "CreatedDate"}, rows[0])
	})

	t.Run("export selected columns", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/customer/export-excel?columns=phone,code", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), customerExportName)

		f, err := excelize.OpenReader(w.Body)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"Code", "Phone"}, rows[0])
		assert.Equal(t, []string{"KH0001", "0900000001"}, rows[1])
	})
}
