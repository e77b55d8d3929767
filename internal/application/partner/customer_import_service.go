package partner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/spreadsheet"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Import sheet layout: one header row, then these columns in order
const (
	colName = iota
	colPhone
	colAddress
	colEmail
	colCreatedDate
)

var importHeaders = []string{"Name", "Phone", "Address", "Email", "CreatedDate"}

// exportColumn is one selectable column of the customer export
type exportColumn struct {
	key    string
	header string
	value  func(c *partner.Customer) any
}

var exportColumns = []exportColumn{
	{"id", "ID", func(c *partner.Customer) any { return c.ID }},
	{"code", "Code", func(c *partner.Customer) any { return c.Code }},
	{"name", "Name", func(c *partner.Customer) any { return c.Name }},
	{"phone", "Phone", func(c *partner.Customer) any { return c.Phone }},
	{"address", "Address", func(c *partner.Customer) any { return c.Address }},
	{"email", "Email", func(c *partner.Customer) any { return c.EmailOrEmpty() }},
	{"tier", "Tier", func(c *partner.Customer) any { return string(c.Tier) }},
	{"createdat", "Created Date", func(c *partner.Customer) any { return c.CreatedDate.Format(dateLayout) }},
}

var exportColumnAliases = map[string]string{
	"type":         "tier",
	"created_date": "createdat",
}

// CustomerImportService handles spreadsheet import and export of customers
type CustomerImportService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
	metrics      *telemetry.BusinessMetrics
}

// NewCustomerImportService creates a new CustomerImportService
func NewCustomerImportService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerImportService {
	return &CustomerImportService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// SetBusinessMetrics enables counting of imported rows.
func (s *CustomerImportService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Preview parses an uploaded workbook into candidate rows without writing
// anything. A missing or unreadable created date becomes today.
func (s *CustomerImportService) Preview(ctx context.Context, r io.Reader) ([]ImportCustomerRow, error) {
	parser, err := spreadsheet.NewSheetParser(r)
	if err != nil {
		if code := spreadsheet.ErrorCode(err); code != "" {
			return nil, shared.NewDomainError(code, err.Error())
		}
		return nil, err
	}

	rows := parser.ReadAllRows()
	candidates := make([]ImportCustomerRow, len(rows))
	for i, row := range rows {
		candidates[i] = ImportCustomerRow{
			Name:        row.Get(colName),
			Phone:       row.Get(colPhone),
			Address:     row.Get(colAddress),
			Email:       row.Get(colEmail),
			CreatedDate: importDate(row.Get(colCreatedDate)).Format(dateLayout),
		}
	}
	return candidates, nil
}

// Import validates every row and inserts the whole batch in one transaction.
// The first invalid row aborts the import with a "row N: ..." error.
func (s *CustomerImportService) Import(ctx context.Context, req ImportCustomersRequest) (_ *ImportResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "import",
		telemetry.WithAttribute(telemetry.SpanAttrRowCount, len(req.Customers)))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	defer func() {
		if s.metrics == nil || len(req.Customers) == 0 {
			return
		}
		if err != nil {
			s.metrics.RecordCustomerImport(ctx, 0, len(req.Customers))
			return
		}
		s.metrics.RecordCustomerImport(ctx, len(req.Customers), 0)
	}()

	if len(req.Customers) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "no customers to import")
	}

	customers := make([]*partner.Customer, 0, len(req.Customers))
	phones := make(map[string]bool, len(req.Customers))
	emails := make(map[string]bool, len(req.Customers))

	for i, row := range req.Customers {
		c, invalid, err := s.validateRow(ctx, row, phones, emails)
		if err != nil {
			return nil, err
		}
		if invalid != nil {
			return nil, (&partner.ImportRowError{Row: i + 1, Err: invalid}).AsDomainError()
		}
		customers = append(customers, c)
	}

	if err := s.customerRepo.CreateBatch(ctx, customers); err != nil {
		var rowErr *partner.ImportRowError
		if errors.As(err, &rowErr) {
			return nil, rowErr.AsDomainError()
		}
		return nil, err
	}

	s.logger.Info("Customers imported", zap.Int("count", len(customers)))
	return &ImportResult{
		Message: fmt.Sprintf("imported %d customers", len(customers)),
		Count:   len(customers),
	}, nil
}

// validateRow builds the customer of an import row. A row that cannot be
// imported is reported through invalid; err is reserved for lookup failures.
func (s *CustomerImportService) validateRow(ctx context.Context, row ImportCustomerRow, phones, emails map[string]bool) (c *partner.Customer, invalid, err error) {
	c, invalid = partner.NewCustomer(partner.CustomerDetails{
		Name:        row.Name,
		Phone:       row.Phone,
		Address:     row.Address,
		Email:       row.Email,
		CreatedDate: importDate(row.CreatedDate),
	})
	if invalid != nil {
		return nil, invalid, nil
	}

	if phones[c.Phone] {
		return nil, fmt.Errorf("phone %s is duplicated in the import", c.Phone), nil
	}
	taken, err := s.customerRepo.ExistsByPhone(ctx, c.Phone, 0)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, fmt.Errorf("phone %s already exists", c.Phone), nil
	}
	phones[c.Phone] = true

	if c.Email != nil {
		email := *c.Email
		if emails[email] {
			return nil, fmt.Errorf("email %s is duplicated in the import", email), nil
		}
		taken, err := s.customerRepo.ExistsByEmail(ctx, email, 0)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			return nil, fmt.Errorf("email %s already exists", email), nil
		}
		emails[email] = true
	}
	return c, nil, nil
}

// WriteTemplate writes an empty import workbook with the header row only
func (s *CustomerImportService) WriteTemplate(w io.Writer) error {
	return spreadsheet.WriteTable(w, spreadsheet.Table{
		Sheet:   "Customers",
		Headers: importHeaders,
	})
}

// Export writes the customers matching search as a workbook with the
// selected columns. Unknown columns are skipped; no known column selects all.
func (s *CustomerImportService) Export(ctx context.Context, w io.Writer, columns []string, search string) error {
	selected := selectExportColumns(columns)

	filter := shared.DefaultFilter()
	filter.Search = strings.TrimSpace(search)
	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return err
	}

	headers := make([]string, len(selected))
	for i, col := range selected {
		headers[i] = col.header
	}
	rows := make([][]any, len(customers))
	for i := range customers {
		row := make([]any, len(selected))
		for j, col := range selected {
			row[j] = col.value(&customers[i])
		}
		rows[i] = row
	}

	if err := spreadsheet.WriteTable(w, spreadsheet.Table{Sheet: "Customers", Headers: headers, Rows: rows}); err != nil {
		return err
	}

	s.logger.Info("Customers exported",
		zap.Int("count", len(customers)),
		zap.Int("columns", len(selected)))
	return nil
}

// importDate reads a created date in ISO or day-first form, or as an Excel
// serial number. Anything else becomes today.
func importDate(value string) time.Time {
	if date, ok := shared.ParseDate(value); ok {
		return date
	}
	if t, ok := spreadsheet.CellTime(value); ok {
		return shared.DateOf(t)
	}
	return shared.Today()
}

// selectExportColumns resolves requested column names, accepting repeated
// and comma-separated values, in export order
func selectExportColumns(requested []string) []exportColumn {
	wanted := make(map[string]bool)
	for _, value := range requested {
		for _, name := range strings.Split(value, ",") {
			key := strings.ToLower(strings.TrimSpace(name))
			if alias, ok := exportColumnAliases[key]; ok {
				key = alias
			}
			wanted[key] = true
		}
	}

	var selected []exportColumn
	for _, col := range exportColumns {
		if wanted[col.key] {
			selected = append(selected, col)
		}
	}
	if len(selected) == 0 {
		return exportColumns
	}
	return selected
}
