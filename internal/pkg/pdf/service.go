// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/purchase"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GeneratePurchaseOrder renders a purchase order document
func (s *Service) GeneratePurchaseOrder(order *purchase.PurchaseOrder) (*bytes.Buffer, error) {
	data := s.buildOrderData(order)

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) buildOrderData(order *purchase.PurchaseOrder) OrderData {
	data := OrderData{
		OrderNumber: order.OrderNumber,
		OrderDate:   order.OrderDate.Format("January 2, 2006"),
		GeneratedAt: time.Now().Format("January 2, 2006"),
		Status:      string(order.Status),
		Notes:       order.Notes,
		Subtotal:    order.Subtotal.StringFixed(2),
		TaxAmount:   order.TaxAmount.StringFixed(2),
		TotalAmount: order.TotalAmount.StringFixed(2),
		ShowTotals:  order.Status == purchase.StatusPartial || order.Status == purchase.StatusReceived,
		Company: CompanyInfo{
			Name:    s.config.Company.Name,
			Address: s.config.Company.Address,
			Phone:   s.config.Company.Phone,
			Email:   s.config.Company.Email,
		},
	}
	if order.ExpectedDate != nil {
		data.ExpectedDate = order.ExpectedDate.Format("January 2, 2006")
	}
	if order.Vendor != nil {
		data.Vendor = VendorInfo{
			Name:          order.Vendor.Name,
			ContactPerson: order.Vendor.ContactPerson,
			Phone:         order.Vendor.Phone,
			Email:         order.Vendor.Email,
			Address:       order.Vendor.Address,
			PaymentTerms:  fmt.Sprintf("%d days", order.Vendor.PaymentTerms),
		}
	}
	for _, line := range order.Items {
		row := OrderLine{
			Name:     line.ItemName,
			Unit:     line.ItemUnit,
			Quantity: line.Quantity.String(),
		}
		if data.ShowTotals {
			row.Received = line.ReceivedQuantity.String()
			row.UnitCost = line.UnitCost.StringFixed(2)
			row.TotalCost = line.TotalCost.StringFixed(2)
		}
		data.Lines = append(data.Lines, row)
	}
	return data
}

func (s *Service) generateHTML(data OrderData) (string, error) {
	tmpl := template.Must(template.New("purchase_order").Parse(orderTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// OrderData represents the data passed to the purchase order template
type OrderData struct {
	OrderNumber  string
	OrderDate    string
	ExpectedDate string
	GeneratedAt  string
	Status       string
	Notes        string
	Vendor       VendorInfo
	Company      CompanyInfo
	Lines        []OrderLine
	Subtotal     string
	TaxAmount    string
	TotalAmount  string
	ShowTotals   bool
}

// VendorInfo represents vendor details on the document
type VendorInfo struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	PaymentTerms  string
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// OrderLine is one rendered table row
type OrderLine struct {
	Name      string
	Unit      string
	Quantity  string
	Received  string
	UnitCost  string
	TotalCost string
}

// Purchase order HTML template
const orderTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Purchase Order {{.OrderNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .company-info {
            flex: 1;
        }
        .order-info {
            text-align: right;
            flex: 1;
        }
        .order-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .vendor-block {
            margin-bottom: 30px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .num-col {
            text-align: right;
            width: 90px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 100px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            text-transform: uppercase;
            background-color: #fef3c7;
            color: #92400e;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
        .notes {
            margin-top: 20px;
            color: #555;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
            {{if .Company.Phone}}<p>Phone: {{.Company.Phone}}</p>{{end}}
            {{if .Company.Email}}<p>Email: {{.Company.Email}}</p>{{end}}
        </div>
        <div class="order-info">
            <div class="order-title">PURCHASE ORDER</div>
            <p><strong>Order #:</strong> {{.OrderNumber}}</p>
            <p><strong>Order Date:</strong> {{.OrderDate}}</p>
            {{if .ExpectedDate}}<p><strong>Expected:</strong> {{.ExpectedDate}}</p>{{end}}
            <p><span class="status-badge">{{.Status}}</span></p>
        </div>
    </div>

    <div class="vendor-block">
        <div class="section-title">Vendor:</div>
        <p><strong>{{.Vendor.Name}}</strong></p>
        {{if .Vendor.ContactPerson}}<p>Attn: {{.Vendor.ContactPerson}}</p>{{end}}
        {{if .Vendor.Address}}<p>{{.Vendor.Address}}</p>{{end}}
        {{if .Vendor.Phone}}<p>Phone: {{.Vendor.Phone}}</p>{{end}}
        {{if .Vendor.Email}}<p>Email: {{.Vendor.Email}}</p>{{end}}
        <p>Payment Terms: {{.Vendor.PaymentTerms}}</p>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th>Unit</th>
                <th class="num-col">Ordered</th>
                {{if .ShowTotals}}
                <th class="num-col">Received</th>
                <th class="num-col">Unit Cost</th>
                <th class="num-col">Total</th>
                {{end}}
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td>{{.Unit}}</td>
                <td class="num-col">{{.Quantity}}</td>
                {{if $.ShowTotals}}
                <td class="num-col">{{.Received}}</td>
                <td class="num-col">{{.UnitCost}}</td>
                <td class="num-col">{{.TotalCost}}</td>
                {{end}}
            </tr>
            {{end}}
        </tbody>
    </table>

    {{if .ShowTotals}}
    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.Subtotal}}</td>
            </tr>
            <tr>
                <td class="label">Tax:</td>
                <td class="amount">{{.TaxAmount}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.TotalAmount}}</td>
            </tr>
        </table>
    </div>
    <div style="clear: both;"></div>
    {{end}}

    {{if .Notes}}
    <div class="notes">
        <div class="section-title">Notes</div>
        <p>{{.Notes}}</p>
    </div>
    {{end}}

    <div class="footer">
        <p>Generated on {{.GeneratedAt}}</p>
        {{if .Company.Email}}<p>Questions about this order? Contact {{.Company.Email}}</p>{{end}}
    </div>
</body>
</html>
`
