package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"salon-backend/internal/models"
	"salon-backend/internal/timeutil"
)

// ReceiptService renders POS tickets as printable PDF receipts
type ReceiptService struct {
	transactions TransactionStore
	branches     BranchStore
}

func NewReceiptService(transactions TransactionStore, branches BranchStore) *ReceiptService {
	return &ReceiptService{transactions: transactions, branches: branches}
}

// Generate renders the receipt PDF for a ticket
func (s *ReceiptService) Generate(ctx context.Context, transactionID int) ([]byte, error) {
	ticket, err := s.transactions.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTransactionNotFound
	}

	branch, err := s.branches.Get(ctx, ticket.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load branch: %w", err)
	}
	branchName := fmt.Sprintf("Branch %d", ticket.BranchID)
	branchAddress := ""
	if branch != nil {
		branchName = branch.Name
		branchAddress = branch.Address
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, branchName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if branchAddress != "" {
		pdf.CellFormat(190, 6, branchAddress, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(190, 6, fmt.Sprintf("Receipt #%d - %s", ticket.ID,
		ticket.CreatedAt.In(timeutil.Default).Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range ticket.Items {
		pdf.CellFormat(90, 6, item.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.LineTotal), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", ticket.TotalAmount), "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if ticket.PaymentMethod != "" {
		pdf.CellFormat(190, 6, fmt.Sprintf("Paid by: %s", ticket.PaymentMethod), "", 1, "L", false, 0, "")
	}
	if ticket.Status == models.TransactionStatusVoided {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(190, 8, "VOIDED", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(190, 6, "Thank you for your visit!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
