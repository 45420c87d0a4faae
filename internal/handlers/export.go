package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"finance-tracker/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet = "Transactions"
	xlsxType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{"Date", "Type", "Category", "Description", "Amount", "Recorded at"}

// ExportTransactions downloads the caller's transactions as CSV (default)
// or, with ?format=xlsx, as a spreadsheet.
func (h *Handlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "format must be csv or xlsx"})
		return
	}

	transactions, err := h.finance.ListTransactions(r.Context(), IdentityFromContext(r))
	if err != nil {
		writeError(w, "ListTransactions", err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.%s", time.Now().Format("20060102"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == "xlsx" {
		w.Header().Set("Content-Type", xlsxType)
		err = writeXLSX(w, transactions)
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = writeCSV(w, transactions)
	}
	if err != nil {
		log.Printf("Export %s error: %v", format, err)
	}
}

func exportRow(t models.Transaction) []string {
	return []string{
		t.Date.String(),
		string(t.Type),
		t.Category,
		t.Description,
		t.Amount.StringFixed(2),
		t.Timestamp.UTC().Format(time.RFC3339),
	}
}

func writeCSV(w io.Writer, transactions []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, t := range transactions {
		if err := cw.Write(exportRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, transactions []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, t := range transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			t.Date.String(),
			string(t.Type),
			t.Category,
			t.Description,
			t.Amount.InexactFloat64(),
			t.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "B", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "C", "D", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "F", "F", 22); err != nil {
		return err
	}

	return f.Write(w)
}
