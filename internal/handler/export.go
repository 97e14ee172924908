package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/report"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Category", "Amount", "Date", "Description"}

type ExportHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
}

func NewExportHandler(db *gorm.DB, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		DB:  db,
		Log: log.WithComponent("export"),
	}
}

func (h *ExportHandler) load(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := h.DB.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&expenses).Error
	return expenses, err
}

// ExportCSV writes one row per transaction of the current user.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	expenses, err := h.load(currentUserID(c))
	if err != nil {
		serverError(c, h.Log, "export csv", err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.csv\"",
		time.Now().Format("20060102")))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(CSVHeader)
	for i := range expenses {
		e := &expenses[i]
		_ = writer.Write([]string{
			report.CategoryLabel(e),
			e.Amount.StringFixed(2),
			e.Date.Format(util.DateLayout),
			e.Description,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.Log.Warn("csv write failed", "err", err)
	}
}

// ExportXLSX is the spreadsheet flavour of the export, with title and type added.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	expenses, err := h.load(currentUserID(c))
	if err != nil {
		serverError(c, h.Log, "export xlsx", err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Transactions"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		serverError(c, h.Log, "create sheet", err)
		return
	}

	headers := []string{"Title", "Type", "Category", "Amount", "Date", "Description"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, title)
	}

	for idx := range expenses {
		e := &expenses[idx]
		row := idx + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Title)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Type)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), report.CategoryLabel(e))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Amount.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Date.Format(util.DateLayout))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), e.Description)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 30)
	_ = f.SetColWidth(sheetName, "B", "B", 10)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "E", 12)
	_ = f.SetColWidth(sheetName, "F", "F", 40)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.Log.Warn("xlsx write failed", "err", err)
	}
}
