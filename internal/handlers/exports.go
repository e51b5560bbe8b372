package handlers

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/budget"
	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/itinerary"
	"example.com/ai-travel-planner/internal/models"
)

const (
	exportTypeTimeline = "timeline"
	exportTypeExpenses = "expenses"
	exportTypeBudget   = "budget"
)

const csvContentType = "text/csv; charset=utf-8"

// ExportJSON выгружает маршрут со всеми производными данными в JSON-файл.
func (h *ItineraryHandler) ExportJSON(c echo.Context) error {
	view, ok, err := h.loadView(c)
	if !ok {
		return err
	}

	setAttachment(c, exportFilename(view, "", "json"))
	return c.JSON(http.StatusOK, struct {
		ItineraryDetailResponse
		Expenses []models.Expense `json:"expenses"`
	}{view.detail(), view.expenses})
}

// ExportCSV выгружает расписание, расходы или разбивку бюджета в CSV (?type=).
func (h *ItineraryHandler) ExportCSV(c echo.Context) error {
	view, ok, err := h.loadView(c)
	if !ok {
		return err
	}

	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = exportTypeTimeline
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch exportType {
	case exportTypeTimeline:
		err = writeTimelineCSV(writer, view)
	case exportTypeExpenses:
		err = writeExpensesCSV(writer, view)
	case exportTypeBudget:
		err = writeBudgetCSV(writer, view)
	default:
		return badRequest(c, "invalid export type")
	}
	if err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	setAttachment(c, exportFilename(view, exportType, "csv"))
	return c.Blob(http.StatusOK, csvContentType, buf.Bytes())
}

// ExportPDF выгружает маршрут в PDF-документ.
func (h *ItineraryHandler) ExportPDF(c echo.Context) error {
	view, ok, err := h.loadView(c)
	if !ok {
		return err
	}

	var buf bytes.Buffer
	if err := writeItineraryPDF(&buf, view); err != nil {
		return serverError(c)
	}

	setAttachment(c, exportFilename(view, "", "pdf"))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

func setAttachment(c echo.Context, filename string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
}

func exportFilename(view itineraryView, suffix, ext string) string {
	name := "itinerary-" + view.record.ID.String()
	if suffix != "" {
		name += "-" + suffix
	}
	return name + "." + ext
}

func writeTimelineCSV(writer *csv.Writer, view itineraryView) error {
	if err := writer.Write([]string{"day", "date", "label", "time", "period", "description", "cost"}); err != nil {
		return err
	}

	// без распознанных дней выгружаем исходный текст одной строкой
	if len(view.days) == 0 {
		if strings.TrimSpace(view.record.Content) == "" {
			return nil
		}
		return writer.Write([]string{"", "", "content", "", "", view.record.Content, ""})
	}

	for _, row := range itinerary.Timeline(view.days) {
		cost := ""
		if row.Cost != nil {
			cost = currency.Format(*row.Cost, view.currency)
		}
		record := []string{
			strconv.Itoa(row.Day),
			row.Date.Format(dateLayout),
			itinerary.DayPlan{Date: row.Date}.Label(),
			row.Time,
			string(row.Period),
			row.Description,
			cost,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeExpensesCSV(writer *csv.Writer, view itineraryView) error {
	if err := writer.Write([]string{"id", "date", "category", "description", "amount", "amount_formatted"}); err != nil {
		return err
	}

	for _, expense := range view.expenses {
		record := []string{
			expense.ID.String(),
			expense.SpentOn.Format(dateLayout),
			string(expense.Category),
			expense.Description,
			strconv.FormatFloat(expense.Amount, 'f', 2, 64),
			currency.Format(expense.Amount, view.currency),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeBudgetCSV(writer *csv.Writer, view itineraryView) error {
	if err := writer.Write([]string{"source", "category", "amount", "percent"}); err != nil {
		return err
	}

	for _, share := range view.shares {
		record := []string{
			"planned",
			string(share.Category),
			currency.Format(share.Amount, view.currency),
			strconv.FormatFloat(share.Percent, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	for _, category := range sortedCategories(view.summary.ByCategory) {
		amount := view.summary.ByCategory[category]
		percent := 0.0
		if view.summary.Total > 0 {
			percent = amount / view.summary.Total * 100
		}
		record := []string{
			"spent",
			string(category),
			currency.Format(amount, view.currency),
			strconv.FormatFloat(percent, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// sortedCategories возвращает категории с расходами в порядке budget.Categories.
func sortedCategories(totals map[budget.Category]float64) []budget.Category {
	out := make([]budget.Category, 0, len(totals))
	for _, category := range budget.Categories {
		if _, ok := totals[category]; ok {
			out = append(out, category)
		}
	}
	return out
}

// writeItineraryPDF рисует A4-документ: шапка, сводка бюджета, дни, сезонные советы.
func writeItineraryPDF(w io.Writer, view itineraryView) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(view.record.Destination, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(value string) string {
		return tr(strings.ReplaceAll(value, "₹", "Rs."))
	}
	money := func(amount float64) string {
		return text(currency.Format(amount, view.currency))
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, text(view.record.Destination), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, text(view.record.StartDate.Format(dateLayout)+" - "+view.record.EndDate.Format(dateLayout)+
		", group of "+strconv.Itoa(view.record.GroupSize)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Budget", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 6, "Total: "+money(view.summary.Total), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, "Spent: "+money(view.summary.Spent), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Remaining: "+money(view.summary.Remaining), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+string(view.summary.Status)+" ("+strconv.FormatFloat(view.summary.PercentUsed, 'f', 1, 64)+"% used)", "", 1, "L", false, 0, "")

	if len(view.shares) > 0 {
		pdf.Ln(2)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(70, 7, "Category", "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 7, "Planned", "1", 0, "R", true, 0, "")
		pdf.CellFormat(30, 7, "Share", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, share := range view.shares {
			pdf.CellFormat(70, 6, string(share.Category), "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, money(share.Amount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, strconv.FormatFloat(share.Percent, 'f', 1, 64)+"%", "1", 1, "R", false, 0, "")
		}
	}

	if len(view.days) == 0 && strings.TrimSpace(view.record.Content) != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Itinerary", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, text(view.record.Content), "", "L", false)
	}

	for _, day := range view.days {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, text("Day "+strconv.Itoa(day.Day)+" - "+day.Label()), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		if len(day.Activities) == 0 {
			pdf.CellFormat(0, 6, "No activities planned", "", 1, "L", false, 0, "")
			continue
		}
		for _, activity := range day.Activities {
			line := activity.Time + "  " + activity.Description
			if activity.Cost != nil {
				line += " (" + currency.Format(*activity.Cost, view.currency) + ")"
			}
			pdf.MultiCell(0, 5, text(line), "", "L", false)
		}
	}

	if tips := append(append([]string{}, view.season.Tips...), view.season.Alerts...); len(tips) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, text("Travel tips ("+string(view.season.Season)+")"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, tip := range tips {
			pdf.MultiCell(0, 5, text("- "+tip), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
