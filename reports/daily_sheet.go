// Package reports renders printable documents for floor staff.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/restaurant-reservations/models"
)

var sheetColumns = []struct {
	title string
	width float64
}{
	{"Slot", 20},
	{"Table", 18},
	{"Seats", 18},
	{"Guests", 18},
	{"Customer", 62},
	{"Phone", 44},
}

// DailySheet renders the seating plan for one date as a PDF: one row per
// reservation, grouped by time slot, followed by slot totals.
func DailySheet(title string, date time.Time, reservations []models.Reservation, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s %s", title, date.Format(models.DateLayout)), true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Seating sheet for "+date.Format("Monday, 02 January 2006"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+generatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range sheetColumns {
			pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}
	header()

	if len(reservations) == 0 {
		pdf.CellFormat(0, 8, "No reservations.", "1", 1, "C", false, 0, "")
	}

	guestsPerSlot := make(map[models.TimeSlot]int)
	tablesPerSlot := make(map[models.TimeSlot]int)
	for _, r := range reservations {
		guestsPerSlot[r.TimeSlot] += r.NumberOfGuests
		tablesPerSlot[r.TimeSlot]++

		seats, name, phone := "-", "-", "-"
		if r.Table != nil {
			seats = fmt.Sprintf("%d", r.Table.Capacity)
		}
		if r.Customer != nil {
			name, phone = r.Customer.Name, r.Customer.Phone
		}
		cells := []string{
			string(r.TimeSlot),
			fmt.Sprintf("%d", r.TableID),
			seats,
			fmt.Sprintf("%d", r.NumberOfGuests),
			tr(name),
			tr(phone),
		}
		for i, col := range sheetColumns {
			align := "C"
			if i >= 4 {
				align = "L"
			}
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Totals per slot", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, slot := range models.TimeSlots {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s  %d table(s), %d guest(s)", slot, tablesPerSlot[slot], guestsPerSlot[slot]), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render daily sheet: %w", err)
	}
	return buf.Bytes(), nil
}
