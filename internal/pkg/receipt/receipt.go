// Package receipt renders the PDF documents sent to buyers and claimants.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/edukar/edukar-store/internal/domain/model"
)

const (
	pageWidth   = 190.0
	lineHeight  = 7.0
	dateLayout  = "02/01/2006 15:04"
	companyName = "Edukar"
)

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor(companyName, true)
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) heading(text string) {
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.CellFormat(pageWidth, 10, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.Ln(4)
}

func (d *document) field(label, value string) {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.CellFormat(50, lineHeight, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.MultiCell(pageWidth-50, lineHeight, d.tr(value), "", "L", false)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSell builds the payment receipt of a finished sell.
func RenderSell(sell *model.Sell) ([]byte, error) {
	doc := newDocument("Boleta de pago")
	doc.heading(companyName + " - Boleta de pago")

	receiptNumber := "-"
	if sell.ReceiptNumber != nil {
		receiptNumber = fmt.Sprintf("%08d", *sell.ReceiptNumber)
	}
	issued := sell.UpdatedAt
	if sell.PaidAt != nil {
		issued = *sell.PaidAt
	}

	doc.field("Boleta N.", receiptNumber)
	doc.field("Pedido", sell.OrderNumber)
	doc.field("Fecha", issued.In(limaLocation()).Format(dateLayout))
	doc.field("Cliente", sell.BuyerName())
	doc.field("Correo", sell.Email)
	doc.field("Telefono", sell.PhoneNumber)
	doc.pdf.Ln(6)

	pdf := doc.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(140, lineHeight, doc.tr("Producto"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, lineHeight, doc.tr("Precio (S/)"), "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range sell.Items {
		pdf.CellFormat(140, lineHeight, doc.tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, lineHeight, item.Price.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(140, lineHeight, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, lineHeight, sell.TotalCost.StringFixed(2), "1", 1, "R", false, 0, "")

	return doc.bytes()
}

// RenderClaim builds the complaint sheet of a claim.
func RenderClaim(claim *model.Claim) ([]byte, error) {
	doc := newDocument("Hoja de reclamacion")
	doc.heading("Libro de reclamaciones - " + companyName)

	doc.field("Reclamo N.", fmt.Sprintf("%06d", claim.ID))
	doc.field("Fecha", claim.Date.In(limaLocation()).Format(dateLayout))
	doc.pdf.Ln(2)

	doc.field("Nombre", claim.Name)
	doc.field("Direccion", claim.Address)
	doc.field("DNI", claim.DNI)
	doc.field("Correo", claim.Email)
	doc.field("Telefono", claim.Phone)
	if claim.IsMinor {
		doc.field("Apoderado", claim.ProxyName)
	}
	doc.pdf.Ln(2)

	doc.field("Tipo de bien", claim.TypeGood.String())
	doc.field("Monto reclamado", "S/ "+claim.ClaimAmount.StringFixed(2))
	doc.field("Descripcion", claim.Description)
	doc.field("Detalle", claim.ClaimDetail)
	doc.field("Pedido", claim.Request)

	return doc.bytes()
}

func limaLocation() *time.Location {
	loc, err := time.LoadLocation("America/Lima")
	if err != nil {
		return time.FixedZone("PET", -5*60*60)
	}
	return loc
}
