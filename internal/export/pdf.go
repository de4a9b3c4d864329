package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sadopc/togglreport/internal/report"
)

const (
	pageMargin   = 20.0
	rowHeight    = 7.0
	tableStartY  = 55.0
	logoWidth    = 30.0
	logoHeight   = 15.0
	footerOffset = 10.0
	fontFamily   = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	headerFill  = rgb{59, 130, 246}
	headerText  = rgb{255, 255, 255}
	bodyText    = rgb{50, 50, 50}
	altRowFill  = rgb{248, 250, 252}
	summaryFill = rgb{229, 231, 235}
	footerText  = rgb{128, 128, 128}
)

// Logo is an image placed in the top right corner of every PDF.
type Logo struct {
	Data []byte
	Type string // "PNG", "JPG" or "GIF"
}

// LoadLogo reads a PNG, JPEG or GIF file.
func LoadLogo(path string) (*Logo, error) {
	typ := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
	switch typ {
	case "JPEG":
		typ = "JPG"
	case "PNG", "JPG", "GIF":
	default:
		return nil, fmt.Errorf("unsupported logo type %q", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	return &Logo{Data: data, Type: typ}, nil
}

// PDFOptions controls PDF rendering.
type PDFOptions struct {
	Logo *Logo
	// Now is the creation date printed in the footer. Zero means time.Now.
	Now time.Time
}

// ToPDF renders doc into path.
func ToPDF(doc Document, path string, opts PDFOptions) error {
	var buf bytes.Buffer
	if err := WritePDF(&buf, doc, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write pdf file: %w", err)
	}
	return nil
}

// RenderPDF renders doc as an in-memory file named after the document.
func RenderPDF(doc Document, opts PDFOptions) (File, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, doc, opts); err != nil {
		return File{}, err
	}
	return File{Name: doc.Filename(), Data: buf.Bytes()}, nil
}

// WritePDF renders the activity report: logo, title, client and project
// lines, the table with a highlighted summary row and a dated footer.
func WritePDF(w io.Writer, doc Document, opts PDFOptions) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCreationDate(now)
	pdf.SetTitle(doc.Title(), true)
	pdf.SetCreator("togglreport", true)

	_, pageH := pdf.GetPageSize()
	pdf.SetFooterFunc(func() {
		pdf.SetY(pageH - footerOffset - 3)
		pdf.SetFont(fontFamily, "", 8)
		setText(pdf, footerText)
		pdf.CellFormat(0, 4, tr("Erstellt am "+now.Format("02.01.2006")), "", 0, "L", false, 0, "")
	})

	pdf.AddPage()
	if opts.Logo != nil {
		drawLogo(pdf, opts.Logo)
	}

	pdf.SetY(pageMargin)
	pdf.SetFont(fontFamily, "B", 16)
	setText(pdf, bodyText)
	pdf.CellFormat(0, 8, tr(doc.Title()), "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 12)
	pdf.Ln(2)
	pdf.CellFormat(0, 7, tr("Kunde: "+doc.Client), "", 1, "L", false, 0, "")
	if doc.Project != report.AllProjects {
		pdf.CellFormat(0, 7, tr("Projekt: "+doc.Project), "", 1, "L", false, 0, "")
	}

	pdf.SetY(tableStartY)
	drawTable(pdf, tr, doc.Result)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func drawLogo(pdf *fpdf.Fpdf, logo *Logo) {
	opts := fpdf.ImageOptions{ImageType: logo.Type, ReadDpi: true}
	info := pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Data))
	if info == nil || !pdf.Ok() {
		// Unreadable logo: render without it.
		pdf.ClearError()
		return
	}
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions("logo", pageW-logoWidth-5, 15, logoWidth, logoHeight, false, opts, 0, "")
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, res *report.Result) {
	widths := columnWidths(pdf, res.Columns)
	headers := res.Headers()

	header := func() {
		pdf.SetFont(fontFamily, "B", 9)
		setFill(pdf, headerFill)
		setText(pdf, headerText)
		for i, h := range headers {
			pdf.CellFormat(widths[i], rowHeight, fit(pdf, tr(h), widths[i]), "", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	_, pageH := pdf.GetPageSize()
	ensureRoom := func() {
		if pdf.GetY()+rowHeight > pageH-pageMargin {
			pdf.AddPage()
			header()
		}
	}

	header()
	pdf.SetFont(fontFamily, "", 9)
	setText(pdf, bodyText)
	for n, row := range res.Rows() {
		ensureRoom()
		pdf.SetFont(fontFamily, "", 9)
		setText(pdf, bodyText)
		fill := n%2 == 1
		if fill {
			setFill(pdf, altRowFill)
		}
		for i, v := range row {
			pdf.CellFormat(widths[i], rowHeight, fit(pdf, tr(v), widths[i]), "", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	ensureRoom()
	pdf.SetFont(fontFamily, "B", 9)
	setFill(pdf, summaryFill)
	setText(pdf, bodyText)
	for i, v := range res.SummaryRow() {
		pdf.CellFormat(widths[i], rowHeight, fit(pdf, tr(v), widths[i]), "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// columnWidths splits the printable width. Free-text columns get more room
// than time and status columns.
func columnWidths(pdf *fpdf.Fpdf, cols []report.ColumnView) []float64 {
	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMargin

	weights := make([]float64, len(cols))
	var total float64
	for i, c := range cols {
		switch c.Field {
		case report.FieldDescription:
			weights[i] = 3
		case report.FieldClient, report.FieldProject, report.FieldTask, report.FieldUser, report.FieldTags:
			weights[i] = 2
		default:
			weights[i] = 1.2
		}
		total += weights[i]
	}

	widths := make([]float64, len(cols))
	for i := range cols {
		widths[i] = usable * weights[i] / total
	}
	return widths
}

// fit shortens s with an ellipsis until it fits into a cell of width w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const padding = 2
	if pdf.GetStringWidth(s) <= w-padding {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > w-padding {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}

func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }

func setText(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
