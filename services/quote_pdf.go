package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// QuoteDocument is everything a rendered quote needs: project metadata, the
// session selections and the generated content, which is printed verbatim.
type QuoteDocument struct {
	CompanyName string
	ProjectID   string
	ProjectName string
	Date        string
	Labor       []LaborType
	CustomItems []CustomItem
	CustomTotal float64
	Content     string
}

// NewQuoteDocument builds a document from a quote session.
func NewQuoteDocument(company, projectName, date string, sess QuoteSession) QuoteDocument {
	return QuoteDocument{
		CompanyName: company,
		ProjectID:   sess.ProjectID,
		ProjectName: projectName,
		Date:        date,
		Labor:       sess.Labor,
		CustomItems: sess.CustomItems,
		CustomTotal: sess.CustomTotal(),
		Content:     sess.Content,
	}
}

// FormatAdjustment renders a labor hours adjustment, or a dash when blank.
func FormatAdjustment(n OptionalNumber) string {
	if !n.Valid {
		return "—"
	}
	return fmt.Sprintf("%+.0f%%", n.Value)
}

// PDFRenderer turns a quote document into PDF bytes.
type PDFRenderer interface {
	RenderQuotePDF(ctx context.Context, doc QuoteDocument) ([]byte, error)
}

// MarotoRenderer draws quotes with maroto.
type MarotoRenderer struct{}

func (MarotoRenderer) RenderQuotePDF(_ context.Context, doc QuoteDocument) ([]byte, error) {
	return GenerateQuotePDF(doc)
}

// GenerateQuotePDF creates a portrait quote PDF using maroto/v2.
func GenerateQuotePDF(doc QuoteDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, doc)
	addQuoteLabor(m, doc.Labor)
	addQuoteCustomItems(m, doc)
	addQuoteContent(m, doc.Content)

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}
	return pdf.GetBytes(), nil
}

func addQuoteHeader(m core.Maroto, doc QuoteDocument) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(text.New(doc.CompanyName, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(6).Add(text.New("QUOTE", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: &props.Color{Red: 33, Green: 37, Blue: 41},
			})),
		),
	)

	grey := &props.Color{Red: 100, Green: 100, Blue: 100}
	project := doc.ProjectName
	if project == "" {
		project = doc.ProjectID
	}
	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(text.New("Project: "+project, props.Text{Size: 9, Align: align.Left, Color: grey})),
			col.New(4).Add(text.New("Date: "+doc.Date, props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
	)
	m.AddRows(row.New(4))
}

func sectionTitle(m core.Maroto, title string) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New(title, props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
	)
}

func tableHeader(m core.Maroto, labels []string, sizes []int) {
	cell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	style := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, style)).WithStyle(cell)
	}
	m.AddRows(row.New(7).Add(cols...))
}

func addQuoteLabor(m core.Maroto, labor []LaborType) {
	if len(labor) == 0 {
		return
	}
	sectionTitle(m, "Labor")
	sizes := []int{6, 3, 3}
	tableHeader(m, []string{"Role", "Hourly Rate", "Hours Adjustment"}, sizes)

	left := props.Text{Size: 8, Align: align.Left}
	right := props.Text{Size: 8, Align: align.Right}
	for _, l := range labor {
		m.AddRows(
			row.New(6).Add(
				col.New(sizes[0]).Add(text.New(l.Name, left)),
				col.New(sizes[1]).Add(text.New(FormatMoney(l.HourlyRate), right)),
				col.New(sizes[2]).Add(text.New(FormatAdjustment(l.HoursAdjustment), right)),
			),
		)
	}
	m.AddRows(row.New(4))
}

func addQuoteCustomItems(m core.Maroto, doc QuoteDocument) {
	if len(doc.CustomItems) == 0 {
		return
	}
	sectionTitle(m, "Additional Items")
	sizes := []int{5, 2, 1, 2, 2}
	tableHeader(m, []string{"Description", "Category", "Qty", "Unit Price", "Total"}, sizes)

	left := props.Text{Size: 8, Align: align.Left}
	right := props.Text{Size: 8, Align: align.Right}
	for _, c := range doc.CustomItems {
		m.AddRows(
			row.New(6).Add(
				col.New(sizes[0]).Add(text.New(c.Description, left)),
				col.New(sizes[1]).Add(text.New(c.Category, left)),
				col.New(sizes[2]).Add(text.New(FormatQty(c.Quantity), right)),
				col.New(sizes[3]).Add(text.New(FormatMoney(c.UnitPrice), right)),
				col.New(sizes[4]).Add(text.New(FormatMoney(c.TotalPrice), right)),
			),
		)
	}

	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	m.AddRows(
		row.New(7).Add(
			col.New(10).Add(text.New("Additional Items Total", bold)).WithStyle(summaryCell),
			col.New(2).Add(text.New(FormatMoney(doc.CustomTotal), bold)).WithStyle(summaryCell),
		),
	)
	m.AddRows(row.New(4))
}

// addQuoteContent prints the generated quote text line by line.
func addQuoteContent(m core.Maroto, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	sectionTitle(m, "Quote Details")
	style := props.Text{Size: 8, Align: align.Left}
	for _, line := range wrapLines(content, 110) {
		m.AddRows(row.New(4.5).Add(col.New(12).Add(text.New(line, style))))
	}
}

// wrapLines splits s on newlines and word-wraps each line at width runes.
// Blank lines are kept as single spaces so they still take up a row.
func wrapLines(s string, width int) []string {
	var out []string
	for _, raw := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			out = append(out, " ")
			continue
		}
		var cur strings.Builder
		curLen := 0
		for _, w := range words {
			wl := len([]rune(w))
			if curLen > 0 && curLen+1+wl > width {
				out = append(out, cur.String())
				cur.Reset()
				curLen = 0
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(w)
			curLen += wl
		}
		out = append(out, cur.String())
	}
	return out
}
