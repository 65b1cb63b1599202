package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // MARK, BLOCK, LINES, SOURCE
	markColumnWidth  = 1
	minIndexWidth    = 5
	minLinesWidth    = 7
	minPreviewWidth  = 20
	heavySeparator   = "="
	defaultTermWidth = 100
)

// RowStatus marks how a block rendered.
type RowStatus int

// Row statuses.
const (
	RowOK RowStatus = iota
	RowWarning
	RowError
)

// Row marks for patch tables.
const (
	MarkNone   = " "
	MarkAdd    = "+"
	MarkRemove = "-"
)

// TableRow is one block in a block table.
type TableRow struct {
	Mark    string
	Index   int
	Lines   string
	Source  string
	Status  RowStatus
	Message string
}

// TableFormatter formats blocks as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

type columnWidths struct {
	index   int
	lines   int
	preview int
}

// FormatTable formats rows as a table with a header, separators and legend.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var sb strings.Builder
	sb.WriteString(t.formatHeader(widths))
	sb.WriteString("\n")
	sb.WriteString(t.formatSeparator(widths))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(t.formatRow(row, widths))
		sb.WriteString("\n")
	}
	sb.WriteString(t.formatSeparator(widths))
	sb.WriteString("\n")
	sb.WriteString(t.formatLegend())
	sb.WriteString("\n")
	return sb.String()
}

func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{index: minIndexWidth, lines: minLinesWidth}
	for _, row := range rows {
		widths.index = max(widths.index, len(fmt.Sprint(row.Index)))
		widths.lines = max(widths.lines, len(row.Lines))
	}

	fixed := markColumnWidth + widths.index + widths.lines + tablePadding*tableColumnCount
	widths.preview = max(minPreviewWidth, t.termWidth-fixed)
	return widths
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %*s  %-*s  %s",
		markColumnWidth, "",
		widths.index, "BLOCK",
		widths.lines, "LINES",
		"SOURCE",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	total := markColumnWidth + widths.index + widths.lines + widths.preview + tablePadding*tableColumnCount
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, min(total, t.termWidth)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	mark := row.Mark
	if mark == "" {
		mark = MarkNone
	}

	source := Preview(row.Source, widths.preview)
	if row.Message != "" {
		source = truncateString(row.Message, widths.preview)
	}

	content := fmt.Sprintf(" %-*s  %*d  %-*s  %s",
		markColumnWidth, mark,
		widths.index, row.Index,
		widths.lines, row.Lines,
		source,
	)
	return t.rowStyle(row).Render(content)
}

func (t *TableFormatter) rowStyle(row TableRow) lipgloss.Style {
	switch {
	case row.Status == RowError:
		return t.styles.TableErrorRow
	case row.Status == RowWarning:
		return t.styles.TableWarnRow
	case row.Mark == MarkAdd:
		return t.styles.TableAddRow
	case row.Mark == MarkRemove:
		return t.styles.TableRemoveRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(
			fmt.Sprintf(" Legend: %s = inserted | %s = removed | lines are 1-based", MarkAdd, MarkRemove),
		)
	}

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s  %s  %s  %s",
			t.styles.TableAddRow.Render(MarkAdd+" inserted"),
			t.styles.TableRemoveRow.Render(MarkRemove+" removed"),
			t.styles.TableWarnRow.Render("warning"),
			t.styles.TableErrorRow.Render("error"),
		),
	)
}
