package html

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/darianmavgo/megasena/converters"
	"github.com/darianmavgo/megasena/converters/common"

	"golang.org/x/net/html"
)

func init() {
	converters.Register("html", &htmlDriver{})
}

type htmlDriver struct{}

func (d *htmlDriver) Open(source io.Reader, config *common.ConversionConfig) (common.RowProvider, error) {
	return NewHTMLConverterWithConfig(source, config)
}

// HTMLConverter reads draw rows from the first table of an HTML page, the
// format of the results file Caixa publishes (D_MEGA.HTM).
type HTMLConverter struct {
	rows   [][]string
	width  int
	config common.ConversionConfig
}

// Ensure HTMLConverter implements RowProvider
var _ common.RowProvider = (*HTMLConverter)(nil)

// NewHTMLConverter creates a new HTMLConverter from an io.Reader
func NewHTMLConverter(r io.Reader) (*HTMLConverter, error) {
	return NewHTMLConverterWithConfig(r, nil)
}

// NewHTMLConverterWithConfig creates a new HTMLConverter from an io.Reader with optional config.
func NewHTMLConverterWithConfig(r io.Reader, config *common.ConversionConfig) (*HTMLConverter, error) {
	config = config.OrDefault()

	tables, err := parseHTML(bufio.NewReaderSize(r, 65536))
	if err != nil {
		return nil, err
	}

	for _, rows := range tables {
		if len(rows) == 0 {
			continue
		}
		return &HTMLConverter{
			rows:   rows,
			width:  len(rows[0]),
			config: *config,
		}, nil
	}
	return nil, fmt.Errorf("no tables found in HTML")
}

// ScanRows implements RowProvider.
// Rows narrower than the first row are rowspan continuations (the extra
// city/state lines listed under a draw with several winners) and are skipped.
func (c *HTMLConverter) ScanRows(ctx context.Context, yield func(int, []any) error) error {
	var cells []any
	for i, row := range c.rows {
		rowNum := i + 1
		if rowNum <= c.config.HeaderRows {
			continue
		}
		if len(row) < c.width {
			continue
		}

		cells = cells[:0]
		for _, val := range row {
			cells = append(cells, val)
		}
		if err := yield(rowNum, cells); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

func parseHTML(reader io.Reader) ([][][]string, error) {
	doc, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tables [][][]string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, extractRows(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return tables, nil
}

func extractRows(n *html.Node) [][]string {
	var rows [][]string
	var visitRows func(*html.Node)
	visitRows = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			var row []string
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, extractText(c))
				}
			}
			rows = append(rows, row)
			return // Don't look for TRs inside TRs
		}

		for c := node.FirstChild; c != nil; c = c.NextSibling {
			// Don't traverse into nested tables here
			if c.Type == html.ElementNode && c.Data == "table" {
				continue
			}
			visitRows(c)
		}
	}
	visitRows(n)
	return rows
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	extractTextRecursive(n, &sb)
	return strings.TrimSpace(sb.String())
}

func extractTextRecursive(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractTextRecursive(c, sb)
	}
}
