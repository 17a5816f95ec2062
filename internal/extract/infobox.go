// Package extract reads structured fields out of Wikipedia article pages.
package extract

import (
	"github.com/ppiankov/wikibox/internal/htmldoc"
	"github.com/ppiankov/wikibox/internal/model"
)

// InfoboxClass is the CSS class Wikipedia puts on infobox tables
const InfoboxClass = "infobox"

// InfoboxExtractor pairs header and data cells of infobox rows
type InfoboxExtractor struct {
	class string
}

// NewInfoboxExtractor creates an extractor for tables with class "infobox"
func NewInfoboxExtractor() *InfoboxExtractor {
	return &InfoboxExtractor{class: InfoboxClass}
}

// Extract returns one Field per infobox row that has both a header cell and a
// data cell. Tables are visited in page order and rows top to bottom.
//
// When a row has several th or td cells only the first of each is used.
// Rows missing either kind of cell are skipped. A page without an infobox
// yields an empty slice.
func (e *InfoboxExtractor) Extract(doc htmldoc.Document) []model.Field {
	fields := []model.Field{}

	for _, table := range doc.FindAllWithClass("table", e.class) {
		for _, row := range table.FindAll("tr") {
			if field, ok := pairRow(row); ok {
				fields = append(fields, field)
			}
		}
	}

	return fields
}

// pairRow builds a Field from the first th and first td of row
func pairRow(row htmldoc.Element) (model.Field, bool) {
	headers := row.FindAll("th")
	data := row.FindAll("td")
	if len(headers) == 0 || len(data) == 0 {
		return model.Field{}, false
	}

	return model.Field{
		Label: headers[0].Text(),
		Value: data[0].Text(),
	}, true
}
