package export

import (
	"encoding/csv"
	"io"
)

// BOM is the UTF-8 byte order mark, for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the field table of doc as CSV, preceded by a BOM.
func WriteCSV(w io.Writer, doc Document) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, f := range doc.Report.Fields {
		if err := cw.Write(fieldRow(f)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
