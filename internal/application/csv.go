package application

import (
	"bytes"
	"io"
	"strings"
)

// CSVFileName is the default download name of an export.
const CSVFileName = "candidature_lsmc.csv"

// CSVContentType is the media type of exported records.
const CSVContentType = "text/csv; charset=utf-8"

var csvEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", `"`, `""`)

// EncodeCSV writes a header row of keys and one row of values. Every value is
// quoted, embedded newlines become spaces and quotes are doubled.
func (a *Application) EncodeCSV(w io.Writer) error {
	pairs := a.Pairs()

	var buf bytes.Buffer
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p.Key)
	}
	buf.WriteByte('\n')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(csvEscaper.Replace(p.Value))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

// CSV returns the encoded record.
func (a *Application) CSV() []byte {
	var buf bytes.Buffer
	_ = a.EncodeCSV(&buf)
	return buf.Bytes()
}
