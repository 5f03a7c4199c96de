package output

import (
	"bytes"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses Core Deterministic Encoding (RFC 8949 §4.2), so the same
// report always produces identical bytes.
var cborEncMode cbor.EncMode

func init() {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString

	var err error
	cborEncMode, err = encOptions.EncMode()
	if err != nil {
		panic("output: CBOR encoder initialization failed: " + err.Error())
	}
}

// CBORFormatter formats output as a single binary CBOR document with the
// same structure as JSONFormatter.
type CBORFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CBORFormatter) Format(w *bytes.Buffer, r *Result) error {
	data, err := cborEncMode.Marshal(buildDocument(r))
	if err != nil {
		return err
	}
	w.Write(data)
	return nil
}

func init() {
	Register("cbor", func() Formatter {
		return &CBORFormatter{}
	})
}

// Ensure CBORFormatter implements Formatter.
var _ Formatter = (*CBORFormatter)(nil)
