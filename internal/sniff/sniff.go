// Package sniff infers the character encoding of raw delimited-text extracts
// before decoding. Store exports arrive in UTF-8, Shift_JIS, or EUC-JP
// depending on the POS vendor, with no declaration anywhere in the file.
package sniff

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detection is the structured outcome of encoding inference. Confidence is
// 0-100; BOM detections and valid-UTF-8 short circuits report 100.
type Detection struct {
	Charset    string
	Confidence int
	HasBOM     bool
}

// NewUTF8Reader detects the encoding of r and returns a reader that decodes
// its content to UTF-8, plus the detection outcome.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. ISO-2022-JP escape sequences
//  3. Valid UTF-8 passes through as-is
//  4. Byte-level statistical inference via chardet
//  5. Fallback to Shift_JIS
func NewUTF8Reader(r io.Reader) (io.Reader, Detection, error) {
	br := bufio.NewReader(r)

	// Peek enough bytes for BOM checks and charset heuristics.
	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, Detection{}, eris.Wrap(err, "sniff: peek")
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, Detection{Charset: "UTF-8", Confidence: 100, HasBOM: true}, nil
	}
	if bytes.HasPrefix(buf, bomUTF16LE) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), Detection{Charset: "UTF-16LE", Confidence: 100, HasBOM: true}, nil
	}
	if bytes.HasPrefix(buf, bomUTF16BE) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), Detection{Charset: "UTF-16BE", Confidence: 100, HasBOM: true}, nil
	}

	// ISO-2022-JP is 7-bit, so its bytes always pass the UTF-8 validity
	// check; it must be recognized by its escape sequences first.
	if hasISO2022Escapes(buf) {
		return transform.NewReader(br, japanese.ISO2022JP.NewDecoder()),
			Detection{Charset: "ISO-2022-JP", Confidence: 100}, nil
	}

	if utf8.Valid(buf) {
		return br, Detection{Charset: "UTF-8", Confidence: 100}, nil
	}

	if result, detectErr := chardet.NewTextDetector().DetectBest(buf); detectErr == nil {
		if dec := decoderFor(result.Charset); dec != nil {
			det := Detection{Charset: result.Charset, Confidence: result.Confidence}
			return transform.NewReader(br, dec), det, nil
		}
		if result.Charset == "UTF-8" {
			return br, Detection{Charset: "UTF-8", Confidence: result.Confidence}, nil
		}
	}

	// Shift_JIS is the dominant legacy encoding in the source systems.
	return transform.NewReader(br, japanese.ShiftJIS.NewDecoder()),
		Detection{Charset: "Shift_JIS", Confidence: 0}, nil
}

// hasISO2022Escapes reports whether the buffer carries the ESC sequences
// ISO-2022-JP uses to shift between character sets (ESC $ or ESC ( followed
// by a designator byte).
func hasISO2022Escapes(buf []byte) bool {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] != 0x1B {
			continue
		}
		if buf[i+1] == '$' || buf[i+1] == '(' {
			return true
		}
	}
	return false
}

// decoderFor maps a chardet charset name onto a decoder, or nil when the
// content needs no transformation or the charset is unknown.
func decoderFor(charset string) *encoding.Decoder {
	switch charset {
	case "Shift_JIS":
		return japanese.ShiftJIS.NewDecoder()
	case "EUC-JP":
		return japanese.EUCJP.NewDecoder()
	case "ISO-2022-JP":
		return japanese.ISO2022JP.NewDecoder()
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252.NewDecoder()
	default:
		return nil
	}
}

// DecodeBytes decodes a whole byte slice to UTF-8 using the same detection
// chain as NewUTF8Reader.
func DecodeBytes(data []byte) (string, Detection, error) {
	r, det, err := NewUTF8Reader(bytes.NewReader(data))
	if err != nil {
		return "", det, err
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", det, eris.Wrap(err, "sniff: decode")
	}
	return string(decoded), det, nil
}
