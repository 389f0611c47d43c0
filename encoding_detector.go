package main

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

type textEncoding struct {
	name string
	enc  encoding.Encoding
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvEncodings is tried in order; the first clean decode wins.
// cp949 and euc-kr share one decoder (it covers the UHC extension), latin1 never fails.
var csvEncodings = []textEncoding{
	{name: "utf-8"},
	{name: "cp949", enc: korean.EUCKR},
	{name: "euc-kr", enc: korean.EUCKR},
	{name: "latin1", enc: charmap.ISO8859_1},
}

var errUndecodable = errors.New("invalid byte sequence")

// decodeText converts raw upload bytes to UTF-8 and reports which encoding matched.
func decodeText(raw []byte) (string, string, error) {
	for _, e := range csvEncodings {
		text, err := decodeWith(e, raw)
		if err == nil {
			return text, e.name, nil
		}
	}
	return "", "", newParseError(UnrecognizedEncoding, errUndecodable)
}

func decodeWith(e textEncoding, raw []byte) (string, error) {
	if e.enc == nil {
		b := bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(b) {
			return "", errUndecodable
		}
		return string(b), nil
	}
	out, err := e.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	// x/text substitutes U+FFFD instead of failing on bad sequences
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", errUndecodable
	}
	return string(out), nil
}
