package charset

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

type candidate struct {
	name string
	enc  encoding.Encoding
}

// candidates are tried in order; on equal confidence the earlier one wins.
var candidates = []candidate{
	{"windows-1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
	{"iso-8859-15", charmap.ISO8859_15},
	{"windows-1250", charmap.Windows1250},
	{"iso-8859-2", charmap.ISO8859_2},
	{"windows-1251", charmap.Windows1251},
	{"koi8-r", charmap.KOI8R},
	{"iso-8859-5", charmap.ISO8859_5},
	{"windows-1253", charmap.Windows1253},
	{"iso-8859-7", charmap.ISO8859_7},
	{"shift_jis", japanese.ShiftJIS},
	{"euc-jp", japanese.EUCJP},
	{"gb18030", simplifiedchinese.GB18030},
	{"big5", traditionalchinese.Big5},
	{"euc-kr", korean.EUCKR},
	{"utf-16-le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{"utf-16-be", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

type bom struct {
	name   string
	prefix []byte
	enc    encoding.Encoding
}

// UTF-32 marks come first: the UTF-32LE mark starts with the UTF-16LE one.
var boms = []bom{
	{"utf-32-le", []byte{0xFF, 0xFE, 0x00, 0x00}, utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)},
	{"utf-32-be", []byte{0x00, 0x00, 0xFE, 0xFF}, utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)},
	{"utf-8-sig", []byte{0xEF, 0xBB, 0xBF}, unicode.UTF8},
	{"utf-16-le", []byte{0xFF, 0xFE}, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{"utf-16-be", []byte{0xFE, 0xFF}, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

// lookup resolves a label to an encoding, preferring the candidate table
// and falling back to the WHATWG label index.
func lookup(label string) (string, encoding.Encoding, bool) {
	norm := strings.ToLower(strings.ReplaceAll(label, "_", "-"))
	for _, c := range candidates {
		if strings.ReplaceAll(c.name, "_", "-") == norm {
			return c.name, c.enc, true
		}
	}
	switch norm {
	case "utf-8", "utf8":
		return "utf-8", unicode.UTF8, true
	case "utf-16le", "utf-16-le":
		return "utf-16-le", candidates[len(candidates)-2].enc, true
	case "utf-16be", "utf-16-be":
		return "utf-16-be", candidates[len(candidates)-1].enc, true
	case "utf-32le", "utf-32-le":
		return "utf-32-le", boms[0].enc, true
	case "utf-32be", "utf-32-be":
		return "utf-32-be", boms[1].enc, true
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", nil, false
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = norm
	}
	return name, enc, true
}
