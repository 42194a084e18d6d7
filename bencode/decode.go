package bencode

import (
	"github.com/stupidafcoder/gorent/bterrors"
)

// Decoder walks a fixed byte buffer left to right, tracking a cursor. It
// mirrors the recursive-descent shape of the reference decoders in the
// corpus (string/int/list/dict dispatch on the lead byte) but threads a
// position through the struct instead of re-slicing the input string on
// every recursive call, so every decoded Value can record its [Start, End)
// span in the original buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps buf for decoding. buf is retained, not copied; callers
// must not mutate it while any Value derived from it is in use.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Decode parses exactly one bencode value from buf and fails if trailing
// bytes remain. This is the entry point for both the `decode` CLI command
// (a single bencoded argument) and metainfo parsing (a single top-level
// dictionary).
func Decode(buf []byte) (Value, error) {
	d := NewDecoder(buf)
	v, err := d.DecodeValue()
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(d.buf) {
		return Value{}, bterrors.Newf(bterrors.BencodeSyntax, "trailing bytes after value at offset %d", d.pos)
	}
	return v, nil
}

func (d *Decoder) errf(format string, args ...any) error {
	return bterrors.Newf(bterrors.BencodeSyntax, format, args...)
}

func (d *Decoder) peek() (byte, bool) {
	if d.pos >= len(d.buf) {
		return 0, false
	}
	return d.buf[d.pos], true
}

// DecodeValue decodes the value starting at the current cursor and advances
// the cursor past it. Exported so a caller decoding a stream of
// back-to-back values (not needed by this module, but by symmetry with
// Decode) can drive the cursor itself.
func (d *Decoder) DecodeValue() (Value, error) {
	b, ok := d.peek()
	if !ok {
		return Value{}, d.errf("unexpected end of input at offset %d", d.pos)
	}
	switch {
	case b >= '0' && b <= '9':
		return d.decodeString()
	case b == 'i':
		return d.decodeInt()
	case b == 'l':
		return d.decodeList()
	case b == 'd':
		return d.decodeDict()
	default:
		return Value{}, d.errf("unexpected byte %q at offset %d", b, d.pos)
	}
}

func (d *Decoder) decodeString() (Value, error) {
	start := d.pos
	colon := -1
	for i := d.pos; i < len(d.buf); i++ {
		if d.buf[i] == ':' {
			colon = i
			break
		}
		if d.buf[i] < '0' || d.buf[i] > '9' {
			return Value{}, d.errf("invalid length digit in byte string at offset %d", i)
		}
	}
	if colon == -1 {
		return Value{}, d.errf("unterminated byte string length starting at offset %d", start)
	}
	lengthStr := d.buf[d.pos:colon]
	if len(lengthStr) > 1 && lengthStr[0] == '0' {
		return Value{}, d.errf("byte string length has leading zero at offset %d", start)
	}
	length, err := parseUint(lengthStr)
	if err != nil {
		return Value{}, d.errf("byte string length overflow at offset %d", start)
	}
	dataStart := colon + 1
	dataEnd := dataStart + length
	if dataEnd > len(d.buf) || dataEnd < dataStart {
		return Value{}, d.errf("byte string of length %d truncated at offset %d", length, start)
	}
	v := Value{Kind: String, Str: d.buf[dataStart:dataEnd], Start: start, End: dataEnd}
	d.pos = dataEnd
	return v, nil
}

func (d *Decoder) decodeInt() (Value, error) {
	start := d.pos
	d.pos++ // consume 'i'
	digitsStart := d.pos
	negative := false
	if b, ok := d.peek(); ok && b == '-' {
		negative = true
		d.pos++
	}
	firstDigit := d.pos
	for {
		b, ok := d.peek()
		if !ok {
			return Value{}, d.errf("unterminated integer starting at offset %d", start)
		}
		if b == 'e' {
			break
		}
		if b < '0' || b > '9' {
			return Value{}, d.errf("invalid digit in integer at offset %d", d.pos)
		}
		d.pos++
	}
	if d.pos == firstDigit {
		return Value{}, d.errf("integer has no digits at offset %d", start)
	}
	digits := d.buf[firstDigit:d.pos]
	if negative && len(digits) == 1 && digits[0] == '0' {
		return Value{}, d.errf("negative zero integer at offset %d", start)
	}
	if len(digits) > 1 && digits[0] == '0' {
		return Value{}, d.errf("integer has leading zero at offset %d", start)
	}
	n, err := parseInt64(d.buf[digitsStart:d.pos])
	if err != nil {
		return Value{}, d.errf("integer overflows signed 64-bit at offset %d", start)
	}
	end := d.pos + 1 // consume 'e'
	if b, ok := d.peek(); !ok || b != 'e' {
		return Value{}, d.errf("integer missing terminating 'e' at offset %d", start)
	}
	d.pos = end
	return Value{Kind: Int, Int: n, Start: start, End: end}, nil
}

func (d *Decoder) decodeList() (Value, error) {
	start := d.pos
	d.pos++ // consume 'l'
	var items []Value
	for {
		b, ok := d.peek()
		if !ok {
			return Value{}, d.errf("unterminated list starting at offset %d", start)
		}
		if b == 'e' {
			d.pos++
			break
		}
		item, err := d.DecodeValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	return Value{Kind: List, List: items, Start: start, End: d.pos}, nil
}

func (d *Decoder) decodeDict() (Value, error) {
	start := d.pos
	d.pos++ // consume 'd'
	var entries []DictEntry
	prevKey := []byte(nil)
	outOfOrder := false
	for {
		b, ok := d.peek()
		if !ok {
			return Value{}, d.errf("unterminated dictionary starting at offset %d", start)
		}
		if b == 'e' {
			d.pos++
			break
		}
		keyVal, err := d.decodeString()
		if err != nil {
			return Value{}, err
		}
		if prevKey != nil && string(keyVal.Str) <= string(prevKey) {
			outOfOrder = true
		}
		prevKey = keyVal.Str
		val, err := d.DecodeValue()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, DictEntry{Key: keyVal.Str, Val: val})
	}
	v := Value{Kind: Dict, Dict: entries, Start: start, End: d.pos}
	v.keysOutOfOrder = outOfOrder
	return v, nil
}

func parseUint(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, bterrors.New(bterrors.BencodeSyntax, "empty integer")
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, bterrors.New(bterrors.BencodeSyntax, "non-digit in integer")
		}
		next := n*10 + int(c-'0')
		if next < n {
			return 0, bterrors.New(bterrors.BencodeSyntax, "integer overflow")
		}
		n = next
	}
	return n, nil
}

func parseInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, bterrors.New(bterrors.BencodeSyntax, "empty integer")
	}
	neg := false
	i := 0
	limit := uint64(1<<63 - 1)
	if b[0] == '-' {
		neg = true
		i = 1
		limit++
	}
	var n uint64
	for ; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			return 0, bterrors.New(bterrors.BencodeSyntax, "non-digit in integer")
		}
		d := uint64(c - '0')
		if n > (limit-d)/10 {
			return 0, bterrors.New(bterrors.BencodeSyntax, "integer overflow")
		}
		n = n*10 + d
	}
	if neg {
		return -int64(n), nil
	}
	return int64(n), nil
}
