// Package fits decodes FITS files just far enough for spectrum and frame
// retrieval: header cards and raw data blocks per HDU. It is not a
// general FITS library.
package fits

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	blockSize = 2880
	cardSize  = 80
)

// Card is one 80-byte header record, split into keyword, value and comment.
type Card struct {
	Keyword string
	Value   string
	Comment string
}

// Header is the ordered card list of one HDU.
type Header struct {
	Cards []Card
}

// Get returns the value of the first card with the given keyword.
// Quoted string values are unquoted.
func (h Header) Get(keyword string) (string, bool) {
	for _, c := range h.Cards {
		if c.Keyword == keyword {
			return c.Value, true
		}
	}
	return "", false
}

// Int reads an integer-valued keyword.
func (h Header) Int(keyword string) (int64, bool) {
	v, ok := h.Get(keyword)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HDU is one header-data unit.
type HDU struct {
	Header Header
	Data   []byte
}

// File is a decoded FITS file: a sequence of HDUs.
type File struct {
	HDUs []HDU
}

// Decode reads HDUs until EOF. An empty stream decodes to a file with no
// HDUs; a stream that breaks off mid-block is an error.
func Decode(r io.Reader) (*File, error) {
	f := &File{}
	for {
		hdr, err := readHeader(r)
		if err == io.EOF {
			return f, nil
		}
		if err != nil {
			return nil, fmt.Errorf("hdu %d header: %w", len(f.HDUs), err)
		}

		size, err := dataSize(hdr)
		if err != nil {
			return nil, fmt.Errorf("hdu %d header: %w", len(f.HDUs), err)
		}
		data := make([]byte, size)
		if size > 0 {
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("hdu %d data: %w", len(f.HDUs), err)
			}
			// data is padded to a full block
			if pad := (blockSize - size%blockSize) % blockSize; pad > 0 {
				if _, err := io.CopyN(io.Discard, r, int64(pad)); err != nil {
					return nil, fmt.Errorf("hdu %d padding: %w", len(f.HDUs), err)
				}
			}
		}
		f.HDUs = append(f.HDUs, HDU{Header: hdr, Data: data})
	}
}

// readHeader consumes 2880-byte blocks until the END card. io.EOF before
// the first block means the stream is exhausted.
func readHeader(r io.Reader) (Header, error) {
	var h Header
	block := make([]byte, blockSize)
	first := true
	for {
		if _, err := io.ReadFull(r, block); err != nil {
			if first && err == io.EOF {
				return h, io.EOF
			}
			return h, fmt.Errorf("read header block: %w", err)
		}
		first = false
		for off := 0; off < blockSize; off += cardSize {
			card := string(block[off : off+cardSize])
			kw := strings.TrimRight(card[:8], " ")
			if kw == "END" {
				return h, nil
			}
			if kw == "" {
				continue
			}
			h.Cards = append(h.Cards, parseCard(kw, card))
		}
	}
}

func parseCard(kw, card string) Card {
	c := Card{Keyword: kw}
	if len(card) < 10 || card[8:10] != "= " {
		c.Comment = strings.TrimSpace(card[8:])
		return c
	}
	rest := card[10:]
	if strings.HasPrefix(strings.TrimLeft(rest, " "), "'") {
		// quoted string; '' escapes a quote
		trimmed := strings.TrimLeft(rest, " ")
		var val strings.Builder
		i := 1
		for i < len(trimmed) {
			if trimmed[i] == '\'' {
				if i+1 < len(trimmed) && trimmed[i+1] == '\'' {
					val.WriteByte('\'')
					i += 2
					continue
				}
				i++
				break
			}
			val.WriteByte(trimmed[i])
			i++
		}
		c.Value = strings.TrimRight(val.String(), " ")
		if j := strings.IndexByte(trimmed[i:], '/'); j >= 0 {
			c.Comment = strings.TrimSpace(trimmed[i+j+1:])
		}
		return c
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		c.Value = strings.TrimSpace(rest[:i])
		c.Comment = strings.TrimSpace(rest[i+1:])
	} else {
		c.Value = strings.TrimSpace(rest)
	}
	return c
}

// maxDataSize caps one HDU's data segment. SAS spectra and frames are
// megabytes at most; anything near this limit is a corrupt header.
const maxDataSize = 1 << 30

// dataSize computes the data segment length from BITPIX and the axes,
// honoring PCOUNT/GCOUNT for extensions. Header values arrive from the
// network, so negative or absurd sizes are errors, not slice lengths.
func dataSize(h Header) (int, error) {
	bitpix, ok := h.Int("BITPIX")
	if !ok {
		return 0, nil
	}
	switch bitpix {
	case 8, 16, 32, 64, -32, -64:
	default:
		return 0, fmt.Errorf("bad BITPIX %d", bitpix)
	}
	naxis, ok := h.Int("NAXIS")
	if !ok || naxis == 0 {
		return 0, nil
	}
	if naxis < 0 || naxis > 999 {
		return 0, fmt.Errorf("bad NAXIS %d", naxis)
	}
	elems := int64(1)
	for i := int64(1); i <= naxis; i++ {
		n, ok := h.Int(fmt.Sprintf("NAXIS%d", i))
		if !ok {
			return 0, nil
		}
		if n < 0 {
			return 0, fmt.Errorf("bad NAXIS%d %d", i, n)
		}
		elems *= n
		if elems > maxDataSize {
			return 0, fmt.Errorf("data segment too large: %d elements", elems)
		}
	}
	pcount, _ := h.Int("PCOUNT")
	if pcount < 0 {
		return 0, fmt.Errorf("bad PCOUNT %d", pcount)
	}
	gcount, ok := h.Int("GCOUNT")
	if gcount < 0 {
		return 0, fmt.Errorf("bad GCOUNT %d", gcount)
	}
	if !ok || gcount == 0 {
		gcount = 1
	}
	bytesPer := bitpix
	if bytesPer < 0 {
		bytesPer = -bytesPer
	}
	size := gcount * (pcount + elems) * bytesPer / 8
	if size > maxDataSize {
		return 0, fmt.Errorf("data segment too large: %d bytes", size)
	}
	return int(size), nil
}
