package pagesource

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
)

// rawParser reads one PDF object value from a byte buffer.
type rawParser struct {
	data []byte
	pos  int
}

func isWhitespace(b byte) bool {
	switch b {
	case 0x00, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (p *rawParser) skipSpace() {
	for p.pos < len(p.data) {
		b := p.data[p.pos]
		if isWhitespace(b) {
			p.pos++
			continue
		}
		if b == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		break
	}
}

func (p *rawParser) readBareToken() string {
	start := p.pos
	for p.pos < len(p.data) && !isWhitespace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// parseValue reads the next object value: dictionary, array, name, string,
// number, reference, boolean or null.
func (p *rawParser) parseValue() (rawValue, error) {
	p.skipSpace()
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of data")
	}

	switch b := p.data[p.pos]; {
	case b == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.parseDict()
	case b == '<':
		return p.parseHexString()
	case b == '(':
		return p.parseLiteralString()
	case b == '[':
		return p.parseArray()
	case b == '/':
		return p.parseName()
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		return p.parseNumberOrRef()
	default:
		switch tok := p.readBareToken(); tok {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		default:
			return nil, fmt.Errorf("unexpected token %q at offset %d", tok, p.pos)
		}
	}
}

func (p *rawParser) parseDict() (rawDict, error) {
	p.pos += 2 // <<
	d := make(rawDict)
	for {
		p.skipSpace()
		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			return d, nil
		}
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unterminated dictionary")
		}
		key, err := p.parseName()
		if err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		d[string(key)] = val
	}
}

func (p *rawParser) parseArray() ([]rawValue, error) {
	p.pos++ // [
	var arr []rawValue
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unterminated array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func (p *rawParser) parseName() (rawName, error) {
	p.skipSpace()
	if p.pos >= len(p.data) || p.data[p.pos] != '/' {
		return "", fmt.Errorf("expected name at offset %d", p.pos)
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.data) && !isWhitespace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
		p.pos++
	}
	name := p.data[start:p.pos]

	// #xx escapes inside names.
	if bytes.IndexByte(name, '#') >= 0 {
		var out []byte
		for i := 0; i < len(name); i++ {
			if name[i] == '#' && i+2 < len(name) {
				if v, err := strconv.ParseUint(string(name[i+1:i+3]), 16, 8); err == nil {
					out = append(out, byte(v))
					i += 2
					continue
				}
			}
			out = append(out, name[i])
		}
		name = out
	}
	return rawName(name), nil
}

func (p *rawParser) parseLiteralString() (string, error) {
	p.pos++ // (
	var out []byte
	depth := 1
	for p.pos < len(p.data) {
		b := p.data[p.pos]
		p.pos++
		switch b {
		case '\\':
			if p.pos >= len(p.data) {
				return "", fmt.Errorf("unterminated string escape")
			}
			e := p.data[p.pos]
			p.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '7'; i++ {
						v = v*8 + int(p.data[p.pos]-'0')
						p.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, b)
		case ')':
			depth--
			if depth == 0 {
				return string(out), nil
			}
			out = append(out, b)
		default:
			out = append(out, b)
		}
	}
	return "", fmt.Errorf("unterminated literal string")
}

func (p *rawParser) parseHexString() (string, error) {
	p.pos++ // <
	start := p.pos
	for p.pos < len(p.data) && p.data[p.pos] != '>' {
		p.pos++
	}
	if p.pos >= len(p.data) {
		return "", fmt.Errorf("unterminated hex string")
	}
	raw := bytes.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, p.data[start:p.pos])
	p.pos++ // >
	if len(raw)%2 == 1 {
		raw = append(raw, '0')
	}
	decoded, err := hex.DecodeString(string(raw))
	if err != nil {
		return "", fmt.Errorf("bad hex string: %w", err)
	}
	return string(decoded), nil
}

// parseNumberOrRef reads a number, or an "N G R" indirect reference when the
// lookahead matches.
func (p *rawParser) parseNumberOrRef() (rawValue, error) {
	numTok := p.readBareToken()
	n, err := strconv.ParseFloat(numTok, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q: %w", numTok, err)
	}

	// Lookahead for "<gen> R".
	save := p.pos
	p.skipSpace()
	genStart := p.pos
	genTok := p.readBareToken()
	if gen, err := strconv.Atoi(genTok); err == nil && gen >= 0 {
		p.skipSpace()
		if p.pos < len(p.data) && p.data[p.pos] == 'R' &&
			(p.pos+1 >= len(p.data) || isWhitespace(p.data[p.pos+1]) || isDelimiter(p.data[p.pos+1])) {
			p.pos++
			if num := int(n); float64(num) == n && num > 0 {
				return rawRef{num: num}, nil
			}
		}
	}
	_ = genStart
	p.pos = save
	return n, nil
}

// tryStream checks for a stream keyword after a dictionary and captures the
// raw payload up to the matching endstream. The declared Length is used when
// it is a direct integer; otherwise the endstream keyword is located by
// search, which tolerates broken Length entries.
func (p *rawParser) tryStream(d rawDict) (*rawStream, bool) {
	save := p.pos
	p.skipSpace()
	if !bytes.HasPrefix(p.data[p.pos:], []byte("stream")) {
		p.pos = save
		return nil, false
	}
	p.pos += len("stream")
	if p.pos < len(p.data) && p.data[p.pos] == '\r' {
		p.pos++
	}
	if p.pos < len(p.data) && p.data[p.pos] == '\n' {
		p.pos++
	}

	start := p.pos
	if length, ok := d["Length"].(float64); ok {
		end := start + int(length)
		if end <= len(p.data) {
			tail := p.data[end:]
			if idx := bytes.Index(tail, []byte("endstream")); idx >= 0 && idx <= 4 {
				p.pos = end + idx + len("endstream")
				return &rawStream{dict: d, raw: p.data[start:end]}, true
			}
		}
	}

	idx := bytes.Index(p.data[start:], []byte("endstream"))
	if idx < 0 {
		p.pos = save
		return nil, false
	}
	end := start + idx
	// Strip the EOL that precedes endstream.
	for end > start && (p.data[end-1] == '\n' || p.data[end-1] == '\r') {
		end--
	}
	p.pos = start + idx + len("endstream")
	return &rawStream{dict: d, raw: p.data[start:end]}, true
}
