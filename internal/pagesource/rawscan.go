package pagesource

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
)

// rawScan is a best-effort linear scanner over a PDF file's body. It collects
// indirect objects without consulting the cross-reference table, walks the
// page tree from the catalog, and exposes the two things the primitive layer
// cannot get from ledongthuc/pdf: raw image XObject payloads with their
// filter tags, and decoded page content streams.
//
// PDFs that store objects inside object streams fall outside what this
// scanner can see; callers treat an empty or inconsistent result as "no raw
// layer available" and degrade to character primitives only.
type rawScan struct {
	objects map[int]rawValue
	pages   []rawDict
}

// rawValue is one of: rawDict, []rawValue, rawName, rawRef, *rawStream,
// string, float64, bool, or nil.
type rawValue any

type (
	rawName string
	rawRef  struct{ num int }
	rawDict map[string]rawValue
)

type rawStream struct {
	dict rawDict
	raw  []byte
}

var objHeaderRe = regexp.MustCompile(`(?s)(\d+)\s+(\d+)\s+obj\b`)

// newRawScan parses the file body and resolves the page tree. It returns an
// error when no catalog or no pages can be located.
func newRawScan(data []byte) (*rawScan, error) {
	s := &rawScan{objects: make(map[int]rawValue)}

	for _, loc := range objHeaderRe.FindAllSubmatchIndex(data, -1) {
		num, err := strconv.Atoi(string(data[loc[2]:loc[3]]))
		if err != nil {
			continue
		}
		p := &rawParser{data: data, pos: loc[1]}
		v, err := p.parseValue()
		if err != nil {
			continue
		}
		if d, ok := v.(rawDict); ok {
			if stream, ok := p.tryStream(d); ok {
				v = stream
			}
		}
		s.objects[num] = v
	}

	if err := s.collectPages(); err != nil {
		return nil, err
	}
	return s, nil
}

// resolve follows indirect references down to a concrete value.
func (s *rawScan) resolve(v rawValue) rawValue {
	for i := 0; i < 32; i++ {
		r, ok := v.(rawRef)
		if !ok {
			return v
		}
		v = s.objects[r.num]
	}
	return nil
}

func (s *rawScan) resolveDict(v rawValue) rawDict {
	d, _ := s.resolve(v).(rawDict)
	return d
}

// collectPages walks Catalog -> Pages -> Kids, preserving logical page order.
func (s *rawScan) collectPages() error {
	var root rawDict
	for _, v := range s.objects {
		if d, ok := s.resolve(v).(rawDict); ok {
			if t, _ := d["Type"].(rawName); t == "Catalog" {
				root = d
				break
			}
		}
	}
	if root == nil {
		return fmt.Errorf("no document catalog found")
	}

	s.walkPageTree(s.resolveDict(root["Pages"]), 0)
	if len(s.pages) == 0 {
		return fmt.Errorf("no pages found in page tree")
	}
	return nil
}

func (s *rawScan) walkPageTree(node rawDict, depth int) {
	if node == nil || depth > 64 {
		return
	}
	switch t, _ := node["Type"].(rawName); t {
	case "Page":
		s.pages = append(s.pages, node)
	case "Pages":
		kids, _ := s.resolve(node["Kids"]).([]rawValue)
		for _, kid := range kids {
			s.walkPageTree(s.resolveDict(kid), depth+1)
		}
	}
}

// pageCount returns the number of pages reachable from the catalog.
func (s *rawScan) pageCount() int {
	return len(s.pages)
}

// pageContent returns the decoded, concatenated content streams of the
// 1-based n-th page.
func (s *rawScan) pageContent(n int) []byte {
	if n < 1 || n > len(s.pages) {
		return nil
	}
	page := s.pages[n-1]

	var streams []rawValue
	switch c := s.resolve(page["Contents"]).(type) {
	case *rawStream:
		streams = []rawValue{c}
	case []rawValue:
		streams = c
	}

	var out []byte
	for _, sv := range streams {
		stream, ok := s.resolve(sv).(*rawStream)
		if !ok {
			continue
		}
		data, err := decodeStreamData(stream, s)
		if err != nil {
			continue
		}
		out = append(out, data...)
		out = append(out, '\n')
	}
	return out
}

// pageImages returns the image XObjects of the 1-based n-th page. Payloads
// keep their image codec encoding; pure Flate wrapping is removed so the
// payload holds raw samples.
func (s *rawScan) pageImages(n int) []ImageStream {
	if n < 1 || n > len(s.pages) {
		return nil
	}
	page := s.pages[n-1]

	res := s.resolveDict(page["Resources"])
	if res == nil {
		return nil
	}
	xobjs := s.resolveDict(res["XObject"])
	if xobjs == nil {
		return nil
	}

	// Dictionary iteration order is not document order; resource names give a
	// stable, deterministic ordering instead.
	names := make([]string, 0, len(xobjs))
	for name := range xobjs {
		names = append(names, name)
	}
	sort.Strings(names)

	var images []ImageStream
	for _, name := range names {
		stream, ok := s.resolve(xobjs[name]).(*rawStream)
		if !ok {
			continue
		}
		if t, _ := stream.dict["Subtype"].(rawName); t != "Image" {
			continue
		}
		img, err := s.imageFromStream(stream)
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	return images
}

// imageCodecs are terminal filters whose payloads the imaging package decodes
// itself. Everything before them in a filter pipeline is transport encoding.
var imageCodecs = map[rawName]bool{
	"DCTDecode":      true,
	"JPXDecode":      true,
	"CCITTFaxDecode": true,
	"JBIG2Decode":    true,
}

func (s *rawScan) imageFromStream(stream *rawStream) (ImageStream, error) {
	img := ImageStream{
		Width:            dictInt(stream.dict, "Width"),
		Height:           dictInt(stream.dict, "Height"),
		BitsPerComponent: dictInt(stream.dict, "BitsPerComponent"),
		ColorSpace:       nameOrFirst(s.resolve(stream.dict["ColorSpace"])),
		Data:             stream.raw,
	}

	filters := filterList(stream.dict["Filter"])
	for i, f := range filters {
		if imageCodecs[f] {
			img.Filter = string(f)
			return img, nil
		}
		decoded, err := decodeFilter(f, img.Data, s.resolveDict(decodeParms(stream.dict, i)))
		if err != nil {
			return ImageStream{}, err
		}
		img.Data = decoded
		img.Filter = string(f)
	}
	return img, nil
}

func filterList(v rawValue) []rawName {
	switch f := v.(type) {
	case rawName:
		return []rawName{f}
	case []rawValue:
		var names []rawName
		for _, e := range f {
			if n, ok := e.(rawName); ok {
				names = append(names, n)
			}
		}
		return names
	}
	return nil
}

func decodeParms(d rawDict, i int) rawValue {
	switch p := d["DecodeParms"].(type) {
	case rawDict:
		if i == 0 {
			return p
		}
	case []rawValue:
		if i < len(p) {
			return p[i]
		}
	}
	return nil
}

func dictInt(d rawDict, key string) int {
	if f, ok := d[key].(float64); ok {
		return int(f)
	}
	return 0
}

func nameOrFirst(v rawValue) string {
	switch cs := v.(type) {
	case rawName:
		return string(cs)
	case []rawValue:
		var parts []string
		for _, e := range cs {
			if n, ok := e.(rawName); ok {
				parts = append(parts, string(n))
			}
		}
		if len(parts) > 0 {
			return parts[0]
		}
	}
	return ""
}

// decodeStreamData decodes a stream whose filters are all transport
// encodings. Streams carrying image codecs are rejected.
func decodeStreamData(stream *rawStream, s *rawScan) ([]byte, error) {
	data := stream.raw
	for i, f := range filterList(stream.dict["Filter"]) {
		decoded, err := decodeFilter(f, data, s.resolveDict(decodeParms(stream.dict, i)))
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return data, nil
}

func decodeFilter(name rawName, data []byte, parms rawDict) ([]byte, error) {
	switch name {
	case "FlateDecode":
		return flateDecode(data, parms)
	default:
		return nil, fmt.Errorf("unsupported stream filter %q", name)
	}
}

func flateDecode(data []byte, parms rawDict) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flate decode: %w", err)
	}
	decoded, err := io.ReadAll(zr)
	zr.Close()
	// Tolerate truncated tails as long as something decoded; irregular
	// producers pad or cut the deflate stream.
	if err != nil && len(decoded) == 0 {
		return nil, fmt.Errorf("flate decode: %w", err)
	}

	if parms != nil {
		if predictor := dictInt(parms, "Predictor"); predictor > 1 {
			return applyPredictor(decoded, predictor, parms)
		}
	}
	return decoded, nil
}
