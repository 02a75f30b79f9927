package pagesource

import "fmt"

// applyPredictor reverses the Predictor transform declared in a stream's
// DecodeParms. Predictor 2 is TIFF horizontal differencing; 10-15 are the PNG
// per-row filters.
func applyPredictor(data []byte, predictor int, parms rawDict) ([]byte, error) {
	columns := dictInt(parms, "Columns")
	if columns == 0 {
		columns = 1
	}
	colors := dictInt(parms, "Colors")
	if colors == 0 {
		colors = 1
	}
	bpc := dictInt(parms, "BitsPerComponent")
	if bpc == 0 {
		bpc = 8
	}

	switch {
	case predictor == 2:
		return applyTIFFPredictor(data, columns, colors, bpc)
	case predictor >= 10 && predictor <= 15:
		return applyPNGPredictor(data, columns, colors, bpc)
	default:
		return nil, fmt.Errorf("unsupported predictor %d", predictor)
	}
}

func applyTIFFPredictor(data []byte, columns, colors, bpc int) ([]byte, error) {
	if bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor with %d bits per component not supported", bpc)
	}
	rowSize := columns * colors
	if rowSize == 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data length %d not a multiple of row size %d", len(data), rowSize)
	}
	out := make([]byte, len(data))
	copy(out, data)
	for row := 0; row < len(data)/rowSize; row++ {
		base := row * rowSize
		for i := colors; i < rowSize; i++ {
			out[base+i] += out[base+i-colors]
		}
	}
	return out, nil
}

func applyPNGPredictor(data []byte, columns, colors, bpc int) ([]byte, error) {
	bytesPerPixel := (bpc*colors + 7) / 8
	rowSize := (columns*bpc*colors + 7) / 8
	stride := rowSize + 1 // leading filter byte per row

	if stride == 1 || len(data)%stride != 0 {
		return nil, fmt.Errorf("data length %d not a multiple of row stride %d", len(data), stride)
	}

	rows := len(data) / stride
	out := make([]byte, rows*rowSize)

	for row := 0; row < rows; row++ {
		filter := data[row*stride]
		src := data[row*stride+1 : (row+1)*stride]
		dst := out[row*rowSize : (row+1)*rowSize]
		copy(dst, src)

		var prev []byte
		if row > 0 {
			prev = out[(row-1)*rowSize : row*rowSize]
		}

		switch filter {
		case 0: // None
		case 1: // Sub
			for i := bytesPerPixel; i < rowSize; i++ {
				dst[i] += dst[i-bytesPerPixel]
			}
		case 2: // Up
			if prev != nil {
				for i := 0; i < rowSize; i++ {
					dst[i] += prev[i]
				}
			}
		case 3: // Average
			for i := 0; i < rowSize; i++ {
				var left, up byte
				if i >= bytesPerPixel {
					left = dst[i-bytesPerPixel]
				}
				if prev != nil {
					up = prev[i]
				}
				dst[i] += byte((int(left) + int(up)) / 2)
			}
		case 4: // Paeth
			for i := 0; i < rowSize; i++ {
				var left, up, upLeft byte
				if i >= bytesPerPixel {
					left = dst[i-bytesPerPixel]
				}
				if prev != nil {
					up = prev[i]
					if i >= bytesPerPixel {
						upLeft = prev[i-bytesPerPixel]
					}
				}
				dst[i] += paeth(left, up, upLeft)
			}
		default:
			return nil, fmt.Errorf("unknown PNG filter %d", filter)
		}
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
