package document

import "bytes"

var (
	dctDecodeMarker = []byte("/DCTDecode")
	streamKeyword   = []byte("stream")
	endstream       = []byte("endstream")
	jpegSOI         = []byte{0xFF, 0xD8}
)

// embeddedJPEGs scans raw PDF bytes for DCTDecode image streams and returns
// their JPEG payloads in file order. A structural walk of the object graph
// is not needed: DCTDecode streams are stored as plain JPEG between the
// stream/endstream keywords of their object.
func embeddedJPEGs(data []byte) [][]byte {
	var images [][]byte
	off := 0
	for {
		i := bytes.Index(data[off:], dctDecodeMarker)
		if i < 0 {
			break
		}
		pos := off + i + len(dctDecodeMarker)

		s := bytes.Index(data[pos:], streamKeyword)
		if s < 0 {
			break
		}
		start := pos + s + len(streamKeyword)
		// The stream keyword is followed by CRLF or LF before the data.
		if start < len(data) && data[start] == '\r' {
			start++
		}
		if start < len(data) && data[start] == '\n' {
			start++
		}

		e := bytes.Index(data[start:], endstream)
		if e < 0 {
			break
		}
		end := start + e
		// Trailing EOL before endstream belongs to the syntax, not the image.
		for end > start && (data[end-1] == '\n' || data[end-1] == '\r') {
			end--
		}

		if end-start > len(jpegSOI) && bytes.HasPrefix(data[start:end], jpegSOI) {
			images = append(images, data[start:end])
		}
		off = start + e + len(endstream)
	}
	return images
}
