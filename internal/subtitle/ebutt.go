package subtitle

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ParseEBUTTD decodes an EBU-TT-D document into caption blocks.
//
// The styling block is read first into a style-id to color map. Each
// paragraph then yields one block: its begin/end attributes normalized to
// SRT time codes, each span a colored line, each br an explicit line break.
// A span referencing an undefined style id fails the whole document with
// ErrUnknownStyle.
func ParseEBUTTD(data []byte) ([]Block, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		colors      = make(map[string]string)
		blocks      []Block
		current     *Block
		sawStyling  bool
		sawDiv      bool
		inStyling   bool
		inSpan      bool
		spanStyle   string
		spanHasAttr bool
		spanText    strings.Builder
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "styling":
				sawStyling = true
				inStyling = true
			case "style":
				if !inStyling {
					continue
				}
				var id, color string
				for _, attr := range element.Attr {
					switch attr.Name.Local {
					case "id":
						id = attr.Value
					case "color":
						color = attr.Value
					}
				}
				if id != "" && color != "" {
					colors[id] = color
				}
			case "div":
				sawDiv = true
			case "p":
				var begin, end string
				for _, attr := range element.Attr {
					switch attr.Name.Local {
					case "begin":
						begin = attr.Value
					case "end":
						end = attr.Value
					}
				}
				if begin == "" || end == "" {
					return nil, fmt.Errorf("%w: paragraph without begin/end times", ErrMalformedDocument)
				}
				b, e := normalizeTimes(begin, end)
				current = &Block{Begin: b, End: e}
			case "span":
				if current == nil {
					continue
				}
				inSpan = true
				spanStyle = ""
				spanHasAttr = false
				spanText.Reset()
				for _, attr := range element.Attr {
					if attr.Name.Local == "style" {
						spanStyle = attr.Value
						spanHasAttr = true
					}
				}
			case "br":
				if current != nil && !inSpan {
					current.Lines = append(current.Lines, Line{Text: "\n"})
				}
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "styling":
				inStyling = false
			case "span":
				if current == nil || !inSpan {
					continue
				}
				inSpan = false
				color, ok := colors[spanStyle]
				if !spanHasAttr || !ok {
					return nil, fmt.Errorf("%w: style %q", ErrUnknownStyle, spanStyle)
				}
				current.Lines = append(current.Lines, Line{Text: spanText.String(), Color: color})
			case "p":
				if current != nil {
					blocks = append(blocks, *current)
					current = nil
				}
			}
		case xml.CharData:
			if inSpan {
				spanText.Write(element)
			}
		}
	}

	if !sawStyling {
		return nil, fmt.Errorf("%w: missing styling block", ErrMalformedDocument)
	}
	if !sawDiv {
		return nil, fmt.Errorf("%w: missing paragraph container", ErrMalformedDocument)
	}
	return blocks, nil
}
