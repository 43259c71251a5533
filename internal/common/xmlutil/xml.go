package xmlutil

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
)

// DefaultIndent is the indentation used for submission documents
const DefaultIndent = "    "

// entityFixups restores character references that were escaped a second
// time because the value already contained them literally, and renders
// quotes the way catalog tooling writes them.
var entityFixups = strings.NewReplacer(
	"&amp;#10;", "&#10;",
	"&#34;", "&quot;",
	"&#39;", "'",
)

// MarshalXML marshals a struct into an XML document with a header line.
// An empty indent produces compact output.
func MarshalXML(v any, indent string) ([]byte, error) {
	var data []byte
	var err error
	if indent != "" {
		data, err = xml.MarshalIndent(v, "", indent)
	} else {
		data, err = xml.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(data) + 1)
	buf.WriteString(xml.Header)
	buf.Write(data)
	buf.WriteByte('\n')

	return RestoreEntities(CollapseEmptyElements(buf.Bytes())), nil
}

// CollapseEmptyElements rewrites <x a="1"></x> as <x a="1"/>.
// Attribute values never hold a raw '>' because the encoder escapes it.
func CollapseEmptyElements(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for {
		i := bytes.Index(data, []byte("></"))
		if i < 0 {
			return append(out, data...)
		}

		end := bytes.IndexByte(data[i+3:], '>')
		if end < 0 {
			return append(out, data...)
		}
		name := data[i+3 : i+3+end]

		start := bytes.LastIndexByte(data[:i], '<')
		tag := data[start+1 : i]
		if start >= 0 && bytes.HasPrefix(tag, name) &&
			(len(tag) == len(name) || tag[len(name)] == ' ') {
			out = append(out, data[:i]...)
			out = append(out, '/', '>')
			data = data[i+3+end+1:]
			continue
		}

		out = append(out, data[:i+3]...)
		data = data[i+3:]
	}
}

// RestoreEntities undoes the double escaping of literal newline references
// and normalises quote escapes
func RestoreEntities(data []byte) []byte {
	return []byte(entityFixups.Replace(string(data)))
}

// UnmarshalXML unmarshals XML data into a provided struct.
func UnmarshalXML(data []byte, v any) error {
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedFile, err.Error())
	}
	return nil
}

// ExtractAttr returns the value of attr on the first element named elementName.
func ExtractAttr(data []byte, elementName, attr string) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedFile, err.Error())
		}
		if startElem, ok := tok.(xml.StartElement); ok && startElem.Name.Local == elementName {
			for _, a := range startElem.Attr {
				if a.Name.Local == attr {
					return a.Value, nil
				}
			}
			return "", fmt.Errorf("%w: attribute '%s' not found on '%s'", errors.ErrInvalidArgument, attr, elementName)
		}
	}
	return "", fmt.Errorf("%w: element '%s' not found", errors.ErrInvalidArgument, elementName)
}
