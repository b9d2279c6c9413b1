package xmlsniff

// Package xmlsniff reads an XML stream only as far as the first occurrence
// of a given element. It is used to inspect the root element of project files
// that may be many megabytes long.

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Outcome describes what was observed for the target element.
type Outcome int

const (
	// NotFound means the document ended without the element.
	NotFound Outcome = iota
	// FoundWithoutValue means the element exists but the attribute is absent or empty.
	FoundWithoutValue
	// FoundWithValue means the element exists and the attribute has a value.
	FoundWithValue
)

func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not-found"
	case FoundWithoutValue:
		return "found-without-value"
	case FoundWithValue:
		return "found-with-value"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is the result of a Sniff.
type Result struct {
	Outcome Outcome
	Value   string
}

// HasValue reports whether the attribute was present and non-empty.
func (r Result) HasValue() bool {
	return r.Outcome == FoundWithValue
}

// Sniff scans r in document order until it meets the first start element
// whose qualified name (prefix:local, as written) equals element, and returns
// the value of its attribute attr. Nothing after that start tag is read.
//
// A document without the element yields NotFound and a nil error. Malformed
// XML before the element, including mismatched end tags and a second root, is
// reported as an error.
func Sniff(r io.Reader, element, attr string) (Result, error) {
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = charsetReader

	// RawToken does not match end tags to start tags, so open elements are
	// tracked here.
	var open []string
	rootClosed := false

	for {
		// RawToken keeps namespace prefixes untranslated
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			if len(open) > 0 {
				return Result{}, fmt.Errorf("failed to parse XML before <%s>: unexpected EOF inside <%s>", element, open[len(open)-1])
			}
			return Result{Outcome: NotFound}, nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("failed to parse XML before <%s>: %w", element, err)
		}

		if end, ok := tok.(xml.EndElement); ok {
			name := qualifiedName(end.Name)
			if len(open) == 0 || open[len(open)-1] != name {
				return Result{}, fmt.Errorf("failed to parse XML before <%s>: unexpected end element </%s>", element, name)
			}
			open = open[:len(open)-1]
			rootClosed = len(open) == 0
			continue
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if rootClosed {
			return Result{}, fmt.Errorf("failed to parse XML before <%s>: element <%s> after the root element", element, qualifiedName(start.Name))
		}
		if qualifiedName(start.Name) != element {
			open = append(open, qualifiedName(start.Name))
			continue
		}

		for _, a := range start.Attr {
			if qualifiedName(a.Name) != attr {
				continue
			}
			if a.Value == "" {
				break
			}
			return Result{Outcome: FoundWithValue, Value: a.Value}, nil
		}
		return Result{Outcome: FoundWithoutValue}, nil
	}
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// charsetReader decodes documents declaring a non UTF-8 encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	// UTF-16 input has already been converted by the BOM override.
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}
