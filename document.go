package gemini

import "strings"

// HeadingLevel is the depth of a Document heading (1-3).
type HeadingLevel int

const (
	Heading1 HeadingLevel = 1
	Heading2 HeadingLevel = 2
	Heading3 HeadingLevel = 3
)

// Document is an ordered sequence of text/gemini items. Every Add* method
// normalizes its input at insertion time so that the serialized output can
// never be misparsed by a conforming client, and returns the Document by
// reference so calls can be chained in the builder-pattern style.
//
// Example:
//
//	doc := gemini.NewDocument()
//	doc.AddHeading(gemini.Heading1, "Hello world!").
//	    AddText("Reasons to use this builder:").
//	    AddUnorderedListItem("It's easy to use.").
//	    AddLink("/about", "click here for more!")
type Document struct {
	items []string
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{}
}

const (
	linkStart         = "=>"
	preformattedStart = "```"
	headingStart      = "#"
	listItemStart     = "*"
	quoteStart        = ">"
)

var specialStarts = []string{linkStart, preformattedStart, headingStart, listItemStart, quoteStart}

// AddBlankLine appends a blank line.
func (d *Document) AddBlankLine() *Document {
	d.items = append(d.items, "\n")
	return d
}

// AddText appends text, split into independent lines on '\n'. Any line
// that starts with a reserved prefix (=>, ```, #, *, >) is given a single
// leading space so it cannot be misparsed as that construct.
func (d *Document) AddText(text string) *Document {
	for _, line := range splitLines(text) {
		d.items = append(d.items, escapeLine(line, specialStarts)+"\n")
	}
	return d
}

// AddLink appends a link. If label is non-empty, embedded newlines are
// joined with a single space. If uri fails to parse as a URI reference, it
// is replaced with ".".
func (d *Document) AddLink(uri, label string) *Document {
	return d.addLink(uri, &label)
}

// AddLinkWithoutLabel appends a link with no label.
func (d *Document) AddLinkWithoutLabel(uri string) *Document {
	return d.addLink(uri, nil)
}

func (d *Document) addLink(uri string, label *string) *Document {
	target := uri
	if _, err := ParseURIReference(uri); err != nil {
		target = "."
	}
	if label == nil {
		d.items = append(d.items, linkStart+" "+target+"\n")
		return d
	}
	joined := stripNewlines(*label)
	if joined == "" {
		d.items = append(d.items, linkStart+" "+target+"\n")
		return d
	}
	d.items = append(d.items, linkStart+" "+target+" "+joined+"\n")
	return d
}

// AddPreformatted appends a preformatted block with no alt text.
func (d *Document) AddPreformatted(text string) *Document {
	return d.AddPreformattedWithAlt("", text)
}

// AddPreformattedWithAlt appends a preformatted block. Each inner line
// starting with the closing fence is given a leading space so the block
// cannot be closed early.
func (d *Document) AddPreformattedWithAlt(alt, text string) *Document {
	var sb strings.Builder
	sb.WriteString(preformattedStart)
	sb.WriteString(stripNewlines(alt))
	sb.WriteByte('\n')
	for _, line := range splitLines(text) {
		sb.WriteString(escapeLine(line, []string{preformattedStart}))
		sb.WriteByte('\n')
	}
	sb.WriteString(preformattedStart)
	sb.WriteByte('\n')
	d.items = append(d.items, sb.String())
	return d
}

// AddHeading appends a heading of the given level.
func (d *Document) AddHeading(level HeadingLevel, text string) *Document {
	marker := strings.Repeat("#", int(level))
	d.items = append(d.items, marker+" "+escapeLine(stripNewlines(text), []string{headingStart})+"\n")
	return d
}

// AddUnorderedListItem appends a bullet list item.
func (d *Document) AddUnorderedListItem(text string) *Document {
	d.items = append(d.items, listItemStart+" "+stripNewlines(text)+"\n")
	return d
}

// AddQuote appends text as one or more quote lines, split on '\n'.
func (d *Document) AddQuote(text string) *Document {
	for _, line := range splitLines(text) {
		d.items = append(d.items, quoteStart+" "+escapeLine(line, []string{quoteStart})+"\n")
	}
	return d
}

// String serializes the Document to its text/gemini wire form.
func (d *Document) String() string {
	var sb strings.Builder
	for _, item := range d.items {
		sb.WriteString(item)
	}
	return sb.String()
}

// Bytes serializes the Document to its text/gemini wire form as bytes.
func (d *Document) Bytes() []byte {
	return []byte(d.String())
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// escapeLine prefixes line with a single space if it begins with one of
// starts, so it cannot be misread as that construct once serialized.
func escapeLine(line string, starts []string) string {
	for _, start := range starts {
		if strings.HasPrefix(line, start) {
			return " " + line
		}
	}
	return line
}

// stripNewlines joins the non-empty lines of text with a single space,
// removing every '\r' and '\n' from the result.
func stripNewlines(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	var parts []string
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\r' || r == '\n' }) {
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
