package model

import "strings"

// LineOffset points at a character inside the source document.
// Line is 1-indexed, Offset is the 0-indexed rune offset within the line.
type LineOffset struct {
	Line   int `yaml:"line" json:"line"`
	Offset int `yaml:"offset" json:"offset"`
}

// Token is a single unit produced by a tokenizer.
type Token struct {
	// Surface is the token text as it appears in the sentence
	Surface string

	// Tags carries tokenizer specific information (part of speech, reading)
	Tags []string

	// Offset is the rune offset of the token within the sentence content
	Offset int
}

// Sentence is the smallest unit validated by the pipeline.
type Sentence struct {
	// Content is the sentence text
	Content string `yaml:"content"`

	// LineNumber is the source line the sentence starts on
	LineNumber int `yaml:"line"`

	// StartOffset is the offset of the first character within LineNumber
	StartOffset int `yaml:"offset"`

	// Tokens is filled by pre-processors that tokenize the sentence
	Tokens []Token `yaml:"-"`

	annotations map[string]any
}

// NewSentence creates a sentence starting at the beginning of the given line.
func NewSentence(content string, line int) *Sentence {
	return &Sentence{Content: content, LineNumber: line}
}

// Annotate stores derived state on the sentence.
// Pre-processors use it to hand data to the validation pass.
func (s *Sentence) Annotate(key string, value any) {
	if s.annotations == nil {
		s.annotations = make(map[string]any)
	}
	s.annotations[key] = value
}

// Annotation returns a value stored with Annotate.
func (s *Sentence) Annotation(key string) (any, bool) {
	v, ok := s.annotations[key]
	return v, ok
}

// Position returns the location of a rune offset inside the sentence.
func (s *Sentence) Position(offset int) LineOffset {
	return LineOffset{Line: s.LineNumber, Offset: s.StartOffset + offset}
}

// Paragraph is an ordered run of sentences.
type Paragraph struct {
	Sentences []*Sentence `yaml:"sentences"`
}

// ListElement is one item of a list block.
type ListElement struct {
	Level     int         `yaml:"level"`
	Sentences []*Sentence `yaml:"sentences"`
}

// ListBlock is an ordered list of elements.
type ListBlock struct {
	Elements []*ListElement `yaml:"elements"`
}

// Section is a headed part of a document.
type Section struct {
	Level          int          `yaml:"level"`
	HeaderContents []*Sentence  `yaml:"header"`
	Paragraphs     []*Paragraph `yaml:"paragraphs"`
	ListBlocks     []*ListBlock `yaml:"lists"`
}

// HeaderText joins the header sentences into a single string.
func (s *Section) HeaderText() string {
	parts := make([]string, 0, len(s.HeaderContents))
	for _, sentence := range s.HeaderContents {
		parts = append(parts, sentence.Content)
	}
	return strings.Join(parts, " ")
}

// EachSentenceGroup calls fn for every group of sentences in the section:
// the header contents first, then each paragraph, then each list element.
// Empty groups are skipped.
func (s *Section) EachSentenceGroup(fn func(sentences []*Sentence)) {
	if len(s.HeaderContents) > 0 {
		fn(s.HeaderContents)
	}
	for _, paragraph := range s.Paragraphs {
		if len(paragraph.Sentences) > 0 {
			fn(paragraph.Sentences)
		}
	}
	for _, block := range s.ListBlocks {
		for _, element := range block.Elements {
			if len(element.Sentences) > 0 {
				fn(element.Sentences)
			}
		}
	}
}

// Sentences returns every sentence of the section in traversal order.
func (s *Section) Sentences() []*Sentence {
	var all []*Sentence
	s.EachSentenceGroup(func(sentences []*Sentence) {
		all = append(all, sentences...)
	})
	return all
}

// Document is a single input file.
type Document struct {
	FileName string     `yaml:"file"`
	Sections []*Section `yaml:"sections"`
}

// DocumentCollection is the ordered set of documents validated in one run.
type DocumentCollection struct {
	Documents []*Document `yaml:"documents"`
}

// NewDocumentCollection creates a collection from the given documents.
func NewDocumentCollection(docs ...*Document) *DocumentCollection {
	return &DocumentCollection{Documents: docs}
}

// Len returns the number of documents.
func (c *DocumentCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Documents)
}
