package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"scribe-hq/proofread/pkg/model"
)

// terminators end a sentence.
const terminators = ".?!。？！"

// ParseFile reads a plain text file and builds a document from it.
func ParseFile(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()
	return Parse(path, f)
}

// Parse builds a document from lightly structured plain text.
//
// Lines starting with '#' open a new section whose header is the rest of the
// line. Blank lines end a paragraph. Lines starting with "- " or "* " are list
// elements; consecutive elements form one list block.
func Parse(name string, r io.Reader) (*model.Document, error) {
	doc := &model.Document{FileName: name}
	b := &builder{doc: doc}
	b.openSection(0, nil)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			b.endParagraph()
			b.endList()

		case strings.HasPrefix(trimmed, "#"):
			b.endParagraph()
			b.endList()
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			header := strings.TrimSpace(trimmed[level:])
			b.openSection(level, splitSentences(header, lineNum, indexOf(line, header)))

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			b.endParagraph()
			text := strings.TrimSpace(trimmed[2:])
			indent := len(line) - len(strings.TrimLeft(line, " \t"))
			b.addListElement(indent/2+1, splitSentences(text, lineNum, indexOf(line, text)))

		default:
			b.endList()
			b.addParagraphLine(line, lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}
	b.endParagraph()
	return doc, nil
}

type builder struct {
	doc       *model.Document
	section   *model.Section
	paragraph *model.Paragraph
	list      *model.ListBlock

	// pending holds text of an unfinished sentence spanning lines
	pending      strings.Builder
	pendingLine  int
	pendingStart int
}

func (b *builder) openSection(level int, header []*model.Sentence) {
	b.section = &model.Section{Level: level, HeaderContents: header}
	b.doc.Sections = append(b.doc.Sections, b.section)
}

func (b *builder) addListElement(level int, sentences []*model.Sentence) {
	if b.list == nil {
		b.list = &model.ListBlock{}
		b.section.ListBlocks = append(b.section.ListBlocks, b.list)
	}
	b.list.Elements = append(b.list.Elements, &model.ListElement{Level: level, Sentences: sentences})
}

func (b *builder) endList() {
	b.list = nil
}

func (b *builder) addParagraphLine(line string, lineNum int) {
	if b.paragraph == nil {
		b.paragraph = &model.Paragraph{}
		b.section.Paragraphs = append(b.section.Paragraphs, b.paragraph)
	}

	offset := 0
	for _, r := range line {
		if b.pending.Len() == 0 {
			if r == ' ' || r == '\t' {
				offset++
				continue
			}
			b.pendingLine = lineNum
			b.pendingStart = offset
		}
		b.pending.WriteRune(r)
		offset++
		if strings.ContainsRune(terminators, r) {
			b.flushSentence()
		}
	}
	if b.pending.Len() > 0 {
		b.pending.WriteRune(' ')
	}
}

func (b *builder) flushSentence() {
	content := strings.TrimSpace(b.pending.String())
	b.pending.Reset()
	if content == "" || b.paragraph == nil {
		return
	}
	b.paragraph.Sentences = append(b.paragraph.Sentences, &model.Sentence{
		Content:     content,
		LineNumber:  b.pendingLine,
		StartOffset: b.pendingStart,
	})
}

func (b *builder) endParagraph() {
	b.flushSentence()
	b.paragraph = nil
}

// splitSentences splits single-line text after each terminator.
func splitSentences(text string, lineNum, start int) []*model.Sentence {
	var sentences []*model.Sentence
	var current strings.Builder
	begin := -1
	offset := start
	for _, r := range text {
		if begin < 0 && r != ' ' {
			begin = offset
		}
		if begin >= 0 {
			current.WriteRune(r)
		}
		offset++
		if strings.ContainsRune(terminators, r) && begin >= 0 {
			sentences = append(sentences, &model.Sentence{Content: current.String(), LineNumber: lineNum, StartOffset: begin})
			current.Reset()
			begin = -1
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		sentences = append(sentences, &model.Sentence{Content: rest, LineNumber: lineNum, StartOffset: begin})
	}
	return sentences
}

// indexOf returns the rune offset of sub inside line.
func indexOf(line, sub string) int {
	i := strings.Index(line, sub)
	if i < 0 {
		return 0
	}
	return utf8.RuneCountInString(line[:i])
}
