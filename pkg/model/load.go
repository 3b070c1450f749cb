package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCollection reads a YAML encoded document collection from path.
func LoadCollection(path string) (*DocumentCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file %q: %w", path, err)
	}
	return DecodeCollection(data, path)
}

// DecodeCollection parses a YAML document collection.
// Documents without a file name are named after source.
//
// The accepted layout is:
//
//	documents:
//	  - file: guide.md
//	    sections:
//	      - level: 1
//	        header: ["Getting started"]
//	        paragraphs:
//	          - sentences:
//	              - "Install the tool."
//	              - {content: "Run it.", line: 4}
//	        lists:
//	          - elements:
//	              - sentences: ["First item."]
func DecodeCollection(data []byte, source string) (*DocumentCollection, error) {
	var collection DocumentCollection
	if err := yaml.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse document file %q: %w", source, err)
	}
	for i, doc := range collection.Documents {
		if doc == nil {
			return nil, fmt.Errorf("document file %q: documents[%d] is empty", source, i)
		}
		if path := findEmpty(doc, fmt.Sprintf("documents[%d]", i)); path != "" {
			return nil, fmt.Errorf("document file %q: %s is empty", source, path)
		}
		if doc.FileName == "" {
			doc.FileName = source
		}
	}
	return &collection, nil
}

// findEmpty returns the path of the first null node below doc, or "".
func findEmpty(doc *Document, prefix string) string {
	for i, section := range doc.Sections {
		at := fmt.Sprintf("%s.sections[%d]", prefix, i)
		if section == nil {
			return at
		}
		if path := emptySentence(section.HeaderContents, at+".header"); path != "" {
			return path
		}
		for j, paragraph := range section.Paragraphs {
			pat := fmt.Sprintf("%s.paragraphs[%d]", at, j)
			if paragraph == nil {
				return pat
			}
			if path := emptySentence(paragraph.Sentences, pat+".sentences"); path != "" {
				return path
			}
		}
		for j, block := range section.ListBlocks {
			bat := fmt.Sprintf("%s.lists[%d]", at, j)
			if block == nil {
				return bat
			}
			for k, element := range block.Elements {
				eat := fmt.Sprintf("%s.elements[%d]", bat, k)
				if element == nil {
					return eat
				}
				if path := emptySentence(element.Sentences, eat+".sentences"); path != "" {
					return path
				}
			}
		}
	}
	return ""
}

func emptySentence(sentences []*Sentence, prefix string) string {
	for i, sentence := range sentences {
		if sentence == nil {
			return fmt.Sprintf("%s[%d]", prefix, i)
		}
	}
	return ""
}

// UnmarshalYAML accepts either a mapping or a plain scalar.
// A scalar sentence takes its line number from the YAML node.
func (s *Sentence) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Content = node.Value
		s.LineNumber = node.Line
		return nil
	}
	type plain Sentence
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*s = Sentence(decoded)
	if s.LineNumber == 0 {
		s.LineNumber = node.Line
	}
	return nil
}
