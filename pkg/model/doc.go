// Package model defines the document tree validated by proofread.
//
// A DocumentCollection holds Documents, each made of Sections. A Section has
// header sentences, Paragraphs and ListBlocks of ListElements; all of them are
// ordered runs of Sentences. Parsers build the tree, validators only read it,
// and pre-processors may attach derived state (tokens, annotations) to
// individual sentences.
//
// Section.EachSentenceGroup defines the canonical traversal order used by the
// validation pipeline: header contents, paragraphs, then list elements.
package model
