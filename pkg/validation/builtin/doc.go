// Package builtin contains the native validators shipped with proofread.
//
// Each validator is registered under its type name with Register:
//
//   - SentenceLength (sentence): sentences longer than max_len runes (default 120)
//   - TerminalPunctuation (sentence): sentences not ending with one of marks
//   - DoubledWord (sentence, pre-processing): the same word twice in a row
//   - SectionLength (section): sections with more than max_num words (default 1000)
//   - DuplicateSection (document): repeated section headers
package builtin
