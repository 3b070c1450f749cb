package builtin

import (
	"strings"
	"unicode"

	"scribe-hq/proofread/pkg/model"
)

// tokensAnnotation is the sentence annotation set once a sentence is tokenized.
const tokensAnnotation = "builtin.tokenized"

// Tokenize splits content into word tokens. Punctuation and spaces separate
// words and are not returned. Offsets are rune offsets.
func Tokenize(content string) []model.Token {
	var tokens []model.Token
	var word []rune
	start := 0

	flush := func() {
		if len(word) > 0 {
			tokens = append(tokens, model.Token{Surface: string(word), Offset: start})
			word = word[:0]
		}
	}

	i := 0
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-' {
			if len(word) == 0 {
				start = i
			}
			word = append(word, r)
		} else {
			flush()
		}
		i++
	}
	flush()
	return tokens
}

// tokensOf returns the tokens of sentence, tokenizing it on first use.
func tokensOf(sentence *model.Sentence) []model.Token {
	if _, ok := sentence.Annotation(tokensAnnotation); !ok {
		sentence.Tokens = Tokenize(sentence.Content)
		sentence.Annotate(tokensAnnotation, true)
	}
	return sentence.Tokens
}

func sameWord(a, b string) bool {
	return strings.EqualFold(a, b)
}
