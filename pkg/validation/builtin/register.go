package builtin

import (
	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/validation"
)

// Factories returns the factories of every built-in validator.
func Factories() []validation.Factory {
	return []validation.Factory{
		{
			Name:        SentenceLengthName,
			Granularity: validation.GranularitySentence,
			New: func(cfg config.ValidatorConfig, env *validation.Environment) (validation.Validator, error) {
				return NewSentenceLength(cfg, env.Messages)
			},
		},
		{
			Name:        TerminalPunctuationName,
			Granularity: validation.GranularitySentence,
			New: func(cfg config.ValidatorConfig, env *validation.Environment) (validation.Validator, error) {
				return NewTerminalPunctuation(cfg, env.Messages), nil
			},
		},
		{
			Name:        DoubledWordName,
			Granularity: validation.GranularitySentence,
			New: func(cfg config.ValidatorConfig, env *validation.Environment) (validation.Validator, error) {
				return NewDoubledWord(env.Messages), nil
			},
		},
		{
			Name:        SectionLengthName,
			Granularity: validation.GranularitySection,
			New: func(cfg config.ValidatorConfig, env *validation.Environment) (validation.Validator, error) {
				return NewSectionLength(cfg, env.Messages)
			},
		},
		{
			Name:        DuplicateSectionName,
			Granularity: validation.GranularityDocument,
			New: func(cfg config.ValidatorConfig, env *validation.Environment) (validation.Validator, error) {
				return NewDuplicateSection(env.Messages), nil
			},
		},
	}
}

// Register adds every built-in validator to reg.
func Register(reg *validation.Registry) error {
	for _, f := range Factories() {
		if err := reg.Register(f); err != nil {
			return err
		}
	}
	return nil
}
