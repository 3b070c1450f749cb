package script

import (
	"errors"
	"log/slog"

	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/validation"
)

// ValidatorName is the configuration name of the script validator.
const ValidatorName = "Script"

// Validator hosts the plugins of one directory. It expands into one
// validator per plugin and granularity the plugin supports.
type Validator struct {
	plugins []*Plugin
	faces   []validation.Validator
}

// NewValidator wraps plugins. A plugin defining validateDocument becomes a
// document validator, one defining validateSection or preValidateSection a
// section validator, and one defining validateSentence or
// preValidateSentence a sentence validator. The pre-processing capability is
// only present when the matching pre-processing hook is defined.
func NewValidator(plugins []*Plugin, messages validation.MessageResolver, logger *slog.Logger, recorder Recorder) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	v := &Validator{plugins: plugins}
	for _, p := range plugins {
		f := face{
			plugin: p,
			errors: validation.ErrorFactory{
				Name:     p.Name(),
				Messages: pluginMessages{template: p.Message(), fallback: messages},
			},
			logger:   logger.With("component", "script", "plugin", p.Name()),
			recorder: recorder,
		}

		if p.HasHook(HookValidateDocument) {
			v.faces = append(v.faces, &documentFace{face: f})
		}

		switch {
		case p.HasHook(HookPreValidateSection):
			v.faces = append(v.faces, &preprocessingSectionFace{sectionFace{face: f}})
		case p.HasHook(HookValidateSection):
			v.faces = append(v.faces, &sectionFace{face: f})
		}

		switch {
		case p.HasHook(HookPreValidateSentence):
			v.faces = append(v.faces, &preprocessingSentenceFace{sentenceFace{face: f}})
		case p.HasHook(HookValidateSentence):
			v.faces = append(v.faces, &sentenceFace{face: f})
		}
	}
	return v
}

// Name returns ValidatorName.
func (v *Validator) Name() string { return ValidatorName }

// Validators returns the per-plugin validators.
func (v *Validator) Validators() []validation.Validator { return v.faces }

// Plugins returns the hosted plugins.
func (v *Validator) Plugins() []*Plugin { return v.plugins }

// Directory returns the plugin directory of a Script validator entry: its
// script-path property, else fallback, else DefaultDirectory.
func Directory(cfg config.ValidatorConfig, fallback string) string {
	if dir := cfg.StringProperty(PathProperty, fallback); dir != "" {
		return dir
	}
	return DefaultDirectory
}

// Factory returns the validator factory for ValidatorName. directory is used
// when the configuration entry has no script-path property. With strict set,
// any plugin that fails to load aborts registration; otherwise failed plugins
// are logged and skipped.
func Factory(loader *Loader, directory string, strict bool) validation.Factory {
	return validation.Factory{
		Name:        ValidatorName,
		Granularity: validation.GranularityUnknown,
		New: func(cfg config.ValidatorConfig, env *validation.Environment) (validation.Validator, error) {
			dir := Directory(cfg, directory)

			logger := env.Logger
			if logger == nil {
				logger = slog.Default()
			}

			plugins, err := loader.Load(dir)
			if err != nil {
				var list *ErrorList
				if strict || !errors.As(err, &list) {
					return nil, &validation.RegistrationError{
						Validator: ValidatorName,
						Message:   "failed to load plugins from " + dir,
						Cause:     err,
					}
				}
				logger.Warn("some plugins were skipped",
					"component", "script",
					"directory", dir,
					"loaded", len(plugins),
					"failed", len(list.Errors),
				)
			}

			return NewValidator(plugins, env.Messages, logger, loader.recorder), nil
		},
	}
}

type face struct {
	plugin   *Plugin
	errors   validation.ErrorFactory
	logger   *slog.Logger
	recorder Recorder
}

func (f *face) Name() string { return f.plugin.Name() }

// invoke runs hook and contains its failure.
func (f *face) invoke(hook string, args ...any) {
	if err := f.plugin.Invoke(hook, args...); err != nil {
		f.logger.Error("plugin hook failed",
			"hook", hook,
			"path", f.plugin.Path(),
			"error", err,
		)
		f.recorder.RecordHookError(f.plugin.Name(), hook)
	}
}

// collect runs a validation hook and returns what it reported.
func (f *face) collect(hook string, target any) []*validation.ValidationError {
	errs := newErrors(f.errors)
	f.invoke(hook, errs, target)
	return errs.found
}

type documentFace struct{ face }

func (f *documentFace) Granularity() validation.Granularity { return validation.GranularityDocument }

func (f *documentFace) ValidateDocument(doc *model.Document) []*validation.ValidationError {
	return f.collect(HookValidateDocument, doc)
}

type sectionFace struct{ face }

func (f *sectionFace) Granularity() validation.Granularity { return validation.GranularitySection }

func (f *sectionFace) ValidateSection(section *model.Section) []*validation.ValidationError {
	return f.collect(HookValidateSection, section)
}

type preprocessingSectionFace struct{ sectionFace }

func (f *preprocessingSectionFace) PreProcessSection(section *model.Section) {
	f.invoke(HookPreValidateSection, section)
}

type sentenceFace struct{ face }

func (f *sentenceFace) Granularity() validation.Granularity { return validation.GranularitySentence }

func (f *sentenceFace) ValidateSentence(sentence *model.Sentence) []*validation.ValidationError {
	return f.collect(HookValidateSentence, sentence)
}

type preprocessingSentenceFace struct{ sentenceFace }

func (f *preprocessingSentenceFace) PreProcessSentence(sentence *model.Sentence) {
	f.invoke(HookPreValidateSentence, sentence)
}
