// Package script hosts rule plugins written as Go source files and
// interpreted at load time with yaegi.
//
// # Plugin Files
//
// A plugin is one file with the ".go" suffix in the plugin directory
// (default "rules"). The file base name, suffix included, is the plugin
// name. A plugin is a main package that may define a message template and
// any of five hook functions:
//
//	package main
//
//	import (
//		"strings"
//
//		"proofread/rule"
//	)
//
//	var message = "avoid the word {0}"
//
//	func preValidateSentence(s *rule.Sentence)                      {}
//	func preValidateSection(s *rule.Section)                        {}
//	func validateDocument(errs *rule.Errors, d *rule.Document)      {}
//	func validateSection(errs *rule.Errors, s *rule.Section)        {}
//	func validateSentence(errs *rule.Errors, s *rule.Sentence) {
//		if strings.Contains(s.Content, "very") {
//			errs.Add(s, "very")
//		}
//	}
//
// Hooks may also return an error; a returned error or a panic is reported as
// a RuntimeError, logged, and does not stop validation.
//
// # Caching
//
// FileCache keeps the text of every plugin file keyed by absolute path and
// modification time, so reloading an unchanged directory does not read the
// files again. Plugin remembers, per hook name, whether the hook is defined,
// so probing for an undefined hook costs one lookup per plugin.
package script
