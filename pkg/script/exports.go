package script

import (
	"reflect"

	"scribe-hq/proofread/pkg/model"
)

// RuleImportPath is the import path plugins use for host types.
const RuleImportPath = "proofread/rule"

// Symbols exports the host types visible to plugins under RuleImportPath.
var Symbols = map[string]map[string]reflect.Value{
	RuleImportPath + "/rule": {
		"Document":    reflect.ValueOf((*model.Document)(nil)),
		"Section":     reflect.ValueOf((*model.Section)(nil)),
		"Paragraph":   reflect.ValueOf((*model.Paragraph)(nil)),
		"ListBlock":   reflect.ValueOf((*model.ListBlock)(nil)),
		"ListElement": reflect.ValueOf((*model.ListElement)(nil)),
		"Sentence":    reflect.ValueOf((*model.Sentence)(nil)),
		"Token":       reflect.ValueOf((*model.Token)(nil)),
		"LineOffset":  reflect.ValueOf((*model.LineOffset)(nil)),
		"Errors":      reflect.ValueOf((*Errors)(nil)),
	},
}
