// Package validation defines the validator contract shared by native and
// script validators: the granularity a validator operates on, the optional
// pre-processing capability, the findings validators produce and the
// registry that turns configuration into three ordered validator buckets.
//
// # Granularity
//
// Every validator is bound to exactly one granularity (document, section or
// sentence) when it is registered. The granularity is declared by the
// validator factory or by the validator itself through GranularityDeclarer;
// it is never guessed from the validator's name. A validator whose
// granularity cannot be resolved is a fatal RegistrationError.
//
// # Findings
//
// Validators report rule violations as *ValidationError values built with an
// ErrorFactory. A finding is data, not a failure: validators never signal a
// rule violation through Go errors.
package validation
