package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"scribe-hq/proofread/pkg/config"
)

// Environment carries the collaborators handed to validator factories.
type Environment struct {
	// Logger is the base logger; nil means slog.Default()
	Logger *slog.Logger

	// Messages resolves localized message templates
	Messages MessageResolver
}

// Factory creates validators of one type.
type Factory struct {
	// Name is the type name used in configuration (e.g., "SentenceLength")
	Name string

	// Granularity is the declared granularity of the created validators.
	// GranularityUnknown defers to the validator (see ResolveGranularity).
	Granularity Granularity

	// New creates a validator from its configuration entry
	New func(cfg config.ValidatorConfig, env *Environment) (Validator, error)
}

// Buckets holds the active validators partitioned by granularity.
// Configuration order is preserved inside each bucket.
type Buckets struct {
	Document []DocumentValidator
	Section  []SectionValidator
	Sentence []SentenceValidator
}

// Add places v in the bucket for g. v must implement the matching interface.
func (b *Buckets) Add(v Validator, g Granularity) error {
	switch g {
	case GranularityDocument:
		if dv, ok := v.(DocumentValidator); ok {
			b.Document = append(b.Document, dv)
			return nil
		}
	case GranularitySection:
		if sv, ok := v.(SectionValidator); ok {
			b.Section = append(b.Section, sv)
			return nil
		}
	case GranularitySentence:
		if sv, ok := v.(SentenceValidator); ok {
			b.Sentence = append(b.Sentence, sv)
			return nil
		}
	}
	return &RegistrationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("cannot be added to the %s bucket", g),
	}
}

// Len returns the total number of validators.
func (b *Buckets) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Document) + len(b.Section) + len(b.Sentence)
}

// Registry maps validator type names to factories. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory. Names are unique.
func (r *Registry) Register(f Factory) error {
	if f.Name == "" {
		return &RegistrationError{Message: "factory name cannot be empty"}
	}
	if f.New == nil {
		return &RegistrationError{Validator: f.Name, Message: "factory has no constructor"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[f.Name]; exists {
		return &RegistrationError{Validator: f.Name, Message: "is already registered"}
	}
	r.factories[f.Name] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates every configured validator and partitions the result
// into buckets. Any failure is returned as a *RegistrationError and no
// buckets are produced.
func (r *Registry) Build(cfg *config.Config, env *Environment) (*Buckets, error) {
	if cfg == nil {
		return nil, &RegistrationError{Message: "configuration is nil"}
	}
	if env == nil {
		env = &Environment{}
	}
	if env.Logger == nil {
		env.Logger = slog.Default()
	}

	buckets := &Buckets{}
	for i, vc := range cfg.Validators {
		f, ok := r.Lookup(vc.Name)
		if !ok {
			return nil, &RegistrationError{
				Validator: vc.Name,
				Message:   fmt.Sprintf("is not a known validator type (validators[%d]; known: %s)", i, strings.Join(r.Names(), ", ")),
			}
		}

		v, err := f.New(vc, env)
		if err != nil {
			return nil, asRegistrationError(vc.Name, err)
		}
		if v == nil {
			return nil, &RegistrationError{Validator: vc.Name, Message: "factory returned no validator"}
		}

		if exp, ok := v.(Expander); ok {
			for _, sub := range exp.Validators() {
				if err := place(buckets, sub, GranularityUnknown); err != nil {
					return nil, err
				}
			}
			continue
		}
		declared, err := configuredGranularity(vc, f.Granularity)
		if err != nil {
			return nil, err
		}
		if err := place(buckets, v, declared); err != nil {
			return nil, err
		}
	}

	env.Logger.Debug("validators built",
		"component", "validation",
		"document", len(buckets.Document),
		"section", len(buckets.Section),
		"sentence", len(buckets.Sentence),
	)
	return buckets, nil
}

// configuredGranularity applies the optional granularity property of vc.
// It can pick a bucket for a validator with several capabilities but never
// contradict the granularity its factory declares.
func configuredGranularity(vc config.ValidatorConfig, declared Granularity) (Granularity, error) {
	raw := vc.StringProperty(GranularityProperty, "")
	if raw == "" {
		return declared, nil
	}
	g, err := ParseGranularity(raw)
	if err != nil {
		return GranularityUnknown, &RegistrationError{Validator: vc.Name, Message: "invalid granularity property", Cause: err}
	}
	if declared != GranularityUnknown && g != declared {
		return GranularityUnknown, &RegistrationError{
			Validator: vc.Name,
			Message:   fmt.Sprintf("granularity property %s conflicts with the declared %s granularity", g, declared),
		}
	}
	return g, nil
}

func place(b *Buckets, v Validator, declared Granularity) error {
	g, err := ResolveGranularity(v, declared)
	if err != nil {
		return err
	}
	return b.Add(v, g)
}

func asRegistrationError(name string, err error) error {
	var re *RegistrationError
	if errors.As(err, &re) {
		return re
	}
	return &RegistrationError{Validator: name, Message: "could not be created", Cause: err}
}

func joinArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, " ")
}
