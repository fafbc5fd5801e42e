package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

type Validator func(Input) error

func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if strings.TrimSpace(get(in)) == "" {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}

// Spec declares a prompt. System and User are text/template sources
// rendered against Input.
type Spec struct {
	Name       PromptName
	Version    int
	SchemaName string
	Schema     func() map[string]any
	System     string
	User       string
	Validators []Validator
}

type compiled struct {
	spec   Spec
	system *template.Template
	user   *template.Template
}

func compile(s Spec) (compiled, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return compiled{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return compiled{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if strings.TrimSpace(s.SchemaName) == "" || s.Schema == nil {
		return compiled{}, fmt.Errorf("missing schema for %s", s.Name)
	}
	sysT, err := template.New("system").Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return compiled{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT, err := template.New("user").Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return compiled{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	return compiled{spec: s, system: sysT, user: userT}, nil
}

func (c compiled) render(in Input) (Prompt, error) {
	for _, v := range c.spec.Validators {
		if err := v(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", c.spec.Name, err)
		}
	}
	var sys, user bytes.Buffer
	if err := c.system.Execute(&sys, in); err != nil {
		return Prompt{}, fmt.Errorf("%s system render: %w", c.spec.Name, err)
	}
	if err := c.user.Execute(&user, in); err != nil {
		return Prompt{}, fmt.Errorf("%s user render: %w", c.spec.Name, err)
	}
	return Prompt{
		Name:       string(c.spec.Name),
		Version:    c.spec.Version,
		SchemaName: c.spec.SchemaName,
		Schema:     c.spec.Schema(),
		System:     strings.TrimSpace(sys.String()),
		User:       strings.TrimSpace(user.String()),
	}, nil
}

var registry = map[PromptName]compiled{}

// RegisterSpec compiles s and panics on a malformed declaration.
func RegisterSpec(s Spec) {
	c, err := compile(s)
	if err != nil {
		panic(err)
	}
	registry[s.Name] = c
}

// Build renders the named prompt.
func Build(name PromptName, in Input) (Prompt, error) {
	c, ok := registry[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", name)
	}
	return c.render(in)
}

func init() {
	RegisterSpec(visionSpec)
	RegisterSpec(narrativeSpec)
}
