package flagvalidator

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
)

// FlagScope names the provisioner a flag applies to.
type FlagScope string

const (
	// FlagScopeCommon flags are valid for every provisioner.
	FlagScopeCommon FlagScope = "common"
	FlagScopeVenv   FlagScope = FlagScope(types.RuntimeTypeVenv)
	FlagScopePodman FlagScope = FlagScope(types.RuntimeTypePodman)
)

// FlagDefinition defines a flag with its scope and validation function.
type FlagDefinition struct {
	// Name is the flag name (without dashes).
	Name  string
	Scope FlagScope
	// ValidateFunc is optional; nil means only the scope is checked.
	ValidateFunc func(cmd *cobra.Command) error
}

// FlagValidator validates the flags a user set against the selected
// provisioner and their custom rules.
type FlagValidator struct {
	runtimeType types.RuntimeType
	flags       []FlagDefinition
}

func NewFlagValidator(runtimeType types.RuntimeType) *FlagValidator {
	return &FlagValidator{
		runtimeType: runtimeType,
		flags:       []FlagDefinition{},
	}
}

func (v *FlagValidator) RegisterFlag(flag FlagDefinition) {
	v.flags = append(v.flags, flag)
}

// Validate checks every registered flag that was set on cmd. All problems are
// reported together.
func (v *FlagValidator) Validate(cmd *cobra.Command) error {
	var errors []string

	for _, flag := range v.flags {
		if !cmd.Flags().Changed(flag.Name) {
			continue
		}

		if err := v.validateScope(flag); err != nil {
			errors = append(errors, err.Error())

			continue
		}

		if flag.ValidateFunc != nil {
			if err := flag.ValidateFunc(cmd); err != nil {
				errors = append(errors, fmt.Sprintf("flag --%s: %v", flag.Name, err))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("flag validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func (v *FlagValidator) validateScope(flag FlagDefinition) error {
	if flag.Scope == FlagScopeCommon {
		return nil
	}

	if !v.runtimeType.Valid() {
		return fmt.Errorf("unknown provisioner: %s", v.runtimeType)
	}

	if string(flag.Scope) != v.runtimeType.String() {
		return fmt.Errorf(
			"flag '--%s' is only supported by the %s provisioner (current provisioner: %s)\nUse --provisioner to select it or -h for more info",
			flag.Name,
			flag.Scope,
			v.runtimeType,
		)
	}

	return nil
}

// ValidateFunc is a helper type for creating validation functions.
type ValidateFunc func(cmd *cobra.Command) error

// FlagValidatorBuilder builds a FlagValidator fluently.
type FlagValidatorBuilder struct {
	validator *FlagValidator
}

func NewFlagValidatorBuilder(runtimeType types.RuntimeType) *FlagValidatorBuilder {
	return &FlagValidatorBuilder{
		validator: NewFlagValidator(runtimeType),
	}
}

func (b *FlagValidatorBuilder) AddCommonFlag(name string, validateFunc ValidateFunc) *FlagValidatorBuilder {
	return b.add(name, FlagScopeCommon, validateFunc)
}

func (b *FlagValidatorBuilder) AddVenvFlag(name string, validateFunc ValidateFunc) *FlagValidatorBuilder {
	return b.add(name, FlagScopeVenv, validateFunc)
}

func (b *FlagValidatorBuilder) AddPodmanFlag(name string, validateFunc ValidateFunc) *FlagValidatorBuilder {
	return b.add(name, FlagScopePodman, validateFunc)
}

func (b *FlagValidatorBuilder) add(name string, scope FlagScope, validateFunc ValidateFunc) *FlagValidatorBuilder {
	b.validator.RegisterFlag(FlagDefinition{
		Name:         name,
		Scope:        scope,
		ValidateFunc: validateFunc,
	})

	return b
}

func (b *FlagValidatorBuilder) Build() *FlagValidator {
	return b.validator
}
