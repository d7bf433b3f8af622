package flagvalidator_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/internal/pkg/cli/flagvalidator"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
)

func command(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "launch"}
	cmd.Flags().String("python", "", "")
	cmd.Flags().String("image", "", "")
	cmd.Flags().String("script", "", "")
	Expect(cmd.Flags().Parse(args)).To(Succeed())

	return cmd
}

func validator(rt types.RuntimeType, scriptCheck flagvalidator.ValidateFunc) *flagvalidator.FlagValidator {
	return flagvalidator.NewFlagValidatorBuilder(rt).
		AddVenvFlag("python", nil).
		AddPodmanFlag("image", nil).
		AddCommonFlag("script", scriptCheck).
		Build()
}

var _ = Describe("FlagValidator", func() {
	It("ignores flags that were not set", func() {
		Expect(validator(types.RuntimeTypePodman, nil).Validate(command())).To(Succeed())
	})

	It("accepts flags scoped to the selected provisioner", func() {
		Expect(validator(types.RuntimeTypeVenv, nil).Validate(command("--python", "python3.12"))).To(Succeed())
		Expect(validator(types.RuntimeTypePodman, nil).Validate(command("--image", "python:3.11"))).To(Succeed())
	})

	It("rejects flags of another provisioner", func() {
		err := validator(types.RuntimeTypePodman, nil).Validate(command("--python", "python3"))
		Expect(err).To(MatchError(ContainSubstring("'--python' is only supported by the venv provisioner")))
	})

	It("reports every problem at once", func() {
		fail := func(*cobra.Command) error { return errors.New("not allowed") }
		err := validator(types.RuntimeTypeVenv, fail).Validate(command("--image", "x", "--script", "run.py"))
		Expect(err).To(MatchError(ContainSubstring("'--image'")))
		Expect(err).To(MatchError(ContainSubstring("flag --script: not allowed")))
	})

	It("rejects an unknown provisioner", func() {
		err := validator(types.RuntimeType("docker"), nil).Validate(command("--image", "x"))
		Expect(err).To(MatchError(ContainSubstring("unknown provisioner: docker")))
	})
})
