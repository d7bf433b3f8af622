package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/spinner"
	"github.com/project-ambr/ambr/internal/pkg/validators"
	"github.com/project-ambr/ambr/internal/pkg/validators/interpreter"
)

// Validate runs the rules in order. A failing interpreter rule stops at once
// with KindRuntimeMissing; other error-level failures are collected and
// reported together as KindPrecheck. The interpreter rule cannot be skipped.
func Validate(ctx context.Context, rules []validators.Rule, skip map[string]bool) error {
	var validationErrors []error

	for _, rule := range rules {
		ruleName := rule.Name()
		if skip[ruleName] {
			if ruleName == interpreter.Name {
				logger.Warningf("%s check cannot be skipped\n", ruleName)
			} else {
				logger.Warningf("%s check skipped; proceeding without validation may cause later steps to fail.\n", ruleName)

				continue
			}
		}

		s := spinner.New("Validating " + ruleName + " ...")
		s.Start(ctx)
		err := rule.Verify()

		if err == nil {
			s.Stop(rule.Message())

			continue
		}

		// nothing else is worth checking without a runtime
		if ruleName == interpreter.Name {
			s.StopWithHint(err.Error(), rule.Hint())

			return &LaunchError{Kind: KindRuntimeMissing, Code: constants.ExitFailure, Err: err}
		}

		switch rule.Level() {
		case constants.ValidationLevelError:
			s.StopWithHint(err.Error(), rule.Hint())
			validationErrors = append(validationErrors, fmt.Errorf("%s: %w", ruleName, err))
		case constants.ValidationLevelWarning:
			s.Stop("Warning: " + err.Error())
		}
	}

	if len(validationErrors) > 0 {
		return &LaunchError{
			Kind: KindPrecheck,
			Code: constants.ExitFailure,
			Err:  fmt.Errorf("%d validation check(s) failed: %w", len(validationErrors), errors.Join(validationErrors...)),
		}
	}

	logger.Infoln("All validations passed")

	return nil
}
