package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// reportError surfaces a command failure as notifications. Validator errors
// are translated into one message per offending field instead of the raw
// key/tag dump.
func (cli *commandLine) reportError(err error) {
	switch origErr := core.TranslateError(errors.Cause(err)).(type) {
	case *core.ValidationError:
		if len(origErr.Fields) == 0 {
			cli.notifier.Error(origErr.Error())
			return
		}
		for _, fErr := range origErr.Fields {
			cli.notifier.Error(fErr.Field + ": " + fErr.Error)
		}
	default:
		cli.notifier.Error(err.Error())
	}
}
