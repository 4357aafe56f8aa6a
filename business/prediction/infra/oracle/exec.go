package oracle

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fd1az/flashloan-bot/business/prediction/app"
	"github.com/fd1az/flashloan-bot/business/prediction/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
)

var _ app.Oracle = (*Exec)(nil)

// Exec runs an external predictor, passing the four features as trailing
// arguments and parsing a single number from stdout.
type Exec struct {
	command []string
}

// NewExec creates an exec oracle. command is the program and its leading
// arguments, e.g. ["python3", "ai/predictor.py"].
func NewExec(command []string) (*Exec, error) {
	if len(command) == 0 {
		return nil, apperror.Config("oracle.command is empty")
	}
	return &Exec{command: command}, nil
}

func (e *Exec) Name() string { return "exec" }

func (e *Exec) Predict(ctx context.Context, f domain.FeatureVector) (float64, error) {
	args := append(append([]string{}, e.command[1:]...), f.Args()...)

	out, err := exec.CommandContext(ctx, e.command[0], args...).Output()
	if err != nil {
		return 0, apperror.New(apperror.CodePredictionFailed,
			apperror.WithCause(err),
			apperror.WithContext(e.command[0]))
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, apperror.New(apperror.CodePredictionFailed,
			apperror.WithCause(err),
			apperror.WithContext("non-numeric predictor output"))
	}
	return v, nil
}
