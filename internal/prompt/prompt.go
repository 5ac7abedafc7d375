// Package prompt collects an exception request interactively.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// Duration choices offered by the picker.
const (
	ChoiceCustom = "Custom"
	ChoiceManual = "Type domains manually..."
)

// DurationChoices are the preset exception lengths in minutes, plus Custom.
var DurationChoices = []string{"10", "25", "60", ChoiceCustom}

// asker is the minimal question set the flow needs.
type asker interface {
	Input(ctx context.Context, title string, validate func(string) error) (string, error)
	Select(ctx context.Context, title string, options []string) (string, error)
	MultiSelect(ctx context.Context, title string, options []string) ([]string, error)
}

// Prompter implements domain.Prompter.
type Prompter struct {
	ask     asker
	recents domain.RecentsStore
	logger  *zap.Logger
}

// NewPrompter creates a prompter on the terminal. Without a TTY on stdin
// the forms fall back to huh's line-based accessible mode.
func NewPrompter(recents domain.RecentsStore, logger *zap.Logger) *Prompter {
	accessible := !term.IsTerminal(int(os.Stdin.Fd()))
	return &Prompter{
		ask:     &huhAsker{accessible: accessible},
		recents: recents,
		logger:  logger,
	}
}

// Collect asks for reason, duration and target, in that order.
func (p *Prompter) Collect(ctx context.Context) (domain.ExceptionRequest, error) {
	var req domain.ExceptionRequest

	reason, err := p.ask.Input(ctx,
		fmt.Sprintf("Reason (min %d chars):", domain.MinReasonLength),
		domain.ValidateReason)
	if err != nil {
		return req, err
	}
	req.Reason = strings.TrimSpace(reason)

	req.DurationMinutes, err = p.duration(ctx)
	if err != nil {
		return req, err
	}

	req.All, req.Domains, err = p.target(ctx)
	if err != nil {
		return req, err
	}
	return req, nil
}

func (p *Prompter) duration(ctx context.Context) (int, error) {
	choice, err := p.ask.Select(ctx, "Duration (minutes):", DurationChoices)
	if err != nil {
		return 0, err
	}
	if choice != ChoiceCustom {
		return ParseMinutes(choice)
	}

	custom, err := p.ask.Input(ctx,
		fmt.Sprintf("Enter minutes (%d-%d):", domain.MinDuration, domain.MaxDuration),
		func(s string) error {
			_, err := ParseMinutes(s)
			return err
		})
	if err != nil {
		return 0, err
	}
	return ParseMinutes(custom)
}

func (p *Prompter) target(ctx context.Context) (bool, []string, error) {
	answer, err := p.ask.Input(ctx,
		"What to unblock? (ALL or space-separated domains, empty for recents):",
		validateTarget)
	if err != nil {
		return false, nil, err
	}

	all, domains := ParseTarget(answer)
	if all || len(domains) > 0 {
		return all, domains, nil
	}
	return p.fromRecents(ctx)
}

func (p *Prompter) fromRecents(ctx context.Context) (bool, []string, error) {
	recents, err := p.recents.List()
	if err != nil {
		p.logger.Warn("Recents unavailable", zap.Error(err))
		recents = nil
	}
	if len(recents) == 0 {
		return p.manual(ctx, "No recents yet. Enter space-separated domains:")
	}

	options := append([]string{ChoiceManual}, recents...)
	selected, err := p.ask.MultiSelect(ctx, "Select domains (space to toggle, enter to confirm):", options)
	if err != nil {
		return false, nil, err
	}
	if len(selected) == 0 {
		return false, nil, fmt.Errorf("%w: no domains provided", domain.ErrUserCancelled)
	}
	for _, s := range selected {
		if s == ChoiceManual {
			return p.manual(ctx, "Enter space-separated domains:")
		}
	}
	return false, selected, nil
}

func (p *Prompter) manual(ctx context.Context, title string) (bool, []string, error) {
	answer, err := p.ask.Input(ctx, title, validatePatterns)
	if err != nil {
		return false, nil, err
	}
	patterns := strings.Fields(answer)
	if len(patterns) == 0 {
		return false, nil, fmt.Errorf("%w: no domains provided", domain.ErrUserCancelled)
	}
	return false, patterns, nil
}

// ParseMinutes parses a duration answer and checks its bounds.
func ParseMinutes(s string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: enter a valid number", domain.ErrInvalidDuration)
	}
	if err := domain.ValidateDuration(minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

// ParseTarget interprets the "what to unblock" answer. Empty means:
// pick from recents.
func ParseTarget(answer string) (all bool, domains []string) {
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, "all") {
		return true, nil
	}
	return false, strings.Fields(answer)
}

func validateTarget(answer string) error {
	if all, _ := ParseTarget(answer); all {
		return nil
	}
	return validatePatterns(answer)
}

func validatePatterns(answer string) error {
	for _, pattern := range strings.Fields(answer) {
		if err := domain.ValidatePattern(pattern); err != nil {
			return err
		}
	}
	return nil
}

// huhAsker runs one single-field huh form per question.
type huhAsker struct {
	accessible bool
}

func (h *huhAsker) Input(ctx context.Context, title string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().Title(title).Value(&value).Validate(validate)
	if err := h.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (h *huhAsker) Select(ctx context.Context, title string, options []string) (string, error) {
	var value string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&value)
	if err := h.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (h *huhAsker) MultiSelect(ctx context.Context, title string, options []string) ([]string, error) {
	var value []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&value)
	if err := h.run(ctx, field); err != nil {
		return nil, err
	}
	return value, nil
}

func (h *huhAsker) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(h.accessible)
	err := form.RunWithContext(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huh.ErrUserAborted),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrUserCancelled, err)
	default:
		return fmt.Errorf("prompt: %w", err)
	}
}

// Ensure Prompter implements domain.Prompter.
var _ domain.Prompter = (*Prompter)(nil)
