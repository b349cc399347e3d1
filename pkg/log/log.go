// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/bundlepatch/pkg/patch"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent file entries
	nameWidth     = 35 // Base width for filename
	kindWidth     = 10 // Width for rule kind
	outcomeWidth  = 16 // Width for outcome text
	consoleHeader = "bundlepatch"
)

// 🎯 PatchOperation is one rule/file result for display
type PatchOperation struct {
	Path   string // File path
	Kind   string // Rule kind (replace/prepend/insert/file/binary)
	Result patch.Result
}

// 📦 RuleOperation announces a rule before its files are visited
type RuleOperation struct {
	Name       string // Rule name
	Kind       string // Rule kind
	Candidates int    // Number of candidate files
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *RuleOperation
	operations []PatchOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🏭 NewWithZerolog creates a logger that writes structured events to zlog
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{zlog: zlog, console: console}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatPatchOperation formats a patch result for display
func (l *Logger) formatPatchOperation(op PatchOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Result.Outcome {
	case patch.OutcomePatched:
		symbol = '✓'
		symbolColor = color.FgGreen
	case patch.OutcomeAlreadyPatched:
		symbol = '•'
		symbolColor = color.FgCyan
	case patch.OutcomeFatalMismatch, patch.OutcomeFatalMissing, patch.OutcomeFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	status := op.Result.Outcome.String()
	if op.Result.Reason != "" && op.Result.Outcome != patch.OutcomeSkipped {
		status += ": " + op.Result.Reason
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", outcomeWidth, status))
}

// 📝 LogPatchOperation logs the result of a rule on one file. Skips without
// an error only go to the structured log.
func (l *Logger) LogPatchOperation(ctx context.Context, op PatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	res := op.Result
	if res.Outcome != patch.OutcomeSkipped || res.Err != nil {
		fmt.Fprintln(l.console, l.formatPatchOperation(op))
	}

	event := l.zlog.Info()
	if res.Err != nil {
		event = l.zlog.Warn().Err(res.Err)
	}
	if res.Outcome.Fatal() || res.Outcome == patch.OutcomeFailed {
		event = l.zlog.Error().Err(res.Err)
	}
	event.
		Str("rule", res.Rule).
		Str("file", op.Path).
		Str("kind", op.Kind).
		Str("outcome", res.Outcome.String()).
		Str("reason", res.Reason).
		Int("replacements", res.Replacements).
		Msg("patch operation")
}

// 📝 StartRuleOperation starts a new rule
func (l *Logger) StartRuleOperation(ctx context.Context, op RuleOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Kind))

	l.zlog.Info().
		Str("rule", op.Name).
		Str("kind", op.Kind).
		Int("candidates", op.Candidates).
		Msg("starting rule")
}

// 📝 EndRuleOperation ends the current rule and returns the results it logged
func (l *Logger) EndRuleOperation(ctx context.Context) []PatchOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	ops := l.operations
	l.zlog.Info().
		Str("rule", l.currentOp.Name).
		Int("files", len(ops)).
		Msg("rule complete")

	l.currentOp = nil
	l.operations = nil
	return ops
}

// 📊 SummaryRow is one line of the end-of-run table
type SummaryRow struct {
	Rule    string
	Kind    string
	Outcome string
	Files   int
}

// 📊 Summary renders a table of rule outcomes
func (l *Logger) Summary(rows []SummaryRow) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := pterm.TableData{{"Rule", "Kind", "Outcome", "Files"}}
	for _, r := range rows {
		data = append(data, []string{r.Rule, r.Kind, r.Outcome, fmt.Sprint(r.Files)})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, table)
	return nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint(consoleHeader)
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
