// Package main runs the test suite with coverage and holds this repository to its own gate.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/meza/covgate/internal/coverage"
	"github.com/pkg/errors"
)

const (
	coverageFuncOutputName = "coverage.out"
	coverageHTMLName       = "coverage.html"
	coverageProfileName    = "coverage.profile"
)

type commandRunner interface {
	Run(*exec.Cmd) error
	Output(*exec.Cmd) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(command *exec.Cmd) error {
	return command.Run()
}

func (execRunner) Output(command *exec.Cmd) ([]byte, error) {
	return command.Output()
}

type coverageTool struct {
	repoRoot  string
	goBinary  string
	threshold coverage.Percentage
	runner    commandRunner
	stdout    io.Writer
	stderr    io.Writer
}

// summary is the parsed output of `go tool cover -func`.
type summary struct {
	output    []byte
	totalLine string
	total     coverage.Percentage
	below     []string
}

var getWorkingDirectory = os.Getwd

func main() {
	os.Exit(runMain(os.Stdout, os.Stderr))
}

func runMain(stdout, stderr io.Writer) int {
	workingDirectory, err := getWorkingDirectory()
	if err != nil {
		fmt.Fprintln(stderr, errors.Wrap(err, "failed to determine working directory"))
		return 2
	}

	repoRoot, err := findRepoRoot(workingDirectory)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	tool := &coverageTool{
		repoRoot:  repoRoot,
		goBinary:  "go",
		threshold: coverage.DefaultThreshold,
		runner:    execRunner{},
		stdout:    stdout,
		stderr:    stderr,
	}

	verdict, err := tool.run()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	return verdict.ExitCode()
}

func (tool *coverageTool) run() (coverage.Verdict, error) {
	profilePath := filepath.Join(tool.repoRoot, coverageProfileName)
	htmlPath := filepath.Join(tool.repoRoot, coverageHTMLName)
	funcOutputPath := filepath.Join(tool.repoRoot, coverageFuncOutputName)

	defer func() {
		_ = os.Remove(profilePath) // #nosec G104 -- best-effort cleanup of temporary coverage profile.
	}()

	if err := tool.runCoverageTests(profilePath); err != nil {
		return coverage.Verdict{}, err
	}
	if err := tool.generateCoverageHTML(profilePath, htmlPath); err != nil {
		return coverage.Verdict{}, err
	}

	result, err := tool.coverageSummary(profilePath)
	if err != nil {
		return coverage.Verdict{}, err
	}
	if err := os.WriteFile(funcOutputPath, result.output, 0o644); err != nil {
		return coverage.Verdict{}, errors.Wrap(err, "write coverage output")
	}

	for _, line := range result.below {
		fmt.Fprintln(tool.stdout, line)
	}
	fmt.Fprintln(tool.stdout, result.totalLine)

	verdict := coverage.Evaluate(result.total, tool.threshold)
	if verdict.Passed {
		fmt.Fprintf(tool.stdout, "coverage %s%% is above %s%%\n", verdict.Value, verdict.Threshold)
	} else {
		fmt.Fprintf(tool.stdout, "coverage %s%% is not above %s%%\n", verdict.Value, verdict.Threshold)
	}
	fmt.Fprintf(tool.stdout, "details: %s and %s were generated\n", funcOutputPath, htmlPath)
	return verdict, nil
}

func (tool *coverageTool) runCoverageTests(profilePath string) error {
	command := exec.Command(tool.goBinary, "test", "./...", "-coverprofile", profilePath) // #nosec G204 -- go binary and args are controlled by this tool.
	command.Dir = tool.repoRoot
	outputBuffer := &bytes.Buffer{}
	command.Stdout = outputBuffer
	command.Stderr = outputBuffer
	if err := tool.runner.Run(command); err != nil {
		_, _ = tool.stderr.Write(outputBuffer.Bytes())
		return errors.Wrap(err, "coverage tests failed")
	}
	return nil
}

func (tool *coverageTool) generateCoverageHTML(profilePath, htmlPath string) error {
	command := exec.Command(tool.goBinary, "tool", "cover", "-html", profilePath, "-o", htmlPath) // #nosec G204 -- go binary and args are controlled by this tool.
	command.Dir = tool.repoRoot
	if err := tool.runner.Run(command); err != nil {
		return errors.Wrap(err, "coverage html generation failed")
	}
	return nil
}

func (tool *coverageTool) coverageSummary(profilePath string) (summary, error) {
	command := exec.Command(tool.goBinary, "tool", "cover", "-func", profilePath) // #nosec G204 -- go binary and args are controlled by this tool.
	command.Dir = tool.repoRoot
	output, err := tool.runner.Output(command)
	if err != nil {
		return summary{}, errors.Wrap(err, "coverage summary failed")
	}
	return parseSummary(output, tool.threshold)
}

// parseSummary reads the per-function lines and the trailing "total:" line.
// Functions at or below the threshold are collected so the output points at them.
func parseSummary(output []byte, threshold coverage.Percentage) (summary, error) {
	result := summary{output: output}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		value, err := parseFuncPercentage(fields[len(fields)-1])
		if err != nil {
			return summary{}, errors.Wrapf(err, "malformed coverage line %q", line)
		}

		if fields[0] == "total:" {
			result.totalLine = line
			result.total = value
			continue
		}
		if !coverage.Evaluate(value, threshold).Passed {
			result.below = append(result.below, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return summary{}, errors.Wrap(err, "read coverage output")
	}
	if result.totalLine == "" {
		return summary{}, errors.New("no total line found in coverage output")
	}
	return result, nil
}

func parseFuncPercentage(field string) (coverage.Percentage, error) {
	raw, ok := strings.CutSuffix(field, "%")
	if !ok {
		return 0, errors.Errorf("%q is not a percentage", field)
	}
	return coverage.ParsePercentage(raw)
}

func findRepoRoot(startDir string) (string, error) {
	current := startDir
	for {
		if hasGoMod(current) {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", errors.New("failed to locate repo root (missing go.mod); run from repo root")
		}
		current = parent
	}
}

func hasGoMod(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil
}
