package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return b.String(), err
}

func TestCrdSchemaGenE2E(t *testing.T) {
	tempDir := t.TempDir()

	testCases := []struct {
		name              string
		args              []string
		wantErrMsg        string
		expectedFiles     []string
		missingFiles      []string
		fileContentChecks map[string][]string
		outputChecks      []string
	}{
		{
			name: "all_resources",
			args: []string{},
			expectedFiles: []string{
				"crds/MicrosoftSentinelAnalyticRule.yaml",
				"crds/MicrosoftSentinelAutomationRule.yaml",
				"crds/MicrosoftSentinelWorkbook.yaml",
				"crds/MicrosoftSentinelMacro.yaml",
				"crds/SplunkDetectionRule.yaml",
				"jsonschema/MicrosoftSentinelAnalyticRuleCRD.json",
				"jsonschema/MicrosoftSentinelAutomationRule.json",
				"jsonschema/MicrosoftSentinelAutomationRuleCRD.json",
				"jsonschema/MicrosoftSentinelWorkbook.json",
				"jsonschema/MicrosoftSentinelWorkbookCRD.json",
				"jsonschema/MicrosoftSentinelMacroCRD.json",
				"jsonschema/SplunkDetectionRuleCRD.json",
			},
			fileContentChecks: map[string][]string{
				"crds/MicrosoftSentinelMacro.yaml": {
					"apiVersion: apiextensions.k8s.io/v1",
					"kind: CustomResourceDefinition",
					"name: microsoftsentinelmacros.buildrlabs.io",
					"- msm",
					"content:",
				},
				"jsonschema/MicrosoftSentinelAutomationRule.json": {
					`"$schema": "http://json-schema.org/draft-07/schema#"`,
					`"title": "MicrosoftSentinelAutomationRule"`,
					`"oneOf": [`,
				},
			},
			outputChecks: []string{filepath.Join("crds", "SplunkDetectionRule.yaml")},
		},
		{
			name: "selected_resource",
			args: []string{"generate", "-r", "msm", "--concurrency", "2"},
			expectedFiles: []string{
				"crds/MicrosoftSentinelMacro.yaml",
				"jsonschema/MicrosoftSentinelMacroCRD.json",
			},
			missingFiles: []string{
				"crds/MicrosoftSentinelWorkbook.yaml",
				"crds/SplunkDetectionRule.yaml",
			},
		},
		{
			name: "pascal_case_keys",
			args: []string{"-r", "SplunkDetectionRule", "--convention", "PascalCase"},
			fileContentChecks: map[string][]string{
				"crds/SplunkDetectionRule.yaml": {"Search:"},
			},
		},
		{
			name:       "unknown_resource",
			args:       []string{"-r", "nope"},
			wantErrMsg: `unknown resource "nope"`,
		},
		{
			name:       "invalid_convention",
			args:       []string{"--convention", "Title Case"},
			wantErrMsg: "unknown naming convention",
		},
		{
			name:       "invalid_concurrency",
			args:       []string{"--concurrency", "0"},
			wantErrMsg: "concurrency must be at least 1",
		},
		{
			name:       "missing_config",
			args:       []string{"--config", filepath.Join(tempDir, "missing.yaml")},
			wantErrMsg: "error reading config",
		},
		{
			name:         "list",
			args:         []string{"list"},
			outputChecks: []string{"KIND", "MicrosoftSentinelMacro", "microsoftsentinelmacros.buildrlabs.io", "msm,msms"},
			missingFiles: []string{"crds/MicrosoftSentinelMacro.yaml"},
		},
		{
			name:         "config_view",
			args:         []string{"config", "view", "--log-level", "debug"},
			outputChecks: []string{"fail-fast: false", "level: debug"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			targetDir := filepath.Join(tempDir, tc.name)
			require.NoError(t, os.Mkdir(targetDir, 0o755))

			out, err := execute(t, append(tc.args, "--output", targetDir)...)

			if tc.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErrMsg)
				return
			}
			require.NoError(t, err)

			for _, file := range tc.expectedFiles {
				assert.FileExists(t, filepath.Join(targetDir, file))
			}
			for _, file := range tc.missingFiles {
				assert.NoFileExists(t, filepath.Join(targetDir, file))
			}
			for file, contents := range tc.fileContentChecks {
				data, err := os.ReadFile(filepath.Join(targetDir, file))
				require.NoError(t, err)
				for _, content := range contents {
					assert.Contains(t, string(data), content)
				}
			}
			for _, content := range tc.outputChecks {
				assert.Contains(t, out, content)
			}
		})
	}
}

func TestGenerateIsolatesFailures(t *testing.T) {
	targetDir := t.TempDir()
	// a directory where the Macro CRD belongs makes its write fail
	require.NoError(t, os.MkdirAll(filepath.Join(targetDir, "crds", "MicrosoftSentinelMacro.yaml"), 0o755))

	_, err := execute(t, "--output", targetDir, "--concurrency", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed for MicrosoftSentinelMacro")
	assert.Contains(t, err.Error(), "error writing")

	assert.FileExists(t, filepath.Join(targetDir, "jsonschema", "MicrosoftSentinelMacroCRD.json"))
	assert.FileExists(t, filepath.Join(targetDir, "crds", "SplunkDetectionRule.yaml"))
	assert.FileExists(t, filepath.Join(targetDir, "crds", "MicrosoftSentinelWorkbook.yaml"))
	assert.FileExists(t, filepath.Join(targetDir, "jsonschema", "SplunkDetectionRuleCRD.json"))
}

func TestCheck(t *testing.T) {
	targetDir := t.TempDir()

	_, err := execute(t, "check", "--output", targetDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "12 artifacts are out of date")

	_, err = execute(t, "--output", targetDir)
	require.NoError(t, err)

	out, err := execute(t, "check", "--output", targetDir)
	require.NoError(t, err)
	assert.Contains(t, out, "All artifacts are up to date")

	workbook := filepath.Join(targetDir, "jsonschema", "MicrosoftSentinelWorkbook.json")
	require.NoError(t, os.WriteFile(workbook, []byte("{}\n"), 0o644))
	crdFile := filepath.Join(targetDir, "crds", "MicrosoftSentinelMacro.yaml")
	data, err := os.ReadFile(crdFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(crdFile, bytes.Replace(data, []byte("- msms"), []byte("- mmm"), 1), 0o644))

	out, err = execute(t, "check", "--output", targetDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 artifacts are out of date")
	assert.Contains(t, out, workbook)
	assert.Contains(t, out, crdFile)
	assert.Contains(t, out, "mmm")

	_, err = execute(t, "check", "--output", targetDir, "-r", "msw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 artifacts are out of date")
}

func TestStampRevision(t *testing.T) {
	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "README.md"), []byte("crds\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "ci", Email: "ci@buildrlabs.io", When: time.Now()},
	})
	require.NoError(t, err)

	targetDir := filepath.Join(repoDir, "deploy", "generated")
	rev, err := revision(targetDir)
	require.NoError(t, err)
	assert.Equal(t, hash.String(), rev)

	_, err = execute(t, "-r", "msm", "--stamp-revision", "--output", targetDir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(targetDir, "crds", "MicrosoftSentinelMacro.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), RevisionAnnotation+": "+hash.String())

	out, err := execute(t, "check", "-r", "msm", "--output", targetDir)
	require.NoError(t, err)
	assert.Contains(t, out, "All artifacts are up to date")

	_, err = execute(t, "-r", "msm", "--stamp-revision", "--output", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error opening git repository")
}
