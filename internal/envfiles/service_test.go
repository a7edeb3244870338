package envfiles_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/cirrostrats/devsetup/internal/editor"
	"github.com/cirrostrats/devsetup/internal/envfiles"
	"github.com/cirrostrats/devsetup/internal/repos/filesystem"
	"github.com/cirrostrats/devsetup/internal/ui"
)

const (
	templateContentsConstant = "DATABASE_URL=\nREDIS_URL=redis://localhost:6379\n"
	existingContentsConstant = "DATABASE_URL=postgres://local\n"
	projectNameConstant      = "frontend"
)

type recordingLauncher struct {
	openedPaths []string
	choices     []editor.Choice
	err         error
}

func (launcher *recordingLauncher) Open(_ context.Context, choice editor.Choice, filePath string) error {
	launcher.choices = append(launcher.choices, choice)
	launcher.openedPaths = append(launcher.openedPaths, filePath)
	return launcher.err
}

type recordingPrompter struct {
	messages []string
	err      error
}

func (prompter *recordingPrompter) WaitForAcknowledgement(message string) error {
	prompter.messages = append(prompter.messages, message)
	return prompter.err
}

type serviceFixture struct {
	service  *envfiles.Service
	launcher *recordingLauncher
	prompter *recordingPrompter
	output   *bytes.Buffer
}

func newServiceFixture(testInstance *testing.T, launcherError error) serviceFixture {
	testInstance.Helper()
	color.NoColor = true

	fixture := serviceFixture{
		launcher: &recordingLauncher{err: launcherError},
		prompter: &recordingPrompter{},
		output:   &bytes.Buffer{},
	}
	service, creationError := envfiles.NewService(envfiles.ServiceDependencies{
		FileSystem: filesystem.OSFileSystem{},
		Launcher:   fixture.launcher,
		Prompter:   fixture.prompter,
		Notices:    ui.NewNoticeWriter(fixture.output),
	})
	require.NoError(testInstance, creationError)
	fixture.service = service
	return fixture
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, creationError := envfiles.NewService(envfiles.ServiceDependencies{Launcher: &recordingLauncher{}, Prompter: &recordingPrompter{}})
	require.ErrorIs(testInstance, creationError, envfiles.ErrFileSystemNotConfigured)

	_, creationError = envfiles.NewService(envfiles.ServiceDependencies{FileSystem: filesystem.OSFileSystem{}, Prompter: &recordingPrompter{}})
	require.ErrorIs(testInstance, creationError, envfiles.ErrLauncherNotConfigured)

	_, creationError = envfiles.NewService(envfiles.ServiceDependencies{FileSystem: filesystem.OSFileSystem{}, Launcher: &recordingLauncher{}})
	require.ErrorIs(testInstance, creationError, envfiles.ErrPrompterNotConfigured)
}

func TestSeed(testInstance *testing.T) {
	testCases := []struct {
		name             string
		templateContents *string
		existingContents *string
		expectedOutcome  envfiles.SeedOutcome
		expectedContents string
	}{
		{name: "copies_template", templateContents: stringPointer(templateContentsConstant), expectedOutcome: envfiles.SeedOutcomeCopied, expectedContents: templateContentsConstant},
		{name: "creates_empty_without_template", expectedOutcome: envfiles.SeedOutcomeCreatedEmpty, expectedContents: ""},
		{name: "keeps_existing_with_template", templateContents: stringPointer(templateContentsConstant), existingContents: stringPointer(existingContentsConstant), expectedOutcome: envfiles.SeedOutcomeExisting, expectedContents: existingContentsConstant},
		{name: "keeps_existing_without_template", existingContents: stringPointer(existingContentsConstant), expectedOutcome: envfiles.SeedOutcomeExisting, expectedContents: existingContentsConstant},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			projectDirectory := testInstance.TempDir()
			if testCase.templateContents != nil {
				require.NoError(testInstance, os.WriteFile(filepath.Join(projectDirectory, envfiles.TemplateFileNameConstant), []byte(*testCase.templateContents), 0o640))
			}
			if testCase.existingContents != nil {
				require.NoError(testInstance, os.WriteFile(filepath.Join(projectDirectory, envfiles.EnvironmentFileNameConstant), []byte(*testCase.existingContents), 0o600))
			}

			fixture := newServiceFixture(testInstance, nil)
			for attempt := 0; attempt < 2; attempt++ {
				seedResult, seedError := fixture.service.Seed(projectDirectory)
				require.NoError(testInstance, seedError)
				require.Equal(testInstance, filepath.Join(projectDirectory, envfiles.EnvironmentFileNameConstant), seedResult.EnvironmentFilePath)
				if attempt == 0 {
					require.Equal(testInstance, testCase.expectedOutcome, seedResult.Outcome)
				} else {
					require.Equal(testInstance, envfiles.SeedOutcomeExisting, seedResult.Outcome)
				}

				environmentContents, readError := os.ReadFile(seedResult.EnvironmentFilePath)
				require.NoError(testInstance, readError)
				require.Equal(testInstance, testCase.expectedContents, string(environmentContents))
			}
		})
	}
}

func TestSeedPreservesTemplateMetadata(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	templatePath := filepath.Join(projectDirectory, envfiles.TemplateFileNameConstant)
	require.NoError(testInstance, os.WriteFile(templatePath, []byte(templateContentsConstant), 0o640))
	modificationTime := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(testInstance, os.Chtimes(templatePath, modificationTime, modificationTime))

	fixture := newServiceFixture(testInstance, nil)
	seedResult, seedError := fixture.service.Seed(projectDirectory)
	require.NoError(testInstance, seedError)

	environmentInfo, statError := os.Stat(seedResult.EnvironmentFilePath)
	require.NoError(testInstance, statError)
	require.Equal(testInstance, fs.FileMode(0o640), environmentInfo.Mode().Perm())
	require.True(testInstance, modificationTime.Equal(environmentInfo.ModTime()))
}

func TestSeedRejectsMissingDirectory(testInstance *testing.T) {
	missingDirectory := filepath.Join(testInstance.TempDir(), "cirrostrats-frontend")
	fixture := newServiceFixture(testInstance, nil)

	_, seedError := fixture.service.Seed(missingDirectory)
	require.ErrorIs(testInstance, seedError, envfiles.ErrDirectoryNotFound)

	_, seedError = fixture.service.Seed(" ")
	require.ErrorIs(testInstance, seedError, envfiles.ErrProjectDirectoryRequired)
}

func TestPrepareSkipsMissingDirectory(testInstance *testing.T) {
	missingDirectory := filepath.Join(testInstance.TempDir(), "cirrostrats-frontend")
	fixture := newServiceFixture(testInstance, nil)

	result, prepareError := fixture.service.Prepare(context.Background(), envfiles.Options{
		ProjectDirectory: missingDirectory,
		ProjectName:      projectNameConstant,
		Editor:           editor.ChoiceNano,
	})
	require.NoError(testInstance, prepareError)
	require.True(testInstance, result.Skipped)
	require.Empty(testInstance, fixture.launcher.openedPaths)
	require.Empty(testInstance, fixture.prompter.messages)
	require.Equal(testInstance, fmt.Sprintf("  Skipping frontend .env setup: directory %s not found.\n", missingDirectory), fixture.output.String())

	_, statError := os.Stat(missingDirectory)
	require.ErrorIs(testInstance, statError, fs.ErrNotExist)
}

func TestPrepareEditorOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name            string
		launcherError   error
		expectedOutcome envfiles.EditorOutcome
		expectedNotice  string
	}{
		{name: "edited", expectedOutcome: envfiles.EditorOutcomeEdited},
		{
			name:            "editor_not_found",
			launcherError:   fmt.Errorf("%w: vim: exec: not found", editor.ErrEditorNotFound),
			expectedOutcome: envfiles.EditorOutcomeNotFound,
			expectedNotice:  "  Editor 'vim' not found. Edit manually: %s\n",
		},
		{
			name:            "editor_failed",
			launcherError:   fmt.Errorf("%w: vim: exit status 1", editor.ErrEditorFailed),
			expectedOutcome: envfiles.EditorOutcomeFailed,
			expectedNotice:  "  Editor exited with an error. Edit manually if needed: %s\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			projectDirectory := testInstance.TempDir()
			require.NoError(testInstance, os.WriteFile(filepath.Join(projectDirectory, envfiles.TemplateFileNameConstant), []byte(templateContentsConstant), 0o644))
			environmentFilePath := filepath.Join(projectDirectory, envfiles.EnvironmentFileNameConstant)

			fixture := newServiceFixture(testInstance, testCase.launcherError)
			result, prepareError := fixture.service.Prepare(context.Background(), envfiles.Options{
				ProjectDirectory: projectDirectory,
				ProjectName:      projectNameConstant,
				Editor:           editor.ChoiceVim,
			})
			require.NoError(testInstance, prepareError)
			require.Equal(testInstance, envfiles.Result{
				EnvironmentFilePath: environmentFilePath,
				SeedOutcome:         envfiles.SeedOutcomeCopied,
				EditorOutcome:       testCase.expectedOutcome,
			}, result)
			require.Equal(testInstance, []string{environmentFilePath}, fixture.launcher.openedPaths)
			require.Equal(testInstance, []editor.Choice{editor.ChoiceVim}, fixture.launcher.choices)
			require.Equal(testInstance, []string{
				"Press Enter to open frontend .env in your editor for editing...",
				"Press Enter when done editing frontend .env to continue...",
			}, fixture.prompter.messages)

			expectedOutput := fmt.Sprintf("  Created %s from .env.example\n", environmentFilePath)
			if len(testCase.expectedNotice) > 0 {
				expectedOutput += fmt.Sprintf(testCase.expectedNotice, environmentFilePath)
			}
			expectedOutput += "\n"
			require.Equal(testInstance, expectedOutput, fixture.output.String())
		})
	}
}

func TestPrepareReportsExistingAndEmptyFiles(testInstance *testing.T) {
	existingDirectory := testInstance.TempDir()
	existingPath := filepath.Join(existingDirectory, envfiles.EnvironmentFileNameConstant)
	require.NoError(testInstance, os.WriteFile(existingPath, []byte(existingContentsConstant), 0o600))

	fixture := newServiceFixture(testInstance, nil)
	_, prepareError := fixture.service.Prepare(context.Background(), envfiles.Options{ProjectDirectory: existingDirectory, ProjectName: projectNameConstant, Editor: editor.ChoiceNano})
	require.NoError(testInstance, prepareError)
	require.Contains(testInstance, fixture.output.String(), fmt.Sprintf("  %s already exists (not overwriting).\n", existingPath))

	emptyDirectory := testInstance.TempDir()
	emptyPath := filepath.Join(emptyDirectory, envfiles.EnvironmentFileNameConstant)
	fixture = newServiceFixture(testInstance, nil)
	result, prepareError := fixture.service.Prepare(context.Background(), envfiles.Options{ProjectDirectory: emptyDirectory, ProjectName: "backend", Editor: editor.ChoiceNano})
	require.NoError(testInstance, prepareError)
	require.Equal(testInstance, envfiles.SeedOutcomeCreatedEmpty, result.SeedOutcome)
	require.Contains(testInstance, fixture.output.String(), fmt.Sprintf("  Created empty %s (no .env.example in %s).\n", emptyPath, emptyDirectory))
}

func TestPrepareNonInteractiveSkipsEditor(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	environmentFilePath := filepath.Join(projectDirectory, envfiles.EnvironmentFileNameConstant)

	fixture := newServiceFixture(testInstance, nil)
	result, prepareError := fixture.service.Prepare(context.Background(), envfiles.Options{
		ProjectDirectory: projectDirectory,
		ProjectName:      projectNameConstant,
		Editor:           editor.ChoiceNano,
		NonInteractive:   true,
	})
	require.NoError(testInstance, prepareError)
	require.Equal(testInstance, envfiles.EditorOutcomeSkipped, result.EditorOutcome)
	require.Empty(testInstance, fixture.launcher.openedPaths)
	require.Empty(testInstance, fixture.prompter.messages)
	require.Contains(testInstance, fixture.output.String(), "Edit manually: "+environmentFilePath)
}

func TestPrepareFailures(testInstance *testing.T) {
	testCases := []struct {
		name           string
		launcherError  error
		prompterError  error
		expectedSubstr string
	}{
		{name: "unexpected_launcher_error", launcherError: context.Canceled, expectedSubstr: "failed to open"},
		{name: "acknowledgement_error", prompterError: errors.New("stdin closed"), expectedSubstr: "failed to read acknowledgement"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newServiceFixture(testInstance, testCase.launcherError)
			fixture.prompter.err = testCase.prompterError

			_, prepareError := fixture.service.Prepare(context.Background(), envfiles.Options{
				ProjectDirectory: testInstance.TempDir(),
				ProjectName:      projectNameConstant,
				Editor:           editor.ChoiceNano,
			})
			require.ErrorContains(testInstance, prepareError, testCase.expectedSubstr)
		})
	}
}

func stringPointer(value string) *string {
	return &value
}
