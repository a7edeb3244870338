package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cirrostrats/devsetup/internal/bootstrap"
	"github.com/cirrostrats/devsetup/internal/branches/sync"
	"github.com/cirrostrats/devsetup/internal/editor"
	"github.com/cirrostrats/devsetup/internal/envfiles"
	"github.com/cirrostrats/devsetup/internal/prompt"
	"github.com/cirrostrats/devsetup/internal/repos/dependencies"
	"github.com/cirrostrats/devsetup/internal/repos/shared"
	"github.com/cirrostrats/devsetup/internal/ui"
	"github.com/cirrostrats/devsetup/internal/utils"
	flagutils "github.com/cirrostrats/devsetup/internal/utils/flags"
	pathutils "github.com/cirrostrats/devsetup/internal/utils/path"
)

const (
	applicationNameConstant                  = "devsetup"
	applicationShortDescriptionConstant      = "Bootstrap the Cirrostrats frontend and backend development environment"
	applicationLongDescriptionConstant       = "devsetup clones the frontend and backend repositories, puts both on a branch tracking the remote, seeds their .env files from .env.example and opens them in nano or vim."
	configFileFlagNameConstant               = "config"
	configFileFlagUsageConstant              = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                 = "log-level"
	logLevelFlagUsageConstant                = "Override the configured log level."
	logFormatFlagNameConstant                = "log-format"
	logFormatFlagUsageConstant               = "Override the configured log format (structured or console)."
	branchFlagNameConstant                   = "branch"
	branchFlagShorthandConstant              = "b"
	branchFlagUsageConstant                  = "Branch to clone/checkout (e.g. dev, main). If omitted, you will be prompted; default is dev."
	editorFlagNameConstant                   = "editor"
	editorFlagUsageConstant                  = "Editor used for .env files. If omitted, you will be prompted."
	workspaceFlagNameConstant                = "workspace"
	workspaceFlagUsageConstant               = "Directory that holds the repository folders (default from configuration, usually the current directory)."
	nonInteractiveFlagNameConstant           = "non-interactive"
	nonInteractiveFlagUsageConstant          = "Never prompt or open an editor; use configured defaults. Enabled automatically when stdin is not a terminal."
	skipEnvironmentFlagNameConstant          = "skip-env"
	skipEnvironmentFlagUsageConstant         = "Stop after synchronizing the repositories."
	initFlagNameConstant                     = "init"
	initFlagUsageConstant                    = "Write the effective configuration to ./config.yaml (local) or ~/.devsetup/config.yaml (user) and exit."
	forceFlagNameConstant                    = "force"
	forceFlagUsageConstant                   = "Overwrite an existing configuration file with --init."
	commonConfigurationKeyConstant           = "common"
	commonLogLevelConfigKeyConstant          = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant         = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant                = "DEVSETUP"
	configurationNameConstant                = "config"
	configurationTypeConstant                = "yaml"
	configurationInitializedMessageConstant  = "configuration initialized"
	configurationLogLevelFieldConstant       = "log_level"
	configurationLogFormatFieldConstant      = "log_format"
	configurationFileFieldConstant           = "config_file"
	configurationLoadErrorTemplateConstant   = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant          = "unable to flush logger: %w"
	workspaceResolutionErrorTemplateConstant = "unable to resolve workspace %q: %w"
	editorFlagErrorTemplateConstant          = "invalid --editor: %w"
	rootCommandDebugMessageConstant          = "devsetup starting"
	logFieldWorkspaceConstant                = "workspace"
	logFieldNonInteractiveConstant           = "non_interactive"
	logFieldRepositoryCountConstant          = "repository_count"
	loggerNotInitializedMessageConstant      = "logger not initialized"
	defaultConfigurationSearchPathConstant   = "."
	userConfigurationSearchPathConstant      = "$HOME/.devsetup"
)

// ErrLoggerNotInitialized indicates the command ran before configuration was loaded.
var ErrLoggerNotInitialized = errors.New(loggerNotInitializedMessageConstant)

// TerminalDetector reports whether the standard input is an interactive terminal.
type TerminalDetector func() bool

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	branchFlagValue       string
	editorFlagValue       string
	workspaceFlagValue    string
	nonInteractiveFlag    bool
	skipEnvironmentFlag   bool
	initScopeFlagValue    string
	forceFlag             bool
	homeExpander          *pathutils.HomeExpander
	terminalDetector      TerminalDetector
	gitExecutor           shared.GitExecutor
	interactiveExecutor   shared.InteractiveExecutor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant, userConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		homeExpander:        pathutils.NewHomeExpander(),
		terminalDetector:    standardInputIsTerminal,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	commandFlags := cobraCommand.Flags()
	commandFlags.StringVarP(&application.branchFlagValue, branchFlagNameConstant, branchFlagShorthandConstant, "", branchFlagUsageConstant)
	flagutils.AddChoiceFlag(commandFlags, &application.editorFlagValue, editorFlagNameConstant, string(editor.DefaultChoice), editor.ChoiceNames(), editor.ChoiceAliases(), editorFlagUsageConstant)
	commandFlags.StringVar(&application.workspaceFlagValue, workspaceFlagNameConstant, "", workspaceFlagUsageConstant)
	commandFlags.BoolVar(&application.nonInteractiveFlag, nonInteractiveFlagNameConstant, false, nonInteractiveFlagUsageConstant)
	commandFlags.BoolVar(&application.skipEnvironmentFlag, skipEnvironmentFlagNameConstant, false, skipEnvironmentFlagUsageConstant)
	flagutils.AddChoiceFlag(commandFlags, &application.initScopeFlagValue, initFlagNameConstant, initializationScopeLocalConstant, []string{initializationScopeLocalConstant, initializationScopeUserConstant}, nil, initFlagUsageConstant)
	if initFlag := commandFlags.Lookup(initFlagNameConstant); initFlag != nil {
		initFlag.NoOptDefVal = initializationScopeLocalConstant
	}
	commandFlags.BoolVar(&application.forceFlag, forceFlagNameConstant, false, forceFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the root command and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command bound to the provided context. An interrupt cancels it.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	signalContext, stopSignals := signal.NotifyContext(executionContext, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	executionError := application.rootCommand.ExecuteContext(signalContext)
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command) error {
	if application.logger == nil {
		return ErrLoggerNotInitialized
	}

	if command.Flags().Changed(initFlagNameConstant) {
		return application.writeConfiguration(command)
	}

	setupOptions, optionsError := application.buildSetupOptions(command)
	if optionsError != nil {
		return optionsError
	}

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldWorkspaceConstant, setupOptions.WorkspaceDirectory),
		zap.Bool(logFieldNonInteractiveConstant, setupOptions.NonInteractive),
		zap.Int(logFieldRepositoryCountConstant, len(setupOptions.Repositories)),
	)

	bootstrapService, serviceError := application.buildBootstrapService(command)
	if serviceError != nil {
		return serviceError
	}

	executionContext := command.Context()
	if commandTimeout := application.configuration.Setup.CommandTimeout; commandTimeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, commandTimeout)
		defer cancel()
	}

	return bootstrapService.Run(executionContext, setupOptions)
}

func (application *Application) buildSetupOptions(command *cobra.Command) (bootstrap.Options, error) {
	setupConfiguration := application.configuration.Setup

	repositories, repositoriesError := setupConfiguration.RepositoryDescriptors()
	if repositoriesError != nil {
		return bootstrap.Options{}, repositoriesError
	}

	defaultEditor, defaultEditorError := setupConfiguration.DefaultEditorChoice()
	if defaultEditorError != nil {
		return bootstrap.Options{}, defaultEditorError
	}

	var requestedEditor editor.Choice
	if command.Flags().Changed(editorFlagNameConstant) {
		parsedEditor, parseError := editor.ParseChoice(application.editorFlagValue)
		if parseError != nil {
			return bootstrap.Options{}, fmt.Errorf(editorFlagErrorTemplateConstant, parseError)
		}
		requestedEditor = parsedEditor
	}

	workspaceCandidate := setupConfiguration.Workspace
	if command.Flags().Changed(workspaceFlagNameConstant) {
		workspaceCandidate = application.workspaceFlagValue
	}
	workspaceDirectory, workspaceError := application.homeExpander.ResolveDirectory(workspaceCandidate)
	if workspaceError != nil {
		return bootstrap.Options{}, fmt.Errorf(workspaceResolutionErrorTemplateConstant, workspaceCandidate, workspaceError)
	}

	nonInteractive := application.nonInteractiveFlag
	if !command.Flags().Changed(nonInteractiveFlagNameConstant) && application.terminalDetector != nil {
		nonInteractive = !application.terminalDetector()
	}

	return bootstrap.Options{
		BranchName:           application.branchFlagValue,
		DefaultBranch:        setupConfiguration.DefaultBranch,
		Editor:               requestedEditor,
		DefaultEditor:        defaultEditor,
		RemoteName:           setupConfiguration.Remote,
		WorkspaceDirectory:   workspaceDirectory,
		Repositories:         repositories,
		NonInteractive:       nonInteractive,
		SkipEnvironmentSetup: application.skipEnvironmentFlag,
		Reminder:             setupConfiguration.Reminder,
	}, nil
}

func (application *Application) buildBootstrapService(command *cobra.Command) (*bootstrap.Service, error) {
	humanReadableLogging := application.humanReadableLoggingEnabled()

	gitExecutor, gitExecutorError := dependencies.ResolveGitExecutor(application.gitExecutor, application.logger, humanReadableLogging)
	if gitExecutorError != nil {
		return nil, gitExecutorError
	}
	interactiveExecutor, interactiveExecutorError := dependencies.ResolveInteractiveExecutor(application.interactiveExecutor, application.logger, humanReadableLogging)
	if interactiveExecutorError != nil {
		return nil, interactiveExecutorError
	}
	fileSystem := dependencies.ResolveFileSystem(nil)

	synchronizer, synchronizerError := sync.NewService(sync.ServiceDependencies{GitExecutor: gitExecutor, FileSystem: fileSystem})
	if synchronizerError != nil {
		return nil, synchronizerError
	}

	launcher, launcherError := editor.NewLauncher(interactiveExecutor)
	if launcherError != nil {
		return nil, launcherError
	}

	notices := ui.NewNoticeWriter(command.OutOrStdout())
	prompter := prompt.NewIOPrompter(command.InOrStdin(), command.OutOrStdout())

	preparer, preparerError := envfiles.NewService(envfiles.ServiceDependencies{
		FileSystem: fileSystem,
		Launcher:   launcher,
		Prompter:   prompter,
		Notices:    notices,
	})
	if preparerError != nil {
		return nil, preparerError
	}

	return bootstrap.NewService(bootstrap.ServiceDependencies{
		Synchronizer: synchronizer,
		Preparer:     preparer,
		Prompter:     prompter,
		Notices:      notices,
		Logger:       application.logger,
	})
}

func (application *Application) writeConfiguration(command *cobra.Command) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	writer := configurationWriter{homeExpander: application.homeExpander, workingDirectory: workingDirectory}
	writtenPath, writeError := writer.Write(application.configuration, application.initScopeFlagValue, application.forceFlag)
	if writeError != nil {
		return writeError
	}

	ui.NewNoticeWriter(command.OutOrStdout()).Info(configurationWrittenTemplateConstant, writtenPath)
	return nil
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func standardInputIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
