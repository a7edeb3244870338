package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cirrostrats/devsetup/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name           string
		remote         string
		expectedRemote gitrepo.RemoteURL
		expectError    bool
	}{
		{
			name:   "https_with_suffix",
			remote: "https://github.com/ujazishere/cirrostrats-frontend.git",
			expectedRemote: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "github.com",
				Owner:      "ujazishere",
				Repository: "cirrostrats-frontend",
			},
		},
		{
			name:   "https_without_suffix",
			remote: " https://github.com/ujazishere/cirrostrats-backend/ ",
			expectedRemote: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "github.com",
				Owner:      "ujazishere",
				Repository: "cirrostrats-backend",
			},
		},
		{
			name:   "scp_style_ssh",
			remote: "git@github.com:ujazishere/cirrostrats-backend.git",
			expectedRemote: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "github.com",
				Owner:      "ujazishere",
				Repository: "cirrostrats-backend",
			},
		},
		{
			name:   "ssh_scheme",
			remote: "ssh://git@github.com/ujazishere/cirrostrats-frontend.git",
			expectedRemote: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "github.com",
				Owner:      "ujazishere",
				Repository: "cirrostrats-frontend",
			},
		},
		{name: "empty", remote: "  ", expectError: true},
		{name: "local_path", remote: "/srv/git/cirrostrats-frontend.git", expectError: true},
		{name: "missing_repository", remote: "https://github.com/ujazishere", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				require.IsType(testInstance, gitrepo.RemoteURLParseError{}, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedRemote, parsedRemote)
		})
	}
}

func TestDeriveFolderName(testInstance *testing.T) {
	testCases := []struct {
		name               string
		remote             string
		expectedFolderName string
		expectError        bool
	}{
		{name: "https", remote: "https://github.com/ujazishere/cirrostrats-frontend.git", expectedFolderName: "cirrostrats-frontend"},
		{name: "ssh", remote: "git@github.com:ujazishere/cirrostrats-backend.git", expectedFolderName: "cirrostrats-backend"},
		{name: "local_bare_repository", remote: "/srv/git/cirrostrats-frontend.git", expectedFolderName: "cirrostrats-frontend"},
		{name: "local_trailing_separator", remote: "/srv/git/backend/", expectedFolderName: "backend"},
		{name: "empty", remote: "", expectError: true},
		{name: "root", remote: "/", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			folderName, deriveError := gitrepo.DeriveFolderName(testCase.remote)
			if testCase.expectError {
				require.Error(testInstance, deriveError)
				return
			}
			require.NoError(testInstance, deriveError)
			require.Equal(testInstance, testCase.expectedFolderName, folderName)
		})
	}
}
