package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_cli "github.com/at-ishikawa/pocketgem/internal/mocks/cli"
	mock_inference "github.com/at-ishikawa/pocketgem/internal/mocks/inference"
)

func newTestChatCLI(asker *mock_inference.MockAsker, input string, output *bytes.Buffer) *ChatCLI {
	bold := color.New(color.Bold)
	bold.DisableColor()
	return &ChatCLI{
		asker:        asker,
		stdinReader:  bufio.NewReader(strings.NewReader(input)),
		stdoutWriter: output,
		bold:         bold,
	}
}

func TestRenderExchange(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   string
		want     string
	}{
		{
			name:     "answer",
			question: "What is Go?",
			answer:   "A programming language.",
			want:     "\n> What is Go?\n\nA programming language.\n",
		},
		{
			name:     "error string is rendered as an answer",
			question: "hi",
			answer:   "Error: Please set your Gemini API key (GEMINI_API_KEY or gemini.api_key)",
			want:     "\n> hi\n\nError: Please set your Gemini API key (GEMINI_API_KEY or gemini.api_key)\n",
		},
		{
			name:     "multi-line answer",
			question: "two lines",
			answer:   "Line1\nLine2",
			want:     "\n> two lines\n\nLine1\nLine2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderExchange(tt.question, tt.answer))
		})
	}
}

func TestChatCLI_Run(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		setupMock func(asker *mock_inference.MockAsker)
		want      string
	}{
		{
			name:  "question then quit",
			input: "What is Go?\nquit\n",
			setupMock: func(asker *mock_inference.MockAsker) {
				asker.EXPECT().Ask("What is Go?").Return("A programming language.")
			},
			want: WelcomeMessage + "\n" +
				"? \n> What is Go?\n\nA programming language.\n" +
				"? ",
		},
		{
			name:  "empty lines are ignored",
			input: "\n\nhello\n\nexit\n",
			setupMock: func(asker *mock_inference.MockAsker) {
				asker.EXPECT().Ask("hello").Return("hi")
			},
			want: WelcomeMessage + "\n" +
				"? ? ? \n> hello\n\nhi\n" +
				"? ? ",
		},
		{
			name:  "last line without newline is asked before the end of input",
			input: "first\nsecond",
			setupMock: func(asker *mock_inference.MockAsker) {
				gomock.InOrder(
					asker.EXPECT().Ask("first").Return("1"),
					asker.EXPECT().Ask("second").Return("2"),
				)
			},
			want: WelcomeMessage + "\n" +
				"? \n> first\n\n1\n" +
				"? \n> second\n\n2\n",
		},
		{
			name:  "carriage returns are stripped",
			input: "windows\r\n",
			setupMock: func(asker *mock_inference.MockAsker) {
				asker.EXPECT().Ask("windows").Return("ok")
			},
			want: WelcomeMessage + "\n" +
				"? \n> windows\n\nok\n" +
				"? ",
		},
		{
			name:  "whitespace is sent as typed",
			input: "  \nquit\n",
			setupMock: func(asker *mock_inference.MockAsker) {
				asker.EXPECT().Ask("  ").Return("Error: Could not parse response (no text field)")
			},
			want: WelcomeMessage + "\n" +
				"? \n>   \n\nError: Could not parse response (no text field)\n" +
				"? ",
		},
		{
			name:      "no input",
			input:     "",
			setupMock: func(asker *mock_inference.MockAsker) {},
			want:      WelcomeMessage + "\n? ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			asker := mock_inference.NewMockAsker(ctrl)
			tt.setupMock(asker)

			var output bytes.Buffer
			chatCLI := newTestChatCLI(asker, tt.input, &output)

			err := chatCLI.Run(context.Background(), chatCLI)
			require.NoError(t, err)
			assert.Equal(t, tt.want, output.String())
		})
	}
}

func TestChatCLI_Run_SessionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := mock_cli.NewMockSession(ctrl)
	want := errors.New("broken pipe")
	gomock.InOrder(
		session.EXPECT().Session(gomock.Any()).Return(nil),
		session.EXPECT().Session(gomock.Any()).Return(want),
	)

	var output bytes.Buffer
	chatCLI := newTestChatCLI(mock_inference.NewMockAsker(ctrl), "", &output)

	err := chatCLI.Run(context.Background(), session)
	assert.ErrorIs(t, err, want)
}

func TestChatCLI_Run_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := mock_cli.NewMockSession(ctrl)
	session.EXPECT().Session(gomock.Any()).Return(nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var output bytes.Buffer
	chatCLI := newTestChatCLI(mock_inference.NewMockAsker(ctrl), "", &output)

	err := chatCLI.Run(ctx, session)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(output.String(), WelcomeMessage+"\n"))
}
