package musicgraph

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/soundprediction/musicgraph/pkg/chat"
	"github.com/spf13/cobra"
)

var showCypher bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask questions about the music graph",
	Long: `Ask natural-language questions about the loaded graph. With a question
argument it answers once and exits; otherwise it starts an interactive
session. In a session, /clear forgets the conversation, /examples lists
sample questions and /exit quits.`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&showCypher, "show-cypher", false, "print the generated Cypher with each answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	translator, err := a.newTranslator()
	if err != nil {
		return err
	}
	service := chat.NewService(translator, a.driver, a.logger)
	session := chat.NewSession()
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		return askOnce(ctx, out, service, session, strings.Join(args, " "))
	}
	return chatLoop(ctx, cmd.InOrStdin(), out, service, session)
}

func askOnce(ctx context.Context, out io.Writer, service *chat.Service, session *chat.Session, question string) error {
	answer, err := service.Ask(ctx, session, question)
	if err != nil {
		return err
	}
	printAnswer(out, answer)
	return nil
}

// chatLoop reads questions line by line until /exit, EOF or cancellation.
// A failed question is reported and the loop continues.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, service *chat.Service, session *chat.Session) error {
	fmt.Fprintln(out, "Ask about artists, albums and songs. Type /examples for ideas, /clear to start over, /exit to quit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/clear":
			session.Clear()
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		case "/examples":
			for _, q := range chat.ExampleQuestions {
				fmt.Fprintf(out, "  %s\n", q)
			}
			continue
		}

		answer, err := service.Ask(ctx, session, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(out, "Sorry, I encountered an error: %v\n", err)
			continue
		}
		printAnswer(out, answer)
	}
}

func printAnswer(out io.Writer, answer *chat.Answer) {
	if showCypher && answer.Cypher != "" {
		fmt.Fprintf(out, "Cypher: %s\n", answer.Cypher)
	}
	fmt.Fprintln(out, answer.Text)
	if answer.Truncated {
		fmt.Fprintf(out, "(showing the first %d rows)\n", len(answer.Rows))
	}
}
