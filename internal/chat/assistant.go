package chat

import (
	"context"
	"math/rand/v2"
)

// systemPrompt is the assistant persona.
const systemPrompt = "You are 'Nexus', the assistant in a solar system " +
	"orrery application. Answer astronomy and spaceflight questions " +
	"concisely. The app itself shows planet positions, conjunctions and " +
	"oppositions; point users at the info/events views for live data."

// offlineReplies are served when no LLM is reachable.
var offlineReplies = []string{
	"The assistant is offline. Local commands still work: try 'help'.",
	"No language model configured. Set GROQ_API_KEY or run Ollama, or use 'help' for local commands.",
}

// Assistant routes user input: local commands first, then the LLM, with a
// canned reply when no model is available. Ask never returns an error to
// the user-facing layer; failures degrade to text.
type Assistant struct {
	client  *Client
	history []Message
}

// NewAssistant wraps a client. A nil client means offline mode.
func NewAssistant(client *Client) *Assistant {
	return &Assistant{client: client}
}

// Reset clears the conversation history.
func (a *Assistant) Reset() {
	a.history = nil
}

// Ask handles one user input. When the input is a local command, the parsed
// command comes back with ok=true and the caller dispatches it; otherwise
// the reply text is the answer.
func (a *Assistant) Ask(ctx context.Context, input string) (reply string, cmd Command, ok bool) {
	if cmd, isLocal := ParseCommand(input); isLocal {
		if cmd.Reply != "" {
			return cmd.Reply, Command{}, false
		}
		return "", cmd, true
	}

	if a.client == nil || !a.client.Enabled() {
		return offlineReplies[rand.IntN(len(offlineReplies))], Command{}, false
	}

	messages := make([]Message, 0, len(a.history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, a.history...)
	messages = append(messages, Message{Role: "user", Content: input})

	temp := 0.7
	resp, err := a.client.Complete(ctx, Request{
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   300,
	})
	if err != nil {
		return "Error contacting assistant: " + err.Error(), Command{}, false
	}

	a.history = append(a.history,
		Message{Role: "user", Content: input},
		Message{Role: "assistant", Content: resp.Content},
	)
	// keep the prompt bounded
	if len(a.history) > 20 {
		a.history = a.history[len(a.history)-20:]
	}

	return resp.Content, Command{}, false
}
