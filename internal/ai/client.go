package ai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/sashabaranov/go-openai"
)

// personalityPrompts maps a bot personality tag to its system prompt. A
// mapping table is all the dispatch the personalities need.
var personalityPrompts = map[models.BotPersonality]string{
	models.PersonalityCasual: `You are a casual, friendly person chatting in an online game. ` +
		`You write like a real human - use lowercase sometimes, occasional typos, emojis naturally, ` +
		`and casual slang. Keep responses short (1-2 sentences max). Be authentic and conversational.`,
	models.PersonalityFormal: `You are a well-spoken, articulate person. You write with proper grammar, ` +
		`complete sentences, and thoughtful responses. Keep it professional but friendly. ` +
		`Responses should be 1-2 sentences max.`,
	models.PersonalityQuirky: `You are a quirky, creative person with a unique personality. You might use ` +
		`unusual expressions, creative language, or interesting perspectives. Keep responses short ` +
		`(1-2 sentences max) and memorable.`,
}

const maxTokens = 256

type Client struct {
	client *openai.Client
	model  string
}

func NewClient() *Client {
	return &Client{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:  openai.GPT4oMini,
	}
}

// Generate produces one short chat message for a bot. The conversation
// history is rendered as speaker-prefixed lines so the model can follow who
// said what without seeing any seat internals.
func (c *Client) Generate(
	ctx context.Context,
	personality models.BotPersonality,
	topic string,
	history []models.Message,
) (string, error) {
	personalityPrompt, ok := personalityPrompts[personality]
	if !ok {
		return "", errors.New("unknown personality", slog.String("personality", string(personality)))
	}

	conversationContext := "No messages yet."
	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, message := range history {
			lines = append(lines, fmt.Sprintf("%s: %s", message.Speaker, message.Content))
		}
		conversationContext = strings.Join(lines, "\n")
	}

	systemPrompt := fmt.Sprintf(`%s

You are participating in a conversation about: %q

Recent conversation:
%s

Generate a natural, human-like response to this conversation. Keep it short (1-2 sentences), authentic, and match your personality style. Do NOT mention that you are a bot or AI.`,
		personalityPrompt, topic, conversationContext)

	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: "Generate a response to the conversation above."},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no completion choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
