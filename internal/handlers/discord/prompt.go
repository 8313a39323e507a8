package discord

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

// MessagePrompter implements the trading prompt flow over plain channel
// messages: ask the question, then wait for the next message from the right
// user in the right channel.
type MessagePrompter struct {
	session *discordgo.Session
}

// NewMessagePrompter creates a prompter bound to a Discord session
func NewMessagePrompter(session *discordgo.Session) *MessagePrompter {
	return &MessagePrompter{session: session}
}

// ConfirmYesNo asks a yes/no question and waits for the answer
func (p *MessagePrompter) ConfirmYesNo(ctx context.Context, channelID, userID, question string, timeout time.Duration) (bool, error) {
	answer, err := p.ask(ctx, channelID, userID, question, timeout)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}

// AskInt asks for a whole number and waits for the answer. A reply that is
// not a number counts as no answer and keeps waiting until the timeout.
func (p *MessagePrompter) AskInt(ctx context.Context, channelID, userID, question string, timeout time.Duration) (int64, error) {
	deadline := time.Now().Add(timeout)
	prompt := question
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, pokerr.Timeout("no answer in time")
		}
		answer, err := p.ask(ctx, channelID, userID, prompt, remaining)
		if err != nil {
			return 0, err
		}
		value, convErr := strconv.ParseInt(strings.TrimSpace(answer), 10, 64)
		if convErr == nil {
			return value, nil
		}
		prompt = "That is not a number, try again."
	}
}

// ask sends the question and blocks until the user's next message in the
// channel, the timeout, or ctx cancellation
func (p *MessagePrompter) ask(ctx context.Context, channelID, userID, question string, timeout time.Duration) (string, error) {
	if _, err := p.session.ChannelMessageSend(channelID, question); err != nil {
		return "", err
	}

	answers := make(chan string, 1)
	remove := p.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != channelID || m.Author == nil || m.Author.ID != userID {
			return
		}
		select {
		case answers <- m.Content:
		default:
		}
	})
	defer remove()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case answer := <-answers:
		return answer, nil
	case <-timer.C:
		return "", pokerr.Timeout("no answer in time")
	case <-ctx.Done():
		return "", pokerr.Timeout("no answer in time")
	}
}
