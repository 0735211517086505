package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/metrics"
	"github.com/mauv0809/gardenal/internal/notifier"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/mauv0809/gardenal/internal/ranking"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(message.Text, false),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchResult posts the result of a finished match and returns the message timestamp.
func (s *Notifier) SendMatchResult(match *ledger.Match, players map[string]player.Player, dryRun bool) (string, error) {
	msg := s.formatMatchResult(match, players)
	_, ts, err := s.sendMessage(msg, dryRun)
	return ts, err
}

func (s *Notifier) SendRanking(entries []ranking.Entry, dryRun bool) error {
	msg := s.formatRanking(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatRankingResponse formats the ranking for a slash command response.
func (s *Notifier) FormatRankingResponse(entries []ranking.Entry) (any, error) {
	msg := s.formatRanking(entries)
	msg.ResponseType = slack.ResponseTypeInChannel
	return msg, nil
}

// FormatPlayerStatsResponse formats a single player's line for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(entry *ranking.Entry) (any, error) {
	msg := s.formatPlayerStats(entry)
	msg.ResponseType = slack.ResponseTypeInChannel
	return msg, nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	msg := s.formatPlayerNotFound(query)
	msg.ResponseType = slack.ResponseTypeEphemeral
	return msg, nil
}

func teamNames(roster [2]string, players map[string]player.Player) string {
	names := make([]string, 0, len(roster))
	for _, id := range roster {
		if p, ok := players[id]; ok {
			names = append(names, p.DisplayName())
			continue
		}
		names = append(names, id)
	}
	return strings.Join(names, " & ")
}

// formatMatchResult creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatMatchResult(match *ledger.Match, players map[string]player.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🁫 Match finished! 🁫", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	winner := match.WinnerTeam
	loser := winner.Opponent()
	resultText := fmt.Sprintf("*Winners*: %s (%d)\n*Losers*: %s (%d)",
		teamNames(match.Roster(winner), players), match.Total(winner),
		teamNames(match.Roster(loser), players), match.Total(loser),
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", resultText, false, false), nil, nil))

	var contextElements []slack.MixedElement
	if match.HasLisa() {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "💥 Lisa! The losers did not score a single point.", true, false))
	}
	contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("%d rounds played", len(match.Rounds)), true, false))
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	msg := slack.NewBlockMessage(blocks...)
	msg.Text = fmt.Sprintf("Match finished: %s won %d-%d", teamNames(match.Roster(winner), players), match.Total(winner), match.Total(loser))
	return msg
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

// formatRanking creates a Slack message to display the league ranking.
func (s *Notifier) formatRanking(entries []ranking.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 League Ranking 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	played := 0
	for i, e := range entries {
		if e.TotalGames == 0 {
			continue
		}
		played++
		playerText := fmt.Sprintf("%d. %s %s\n> Score: %d | Wins: %d | Losses: %d | Lisas: %d/%d",
			i+1,
			medal(i+1),
			e.PlayerName,
			e.Score,
			e.Wins,
			e.Losses,
			e.LisasFor,
			e.LisasAgainst,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}
	if played == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No finished matches yet. Go play some dominoes!", true, false), nil, nil))
	}

	msg := slack.NewBlockMessage(blocks...)
	msg.Text = "League Ranking"
	return msg
}

// formatPlayerStats creates a Slack message to display stats for a single player.
func (s *Notifier) formatPlayerStats(e *ranking.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("📊 Stats for %s", e.PlayerName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Score*\n%d", e.Score), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Games*\n%d", e.TotalGames), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Wins*\n%d", e.Wins), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Losses*\n%d", e.Losses), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Lisas for*\n%d", e.LisasFor), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Lisas against*\n%d", e.LisasAgainst), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	msg := slack.NewBlockMessage(blocks...)
	msg.Text = fmt.Sprintf("Stats for %s", e.PlayerName)
	return msg
}

// formatPlayerNotFound creates a Slack message for when a player is not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching '%s'.", query)
	msg := slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, false, false), nil, nil),
	)
	msg.Text = text
	return msg
}
