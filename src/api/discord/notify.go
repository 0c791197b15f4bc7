// Package discord announces newly created campaigns to a configured
// channel. The announcer is optional; without a bot token nothing runs.
package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"github.com/goalzilla/goalzilla/src/api/data"
)

// Announcer consumes campaign-created events and posts them to Discord.
type Announcer struct {
	session   *discordgo.Session
	channelID string
}

// NewAnnouncer opens a Discord session for the given bot token.
func NewAnnouncer(token, channelID string) (*Announcer, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("discord open: %w", err)
	}
	return &Announcer{session: s, channelID: channelID}, nil
}

// Close shuts the Discord session down.
func (a *Announcer) Close() error {
	return a.session.Close()
}

// Run blocks reading the campaign stream until ctx is cancelled.
func (a *Announcer) Run(ctx context.Context, rdb *redis.Client) {
	lastID := "$"
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{data.StreamCreated, lastID},
			Block:   5 * time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("discord: stream read: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				a.announce(msg.Values)
			}
		}
	}
}

func (a *Announcer) announce(values map[string]interface{}) {
	title, _ := values["title"].(string)
	creator, _ := values["creator"].(string)
	goal, _ := values["goal"].(string)

	content := fmt.Sprintf("New campaign **%s** by `%s` with a goal of %s", title, creator, goal)
	if _, err := a.session.ChannelMessageSend(a.channelID, content); err != nil {
		log.Printf("discord: send: %v", err)
	}
}
